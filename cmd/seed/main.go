// Command seed provisions a demo user with a handful of tasks so the API has
// data to exercise right after startup.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"taskhive/internal/config"
	"taskhive/internal/db"
	apperr "taskhive/internal/errors"
	"taskhive/internal/model"
	"taskhive/internal/password"
	"taskhive/internal/repository"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@example.com"
	demoPassword = "demo-password"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatalf("database init: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	tasks := repository.NewTaskRepository(gormDB)

	user, err := users.FindByUsername(ctx, demoUsername)
	if err == nil {
		logger.Infof("demo user %q already exists (id=%d), skipping", user.Username, user.ID)
		return
	}
	if !errors.Is(err, apperr.ErrUserNotFound) {
		logger.Fatalf("lookup demo user: %v", err)
	}

	hash, err := password.Hash(demoPassword)
	if err != nil {
		logger.Fatalf("hash password: %v", err)
	}

	user = &model.User{
		Username:     demoUsername,
		Email:        demoEmail,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, user); err != nil {
		logger.Fatalf("create demo user: %v", err)
	}
	logger.Infof("created demo user %q (id=%d)", user.Username, user.ID)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	nextWeek := time.Now().UTC().AddDate(0, 0, 7)

	fixtures := []model.Task{
		{Title: "Pay electricity bill", Status: model.StatusTodo, Priority: model.PriorityHigh, DueDate: &yesterday},
		{Title: "Write trip report", Description: "Summarize the client visit", Status: model.StatusInProgress, Priority: model.PriorityMedium},
		{Title: "Book dentist appointment", Status: model.StatusTodo, Priority: model.PriorityLow, DueDate: &nextWeek},
		{Title: "Renew passport", Status: model.StatusCompleted, Priority: model.PriorityHigh},
	}

	for i := range fixtures {
		fixtures[i].OwnerID = user.ID
		if err := tasks.Create(ctx, &fixtures[i]); err != nil {
			logger.Fatalf("create task %q: %v", fixtures[i].Title, err)
		}
	}
	logger.Infof("seeded %d tasks for %q", len(fixtures), user.Username)
}
