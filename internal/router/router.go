package router

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskhive/internal/auth"
	"taskhive/internal/errors"
	"taskhive/internal/handler"
	"taskhive/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes: the JWT guard verifies the bearer token, then the
	// identity middleware resolves it to a user record for each request.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey:  auth.ContextUsernameKey,
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if stderrors.Is(err, echojwt.ErrJWTMissing) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed authorization header")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		},
	}), auth.ResolveUser(userRepo))

	secured.GET("/auth/verify", authHandler.Verify)

	secured.GET("/tasks", taskHandler.List)
	secured.GET("/tasks/stats", taskHandler.Stats)
	secured.GET("/tasks/due", taskHandler.ListDue)
	secured.GET("/tasks/:id", taskHandler.Get)
	secured.POST("/tasks", taskHandler.Create)
	secured.PUT("/tasks/:id", taskHandler.Update)
	secured.PATCH("/tasks/:id/complete", taskHandler.Complete)
	secured.DELETE("/tasks/:id", taskHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator. Field names in error messages
// come from json tags.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// newHTTPErrorHandler translates every error escaping a handler into the
// standardized body: status, message, timestamp and request path, plus
// per-field messages for validation failures.
func newHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := errors.ErrorResponse{
			Timestamp: time.Now().UTC(),
			Path:      c.Request().URL.Path,
		}

		var valErrs validator.ValidationErrors
		var httpErr *echo.HTTPError
		switch {
		case stderrors.As(err, &valErrs):
			resp.Status = http.StatusBadRequest
			resp.Code = "VALIDATION_FAILED"
			resp.Message = "validation failed"
			resp.Errors = fieldErrors(valErrs)
		case stderrors.As(err, &httpErr):
			resp.Status = httpErr.Code
			resp.Message = fmt.Sprintf("%v", httpErr.Message)
		default:
			mapped := errors.MapErrorToHTTP(err)
			resp.Status = mapped.StatusCode
			resp.Code = mapped.Code
			resp.Message = mapped.Message
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}

func fieldErrors(valErrs validator.ValidationErrors) map[string]string {
	msgs := make(map[string]string, len(valErrs))
	for _, fe := range valErrs {
		msgs[fe.Field()] = fieldErrorMessage(fe)
	}
	return msgs
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	case "datetime":
		return "must match format " + fe.Param()
	default:
		return "is invalid"
	}
}
