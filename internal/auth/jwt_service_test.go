package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "taskhive/internal/errors"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	for _, username := range []string{"alice", "bob", "user_42"} {
		token, err := svc.Issue(username)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		got, err := svc.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, username, got)
	}
}

func TestJWTService_VerifyRejectsInvalidTokens(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a jwt", token: "garbage"},
		{name: "tampered payload", token: token[:len(token)-4] + "XXXX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, apperr.ErrInvalidToken)
		})
	}
}

func TestJWTService_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestJWTService_VerifyRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	// Still valid just before expiry.
	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	username, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", username)

	// Rejected once the TTL has elapsed.
	svc.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestJWTService_TokensCarryUniqueIDs(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	first, err := svc.Issue("alice")
	require.NoError(t, err)
	second, err := svc.Issue("alice")
	require.NoError(t, err)

	// Same username, but the jti claim differs per issuance.
	assert.NotEqual(t, first, second)
}
