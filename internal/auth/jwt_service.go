package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperr "taskhive/internal/errors"
)

// DefaultTokenTTL is the duration for which issued tokens are valid.
const DefaultTokenTTL = 24 * time.Hour

// Claims represents the JWT claims carried by an issued token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTService mints and validates signed, time-bound identity tokens. It is
// stateless: tokens are derived and verified on demand from the signing
// secret configured at startup.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret and token
// lifetime. A non-positive ttl falls back to DefaultTokenTTL.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue produces a signed token binding username to an expiration instant.
func (s *JWTService) Issue(username string) (string, error) {
	now := s.now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature integrity and expiration and returns the embedded
// username. Malformed, tampered and expired tokens all report ErrInvalidToken.
func (s *JWTService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return "", apperr.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return "", apperr.ErrInvalidToken
	}

	// Time-based claims are checked against the service clock so expiry is
	// testable without waiting out the TTL.
	at := s.now()
	if !claims.VerifyExpiresAt(at, true) || !claims.VerifyNotBefore(at, false) {
		return "", apperr.ErrInvalidToken
	}
	if claims.Username == "" {
		return "", apperr.ErrInvalidToken
	}

	return claims.Username, nil
}
