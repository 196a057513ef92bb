// Package token issues and verifies the signed identity tokens handed out at
// login. Tokens are HS256 JWTs carrying the user id; nothing about them is
// stored server-side.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Deek-011/formbot/internal/common/clock"
	"github.com/Deek-011/formbot/internal/observability/metrics"
)

// Claims is the identity decoded from a valid token.
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewManager(secret string, ttl time.Duration, clk clock.Clock) *Manager {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clk,
	}
}

func (m *Manager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("token: empty user id")
	}

	now := m.clock.Now()
	claims := jwtClaims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()
	return signed, nil
}

func (m *Manager) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	claims, err := m.verify(tokenString)
	if err != nil {
		metrics.JWTValidationsFailed.WithLabelValues(Reason(err)).Inc()
		return Claims{}, err
	}
	return claims, nil
}

func (m *Manager) verify(tokenString string) (Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrMissingToken
	}

	var parsed jwtClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&parsed,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return Claims{}, classify(err)
	}

	if parsed.ID == "" || parsed.IssuedAt == nil {
		return Claims{}, ErrMalformedToken
	}

	return Claims{
		UserID:    parsed.ID,
		IssuedAt:  parsed.IssuedAt.Time,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired.WithCause(err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature.WithCause(err)
	default:
		return ErrMalformedToken.WithCause(err)
	}
}
