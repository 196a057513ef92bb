package jwtverify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Deek-011/formbot/internal/auth/token"
	commonhttp "github.com/Deek-011/formbot/internal/common/http"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/observability/metrics"
)

const (
	MsgMissingAuthorization = "Authorization header is missing"
	MsgTokenNotFound        = "Token not found"
	MsgInvalidToken         = "Invalid token"
)

type Verifier interface {
	Verify(raw string) (token.Claims, error)
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type contextKey string

const identityKey contextKey = "identity"

func Middleware(v Verifier, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if strings.TrimSpace(raw) == "" {
				reject(w, r, log, "missing_header", commonhttp.CodeMissingAuthorization, MsgMissingAuthorization)
				return
			}

			tokenString, ok := bearerToken(raw)
			if !ok {
				reject(w, r, log, "token_not_found", commonhttp.CodeTokenNotFound, MsgTokenNotFound)
				return
			}

			claims, err := v.Verify(tokenString)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"action": "auth_gate_verify_failed",
					"path":   r.URL.Path,
					"reason": token.Reason(err),
				}).Warn("token verification failed")
				metrics.AuthGateRejections.WithLabelValues(token.Reason(err)).Inc()
				commonhttp.WriteError(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, MsgInvalidToken)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID:    claims.UserID,
				IssuedAt:  claims.IssuedAt,
				ExpiresAt: claims.ExpiresAt,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, log *logger.Logger, reason, code, msg string) {
	log.WithFields(r.Context(), logger.Fields{
		"action": "auth_gate_rejected",
		"path":   r.URL.Path,
		"reason": reason,
	}).Warn(msg)
	metrics.AuthGateRejections.WithLabelValues(reason).Inc()
	commonhttp.WriteError(w, http.StatusUnauthorized, code, msg)
}

// bearerToken returns the second whitespace-separated segment of an
// Authorization header whose scheme is Bearer.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// RequireIdentity fetches the caller attached by Middleware and writes a 401
// when a handler was mounted without it.
func RequireIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, MsgInvalidToken)
	}
	return id, ok
}
