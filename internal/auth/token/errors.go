package token

import (
	"errors"
	"net/http"

	commonerrors "github.com/Deek-011/formbot/internal/common/errors"
)

var (
	ErrMissingToken = commonerrors.NewDomainError(
		"TOKEN_MISSING",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"token not found",
	)

	ErrMalformedToken = commonerrors.NewDomainError(
		"TOKEN_MALFORMED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is malformed",
	)

	ErrInvalidSignature = commonerrors.NewDomainError(
		"TOKEN_INVALID_SIGNATURE",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"token signature is invalid",
	)

	ErrTokenExpired = commonerrors.NewDomainError(
		"TOKEN_EXPIRED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is expired",
	)
)

// Reason returns a stable label for a verification failure, used for log
// fields and metric labels.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingToken):
		return "missing"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	default:
		return "unknown"
	}
}
