package http

import (
	"net/http"

	"github.com/Deek-011/formbot/internal/common/constants"
	"github.com/Deek-011/formbot/internal/common/logger"
)

// BuildBaseHandler wraps handler with the middleware every request shares.
// Per-route metrics and rate limits are installed on the router itself.
func BuildBaseHandler(log *logger.Logger, handler http.Handler, corsOrigins []string) http.Handler {
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	cors := CORSMiddleware(corsOrigins)

	return securityHeaders(cors(recovery(traceID(maxRequestSize(handler)))))
}
