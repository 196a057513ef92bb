package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

// CORSMiddleware lets the listed browser origins call the API. With "*" any
// origin is allowed but credentials are not; an empty list disables CORS.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	if len(allowed) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	opts := []handlers.CORSOption{
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Trace-ID"}),
		handlers.MaxAge(600),
		handlers.OptionStatusCode(http.StatusNoContent),
	}

	if allowAll {
		opts = append(opts, handlers.AllowedOrigins([]string{"*"}))
	} else {
		opts = append(opts,
			handlers.AllowedOriginValidator(func(origin string) bool {
				_, ok := allowed[origin]
				return ok
			}),
			handlers.AllowCredentials(),
		)
	}

	cors := handlers.CORS(opts...)
	if allowAll {
		return cors
	}
	return func(next http.Handler) http.Handler {
		h := cors(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")
			h.ServeHTTP(w, r)
		})
	}
}
