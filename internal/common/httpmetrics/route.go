package httpmetrics

import (
	"net/http"

	"github.com/gorilla/mux"
)

// UnmatchedRoute labels requests no registered route accepted.
const UnmatchedRoute = "unmatched"

// RouteLabel returns the path template of the mux route serving r, e.g.
// "/api/v1/folders/{id}". Raw URL paths are never used as labels.
func RouteLabel(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return UnmatchedRoute
	}
	tpl, err := route.GetPathTemplate()
	if err != nil || tpl == "" {
		return UnmatchedRoute
	}
	return tpl
}
