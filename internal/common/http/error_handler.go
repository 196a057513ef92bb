package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Deek-011/formbot/internal/common/constants"
	commonerrors "github.com/Deek-011/formbot/internal/common/errors"
	"github.com/Deek-011/formbot/internal/common/httpmetrics"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/observability/metrics"
)

// ErrorHandler is the single boundary where errors become responses. Only the
// domain error's message reaches the client; causes are logged.
type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	ctx := r.Context()
	h.log.WithFields(ctx, logger.Fields{
		"action": "unhandled_error",
		"path":   r.URL.Path,
		"method": r.Method,
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.RouteLabel(r),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil, TraceIDFromContext(ctx))
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	ctx := r.Context()
	status := err.HTTPStatus()

	logFields := logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"path":       r.URL.Path,
		"action":     "domain_error",
	}

	switch {
	case status >= http.StatusInternalServerError:
		h.log.WithFields(ctx, logFields).Errorf("request failed: %v", err)
	case h.log.ShouldLog(logger.DEBUG):
		h.log.WithFields(ctx, logFields).Debugf("domain error: %v", err)
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.RouteLabel(r),
		r.Method,
	).Inc()

	var traceID string
	if status >= http.StatusInternalServerError {
		traceID = TraceIDFromContext(ctx)
	}

	WriteErrorEnvelope(w, status, err.Code(), err.Message(), nil, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(constants.TraceIDKey).(string)
	return traceID
}
