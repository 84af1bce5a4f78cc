package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/eugenenazirov/navigator-gateway/internal/metrics"
	"github.com/eugenenazirov/navigator-gateway/internal/redirects"
)

// redirectMiddleware answers requests whose path has an exact rule in table
// and passes every other request to next untouched. The path is compared as
// sent on the wire, so percent-encoded variants of a source do not match.
func redirectMiddleware(table *redirects.Table, m *metrics.Metrics, logger *zap.Logger, next http.Handler) http.Handler {
	if table == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rule, ok := table.Resolve(r.URL.EscapedPath())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		status := rule.StatusCode()
		m.ObserveRedirect(status)
		logger.Debug("redirect issued",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		http.Redirect(w, r, rule.Destination, status)
	})
}
