package middleware

import (
	"net/http"
	"strconv"

	"github.com/Proton-105/creator-bot/pkg/metrics"
)

// Metrics counts requests under a fixed route label so unknown paths do not
// blow up label cardinality.
func Metrics(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(route, strconv.Itoa(rec.code()))
	})
}
