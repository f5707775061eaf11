package middleware

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cabins/pkg/metrics"
)

var reObjectID = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Metrics records request count and latency per route.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			metrics.RecordHTTPRequest(
				r.Method,
				RouteLabel(r.URL.Path),
				strconv.Itoa(wrapped.statusCode),
				time.Since(start).Seconds(),
			)
		})
	}
}

// RouteLabel collapses identifier segments so the label set stays bounded:
// /api/v1/cabins/lying-1/availability becomes /api/v1/cabins/:id/availability.
func RouteLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if reObjectID.MatchString(seg) {
			segments[i] = ":id"
			continue
		}
		if i > 0 && (segments[i-1] == "cabins" || segments[i-1] == "id") {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
