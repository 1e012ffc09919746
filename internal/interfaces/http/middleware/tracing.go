package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// untracedPaths are health endpoints that would only add noise to traces
var untracedPaths = []string{"/health", "/ready"}

// Tracing starts a server span per request using the global tracer
// provider. Health endpoints are not traced.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			for _, p := range untracedPaths {
				if r.URL.Path == p || strings.HasPrefix(r.URL.Path, p+"/") {
					return false
				}
			}
			return true
		}),
	)
}
