package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Compress returns a gzip response-compression middleware. Clients
// that don't advertise gzip support get the identity encoding.
func Compress() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return gzhttp.GzipHandler(next)
	}
}
