package middleware

import (
	"sort"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compression gzips responses for clients that accept it. Probe and metrics
// paths are skipped: their bodies are tiny and Prometheus negotiates its own
// encoding.
func Compression() gin.HandlerFunc {
	skipped := make([]string, 0, len(quietPaths))
	for path := range quietPaths {
		skipped = append(skipped, path)
	}
	sort.Strings(skipped)
	return gzip.Gzip(gzip.BestSpeed, gzip.WithExcludedPaths(skipped))
}
