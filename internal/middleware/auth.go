package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
)

const (
	// APIKeyHeader carries the API key.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the fallback query parameter for clients that cannot
	// set headers.
	APIKeyQuery = "api_key"
)

// keyring holds digests of the accepted API keys so that lookups compare
// fixed-length values in constant time.
type keyring [][sha256.Size]byte

func newKeyring(keys map[string]bool) keyring {
	ring := make(keyring, 0, len(keys))
	for key, enabled := range keys {
		if enabled && key != "" {
			ring = append(ring, sha256.Sum256([]byte(key)))
		}
	}
	return ring
}

func (r keyring) contains(key string) bool {
	digest := sha256.Sum256([]byte(key))
	found := 0
	for i := range r {
		found |= subtle.ConstantTimeCompare(r[i][:], digest[:])
	}
	return found == 1
}

// APIKeyAuth accepts requests carrying one of keys in the X-API-Key header
// or the api_key query parameter. With no enabled keys it lets everything
// through.
func APIKeyAuth(keys map[string]bool) gin.HandlerFunc {
	ring := newKeyring(keys)

	return func(c *gin.Context) {
		if len(ring) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}

		switch {
		case key == "":
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyAPIKeyRequired)
		case !ring.contains(key):
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidAPIKey)
		default:
			c.Next()
		}
	}
}
