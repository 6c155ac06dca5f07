package middleware

import (
	"bytes"
	"crypto/sha256"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/metrics"
	"github.com/guttosm/scaffold-service/internal/service/cache"
)

const (
	// IdempotencyKeyHeader names the client-chosen key of a retriable request.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"

	// DefaultIdempotencyTTL is how long a response can be replayed.
	DefaultIdempotencyTTL = 5 * time.Minute
	// DefaultIdempotencyCapacity bounds the number of stored responses.
	DefaultIdempotencyCapacity = 10000

	maxIdempotencyKeyLength = 255
	idempotencyCacheName    = "idempotency"
)

// volatileHeaders belong to a single exchange and are never replayed.
var volatileHeaders = []string{
	RequestIDHeader,
	"Content-Length",
	"Content-Encoding",
	"Vary",
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
}

// StoredResponse is a successful response kept for replay, together with
// the fingerprint of the request that produced it.
type StoredResponse struct {
	Fingerprint [sha256.Size]byte
	Status      int
	Header      http.Header
	Body        []byte
}

// NewIdempotencyStore returns an LRU store for replayable responses.
func NewIdempotencyStore(capacity int, ttl time.Duration) *cache.Sharded[*StoredResponse] {
	return cache.NewSharded[*StoredResponse](idempotencyCacheName, capacity, ttl, 0)
}

// Idempotency replays the stored response when a caller repeats a POST, PUT
// or PATCH with the same Idempotency-Key, so a retried withdrawal is applied
// once. Keys are scoped to the caller. Reusing a key for a different method,
// path or body is rejected with 422. Only 2xx responses are stored.
func Idempotency(store cache.Cache[*StoredResponse]) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if store == nil || key == "" || !replayable(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest)
			return
		}

		fingerprint, err := fingerprintRequest(c.Request)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody)
			return
		}

		storeKey := callerScope(c) + "\x00" + key
		if stored, ok := store.Get(storeKey); ok {
			if stored.Fingerprint != fingerprint {
				abortWithError(c, http.StatusUnprocessableEntity, dto.ErrCodeIdempotencyMismatch, i18n.ErrKeyIdempotencyMismatch)
				return
			}
			metrics.RecordRejection(metrics.RejectReplay)
			replay(c, stored)
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()
		c.Writer = recorder.ResponseWriter

		status := recorder.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		header := recorder.Header().Clone()
		for _, h := range volatileHeaders {
			header.Del(h)
		}
		store.Set(storeKey, &StoredResponse{
			Fingerprint: fingerprint,
			Status:      status,
			Header:      header,
			Body:        recorder.body.Bytes(),
		})
	}
}

func replayable(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func replay(c *gin.Context, stored *StoredResponse) {
	h := c.Writer.Header()
	for name, values := range stored.Header {
		h[name] = append([]string(nil), values...)
	}
	h.Set(IdempotencyReplayedHeader, "true")
	c.Writer.WriteHeader(stored.Status)
	_, _ = c.Writer.Write(stored.Body)
	c.Abort()
}

// callerScope keeps keys from different tenants and users apart.
func callerScope(c *gin.Context) string {
	if claims, ok := GetClaims(c); ok {
		return claims.TenantID + "/" + claims.UserID
	}
	return ""
}

// fingerprintRequest hashes the method, path and body. The body is restored
// for the handler.
func fingerprintRequest(req *http.Request) ([sha256.Size]byte, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return [sha256.Size]byte{}, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	h := sha256.New()
	h.Write([]byte(req.Method))
	h.Write([]byte{0})
	h.Write([]byte(req.URL.Path))
	h.Write([]byte{0})
	h.Write(body)

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// bodyRecorder copies the response body while passing it through.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
