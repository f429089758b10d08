package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/accountd/accountd/internal/http/response"
	"github.com/accountd/accountd/internal/observability"
	"github.com/accountd/accountd/internal/service"
)

const idempotencyHeader = "Idempotency-Key"

// IdempotencyMiddleware extends the single-result rule across client retries
// of one logical request: the first arrival claims the key and records its
// result, later arrivals with the same key and payload replay that result.
// Requests without the header pass through untouched.
type IdempotencyMiddleware struct {
	store service.IdempotencyStore
	ttl   time.Duration
}

func NewIdempotencyMiddleware(store service.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

func (m *IdempotencyMiddleware) Middleware(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > 128 {
				observability.RecordIdempotencyEvent(r.Context(), scope, "invalid_key")
				response.Fail(w, r, http.StatusBadRequest, "invalid Idempotency-Key header")
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				response.Fail(w, r, http.StatusBadRequest, "invalid request payload")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			fingerprint := fingerprintRequest(r, scope, body)

			begin, err := m.store.Begin(r.Context(), scope, key, fingerprint, m.ttl)
			if err != nil {
				observability.RecordIdempotencyEvent(r.Context(), scope, "store_error")
				response.Fail(w, r, http.StatusBadGateway, "idempotency check failed")
				return
			}

			switch begin.State {
			case service.IdempotencyStateConflict:
				observability.RecordIdempotencyEvent(r.Context(), scope, "conflict")
				response.Fail(w, r, http.StatusConflict, "Idempotency-Key reused with a different payload")
				return
			case service.IdempotencyStateInProgress:
				observability.RecordIdempotencyEvent(r.Context(), scope, "in_progress")
				response.Fail(w, r, http.StatusConflict, "request with this Idempotency-Key is in progress")
				return
			case service.IdempotencyStateReplay:
				observability.RecordIdempotencyEvent(r.Context(), scope, "replayed")
				writeCachedResponse(w, begin.Cached)
				return
			}

			rec := &recordingResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			cached := service.CachedResponse{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if err := m.store.Complete(r.Context(), scope, key, fingerprint, cached, m.ttl); err != nil {
				// The client already has its result; the worst case is one
				// extra execution on a later retry.
				observability.RecordIdempotencyEvent(r.Context(), scope, "complete_error")
				return
			}
			observability.RecordIdempotencyEvent(r.Context(), scope, "recorded")
		})
	}
}

func fingerprintRequest(r *http.Request, scope string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	h.Write([]byte{0})
	h.Write([]byte(scope))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func writeCachedResponse(w http.ResponseWriter, cached *service.CachedResponse) {
	if cached == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.WriteHeader(cached.Status)
	_, _ = w.Write(cached.Body)
}

type recordingResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingResponseWriter) Write(p []byte) (int, error) {
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}

// Written keeps the single-assignment guard visible through this wrapper.
func (w *recordingResponseWriter) Written() bool {
	if slot, ok := w.ResponseWriter.(interface{ Written() bool }); ok {
		return slot.Written()
	}
	return false
}
