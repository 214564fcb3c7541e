package middleware

import (
	"net/http"
	"sync/atomic"
)

// Counts requests served by the wrapped handler
type Hits struct {
	count atomic.Int64
}

func (h *Hits) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.count.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (h *Hits) Value() int64 {
	return h.count.Load()
}

func (h *Hits) Reset() {
	h.count.Store(0)
}
