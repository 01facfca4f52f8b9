package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDLength = 8
	requestIDChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// requestIDs hands out short request IDs. IDs only correlate log lines, so a
// seeded generator is enough.
type requestIDs struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newRequestIDs(seed uint64) *requestIDs {
	return &requestIDs{rng: rand.New(rand.NewSource(seed))}
}

func (g *requestIDs) next() string {
	id := make([]byte, requestIDLength)
	g.mu.Lock()
	for i := range id {
		id[i] = requestIDChars[g.rng.Intn(len(requestIDChars))]
	}
	g.mu.Unlock()
	return string(id)
}

// withRequestLog echoes the caller's X-Request-ID, or a fresh one, and stores
// a logger tagged with it in the request context for zerolog.Ctx.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(requestIDHeader)
		if len(rid) != requestIDLength {
			rid = s.ids.next()
		}
		w.Header().Set(requestIDHeader, rid)
		reqLog := s.log.With().
			Str("rid", rid).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		next.ServeHTTP(w, r.WithContext(reqLog.WithContext(r.Context())))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// accessLog writes one line per request with its status and duration.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		zerolog.Ctx(r.Context()).Info().
			Int("status", rec.status).
			Dur("dur", time.Since(start)).
			Msg("request completed")
	})
}
