// internal/httpserver/middleware.go
//
// Cross-cutting HTTP middleware: content type, CORS, access logging,
// optional/required JWT auth, and per-client rate limiting.

package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/robalobadob/wordlebot/internal/auth"
)

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("http request")
	})
}

// withOptionalAuth decorates requests with the caller if a valid JWT is
// present and the account still exists. It never 401s.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := auth.TokenFromRequest(r); tok != "" {
			if u, err := s.cfg.Signer.Verify(tok); err == nil {
				if _, err := s.cfg.Store.UserByID(r.Context(), u.ID); err == nil {
					r = r.WithContext(auth.WithUser(r.Context(), u))
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without an authenticated caller.
// It relies on withOptionalAuth having run first.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFrom(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientLimiter hands out one token bucket per client address.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{limiters: make(map[string]*rate.Limiter), rate: rate.Limit(rps), burst: burst}
}

func (c *clientLimiter) allow(key string) bool {
	c.mu.Lock()
	l, ok := c.limiters[key]
	if !ok {
		// Reset instead of tracking idle buckets.
		if len(c.limiters) > 10000 {
			c.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(c.rate, c.burst)
		c.limiters[key] = l
	}
	c.mu.Unlock()
	return l.Allow()
}

// rateLimit throttles each client address. rps <= 0 disables it.
func rateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	cl := newClientLimiter(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if host, _, err := net.SplitHostPort(key); err == nil {
				key = host
			}
			if !cl.allow(key) {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate_limited")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
