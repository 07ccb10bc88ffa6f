package server

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"

	"github.com/desertthunder/tvx/internal/shared"
)

// statusRecorder captures the status code and body size written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// RequestLogger logs one line per request once the handler returns.
func RequestLogger(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.Status(),
				"bytes", rec.bytes,
				"duration", time.Since(start),
				"client", ClientIP(r),
			)
		})
	}
}

// Recoverer converts a panic in the handler chain into a 500 JSON response.
func Recoverer(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Error("handler panic", "method", r.Method, "path", r.URL.Path, "panic", v)
					writeJSON(w, http.StatusInternalServerError, errorResponse{
						Error:  "internal server error",
						Status: http.StatusInternalServerError,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter hands out one token bucket per key.
//
// Buckets idle for longer than the cache TTL are evicted, so a returning client starts with a full bucket.
type RateLimiter struct {
	limiters *ttlcache.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

const limiterTTL = 30 * time.Minute

// NewRateLimiter creates a limiter refilling perSecond tokens up to burst for each key.
// Call [RateLimiter.Stop] to end the eviction loop.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	limiters := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](limiterTTL),
	)
	go limiters.Start()

	return &RateLimiter{
		limiters: limiters,
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

// Allow consumes a token for key and reports whether one was available.
func (l *RateLimiter) Allow(key string) bool {
	item, _ := l.limiters.GetOrSet(key, rate.NewLimiter(l.limit, l.burst))
	return item.Value().Allow()
}

// Stop ends the background eviction loop.
func (l *RateLimiter) Stop() { l.limiters.Stop() }

// RateLimit rejects requests with 429 once the client's bucket is empty.
// A nil limiter disables the middleware.
func RateLimit(limiter *RateLimiter, logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientIP(r)
			if !limiter.Allow(key) {
				logger.Info("rate limit exceeded", "client", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				writeError(w, logger, fmt.Errorf("%w: rate limit exceeded", shared.ErrRateLimited))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the remote address without its port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
