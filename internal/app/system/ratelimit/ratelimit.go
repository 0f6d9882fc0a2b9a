// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/reelcircle/reelcircle/internal/app/system/authz"
	"github.com/reelcircle/reelcircle/internal/app/system/httpjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key. A key may spend limit requests
// at once and regains one every duration/limit. It is safe for concurrent
// use.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	every    rate.Limit
	burst    int
	disabled bool

	stop context.CancelFunc
	wg   sync.WaitGroup

	// Now is the clock; tests replace it.
	Now func() time.Time
}

// New creates a limiter allowing limit requests per key per duration.
// A non-positive limit disables limiting.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		buckets:  make(map[string]*rate.Limiter),
		burst:    limit,
		disabled: limit <= 0 || duration <= 0,
		Now:      time.Now,
	}
	if !l.disabled {
		l.every = rate.Every(duration / time.Duration(limit))
	}
	return l
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.every, l.burst)
		l.buckets[key] = b
	}
	return b
}

// Reserve takes a token for key. When none is available it returns false
// and how long until one will be.
func (l *Limiter) Reserve(key string) (bool, time.Duration) {
	if l.disabled {
		return true, 0
	}
	now := l.Now()
	r := l.bucket(key).ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Allow is Reserve without the wait.
func (l *Limiter) Allow(key string) bool {
	ok, _ := l.Reserve(key)
	return ok
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Sweep drops buckets that have refilled completely and returns how many
// were removed. A full bucket behaves exactly like a new one.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.Now()
	n := 0
	for key, b := range l.buckets {
		if b.TokensAt(now) >= float64(l.burst) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Start sweeps every interval in the background until Stop is called.
// Start and Stop are not safe for concurrent use with each other.
func (l *Limiter) Start(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	l.stop = cancel
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.Run(ctx, interval)
	}()
}

// Stop ends the sweep started by Start and waits for it to exit.
func (l *Limiter) Stop() {
	if l.stop == nil {
		return
	}
	l.stop()
	l.wg.Wait()
	l.stop = nil
}

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// key is the signed-in actor when there is one, else the client IP.
func key(r *http.Request) string {
	if id, ok := authz.ActorID(r); ok {
		return "user:" + id.Hex()
	}
	return "ip:" + ClientIP(r)
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header.
func (l *Limiter) Middleware(name string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if ok, wait := l.Reserve(k); !ok {
				if log != nil {
					log.Info("rate limited",
						zap.String("limiter", name),
						zap.String("key", k),
						zap.Duration("retry_after", wait))
				}
				secs := int((wait + time.Second - 1) / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				httpjson.Write(w, http.StatusTooManyRequests, httpjson.ErrorBody{
					Error: "too many requests",
					Kind:  "RateLimited",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
