package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reelcircle/reelcircle/internal/app/system/ratelimit"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"github.com/reelcircle/reelcircle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newLimiter(limit int, d time.Duration) (*ratelimit.Limiter, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := ratelimit.New(limit, d)
	l.Now = c.now
	return l, c
}

func TestAllow_BurstThenRefill(t *testing.T) {
	l, c := newLimiter(2, time.Minute)

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	ok, wait := l.Reserve("a")
	if ok {
		t.Fatal("third request should be limited")
	}
	if wait != 30*time.Second {
		t.Errorf("wait = %v, want 30s", wait)
	}
	if !l.Allow("b") {
		t.Error("keys are independent")
	}

	c.t = c.t.Add(30 * time.Second)
	if !l.Allow("a") {
		t.Error("one token should have refilled")
	}
	if l.Allow("a") {
		t.Error("only one token should have refilled")
	}
}

func TestAllow_ZeroLimitDisables(t *testing.T) {
	l, _ := newLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d limited with limit 0", i)
		}
	}
}

func TestSweep(t *testing.T) {
	l, c := newLimiter(1, time.Minute)
	l.Allow("a")
	c.t = c.t.Add(30 * time.Second)
	l.Allow("b")

	c.t = c.t.Add(30 * time.Second)
	if n := l.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if l.Allow("b") {
		t.Error("b's window should still be active")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.4 "}, "10.0.0.2:1234", "198.51.100.4"},
		{"remote", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"remote no port", nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ratelimit.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware_PerActor(t *testing.T) {
	l, _ := newLimiter(1, time.Minute)
	h := l.Middleware("flag", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	alice := models.User{ID: primitive.NewObjectID(), Role: models.RoleViewer}
	bob := models.User{ID: primitive.NewObjectID(), Role: models.RoleViewer}

	do := func(u models.User) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.WithUser(httptest.NewRequest("POST", "/reports", nil), u))
		return rec
	}

	if rec := do(alice); rec.Code != http.StatusCreated {
		t.Fatalf("first: %d", rec.Code)
	}
	rec := do(alice)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second: %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", rec.Header().Get("Retry-After"))
	}
	if rec := do(bob); rec.Code != http.StatusCreated {
		t.Errorf("bob limited by alice's window: %d", rec.Code)
	}
}

func TestLimiter_StartStop(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	l.Start(time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		l.Stop()
		l.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	if !l.Allow("a") {
		t.Error("limiter should keep serving after Stop")
	}
}
