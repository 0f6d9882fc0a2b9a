package moderation_test

import (
	"context"
	"sync"
	"testing"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/moderation"
	"github.com/reelcircle/reelcircle/internal/app/ratings"
	"github.com/reelcircle/reelcircle/internal/app/store/audit"
	"github.com/reelcircle/reelcircle/internal/app/system/auditlog"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"github.com/reelcircle/reelcircle/internal/testutil"
	"go.uber.org/zap"
)

type memSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *memSink) Log(_ context.Context, e audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *memSink) count(eventType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}

type env struct {
	mem      *testutil.Memory
	ratings  *ratings.Service
	registry *content.Registry
	engine   *moderation.Engine
	sink     *memSink

	mod    models.User
	admin  models.User
	viewer models.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mem := testutil.NewMemory()
	svc := ratings.New(mem.Reviews(), mem.Movies(), mem.Users(), zap.NewNop())
	reg := content.New(svc, mem.Source(content.KindComment), mem.Source(content.KindGroupPost), mem.Source(content.KindNewsPost))
	e := &env{
		mem:      mem,
		ratings:  svc,
		registry: reg,
		sink:     &memSink{},
		mod:      mem.AddUser("mod", models.RoleModerator),
		admin:    mem.AddUser("admin", models.RoleAdmin),
		viewer:   mem.AddUser("viewer", models.RoleViewer),
	}
	e.engine = e.engineWith(reg)
	return e
}

// engineWith builds an engine over the env's stores with c as its content
// backend.
func (e *env) engineWith(c moderation.Content) *moderation.Engine {
	return moderation.New(moderation.Deps{
		Users:     e.mem.Users(),
		Reports:   e.mem.Reports(),
		Warnings:  e.mem.Warnings(),
		Groups:    e.mem.Groups(),
		Newsrooms: e.mem.Newsrooms(),
		Content:   c,
	}, auditlog.New(e.sink, zap.NewNop(), auditlog.Config{}), zap.NewNop())
}

// brokenDeletes fails every Delete with err and passes everything else
// through.
type brokenDeletes struct {
	moderation.Content
	err error
}

func (b brokenDeletes) Delete(context.Context, content.Ref) error { return b.err }

func f(v float64) *float64 { return &v }
