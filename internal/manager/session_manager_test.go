package manager_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NuZard84/go-speedtype/internal/manager"
	"github.com/NuZard84/go-speedtype/internal/models"
	"go.uber.org/zap"
)

type staticProvider struct{ text string }

func (p staticProvider) Acquire(ctx context.Context) models.TextResult {
	return models.TextResult{Text: p.text, Source: "static"}
}

func newManager(max int, ttl time.Duration) *manager.SessionManager {
	p := staticProvider{text: "Practice makes perfect, so keep typing until the timer runs out today."}
	return manager.NewSessionManager(p, max, ttl, time.Hour, zap.NewNop().Sugar())
}

func TestSessionManager_CreateAndGet(t *testing.T) {
	m := newManager(10, time.Hour)
	defer m.Shutdown()

	ctrl, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ctrl.ID, "session_0x") {
		t.Fatalf("unexpected session id %q", ctrl.ID)
	}

	got, err := m.Get(ctrl.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ctrl {
		t.Fatalf("Get returned a different controller")
	}
	if got.Snapshot().ReferenceText == "" {
		t.Fatalf("expected session text to be loaded")
	}
}

func TestSessionManager_Capacity(t *testing.T) {
	m := newManager(2, time.Hour)
	defer m.Shutdown()

	for i := 0; i < 2; i++ {
		if _, err := m.Create(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := m.Create(context.Background()); !errors.Is(err, manager.ErrTooManySessions) {
		t.Fatalf("err = %v, want ErrTooManySessions", err)
	}
}

func TestSessionManager_Remove(t *testing.T) {
	m := newManager(10, time.Hour)
	defer m.Shutdown()

	ctrl, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Remove(ctrl.ID); err != nil {
		t.Fatalf("unexpected error removing session: %v", err)
	}
	if _, err := m.Get(ctrl.ID); !errors.Is(err, manager.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
	if err := m.Remove(ctrl.ID); !errors.Is(err, manager.ErrSessionNotFound) {
		t.Fatalf("expected error when removing missing session")
	}
	if m.Count() != 0 {
		t.Fatalf("count = %d, want 0", m.Count())
	}
}

func TestSessionManager_CleanupIdle(t *testing.T) {
	m := newManager(10, time.Minute)
	defer m.Shutdown()

	ctrl, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := m.CleanupIdle(time.Now()); n != 0 {
		t.Fatalf("removed %d fresh sessions", n)
	}
	if n := m.CleanupIdle(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("removed %d sessions, want 1", n)
	}
	if _, err := m.Get(ctrl.ID); !errors.Is(err, manager.ErrSessionNotFound) {
		t.Fatalf("stale session still registered")
	}
}
