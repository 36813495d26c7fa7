package terminal_test

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/NuZard84/go-speedtype/internal/constants"
	"github.com/NuZard84/go-speedtype/internal/game"
	"github.com/NuZard84/go-speedtype/internal/models"
	"github.com/NuZard84/go-speedtype/internal/terminal"
	"go.uber.org/zap"
)

const reference = "hello world, this is a short practice paragraph for the terminal test."

type staticProvider struct{ res models.TextResult }

func (p staticProvider) Acquire(ctx context.Context) models.TextResult { return p.res }

func TestPlay_EndOfInput(t *testing.T) {
	ctrl := game.NewController("terminal", staticProvider{models.TextResult{Text: reference}}, time.Hour, zap.NewNop().Sugar())
	defer ctrl.Close()

	var out bytes.Buffer
	snap, err := terminal.Play(context.Background(), ctrl, strings.NewReader("hello\nworld,\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.UserText != "hello world," {
		t.Fatalf("user text = %q, want %q", snap.UserText, "hello world,")
	}
	if snap.Accuracy != 100 {
		t.Fatalf("accuracy = %d, want 100", snap.Accuracy)
	}
	if !strings.Contains(out.String(), reference) {
		t.Fatalf("reference not printed:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Test Complete!") {
		t.Fatalf("summary not printed:\n%s", out.String())
	}
}

func TestPlay_Expires(t *testing.T) {
	ctrl := game.NewController("terminal", staticProvider{models.TextResult{Text: reference}}, time.Millisecond, zap.NewNop().Sugar())
	defer ctrl.Close()

	in, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	snap, err := terminal.Play(context.Background(), ctrl, in, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != constants.StatusExpired {
		t.Fatalf("status = %s, want expired", snap.Status)
	}
}

func TestPlay_OfflineNotice(t *testing.T) {
	res := models.TextResult{Text: reference, Offline: true, Notice: constants.OfflineNotice}
	ctrl := game.NewController("terminal", staticProvider{res}, time.Hour, zap.NewNop().Sugar())
	defer ctrl.Close()

	var out bytes.Buffer
	if _, err := terminal.Play(context.Background(), ctrl, strings.NewReader(""), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), constants.OfflineNotice) {
		t.Fatalf("offline notice not printed:\n%s", out.String())
	}
}

func TestPlay_ReaderStopsAfterReturn(t *testing.T) {
	ctrl := game.NewController("terminal", staticProvider{models.TextResult{Text: reference}}, time.Millisecond, zap.NewNop().Sugar())
	defer ctrl.Close()

	in, w := io.Pipe()
	defer w.Close()

	before := runtime.NumGoroutine()
	if _, err := terminal.Play(context.Background(), ctrl, in, io.Discard); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a line typed after the test ended must not strand the reader
	if _, err := w.Write([]byte("too late\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("input reader still running: %d goroutines, started with %d", runtime.NumGoroutine(), before)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
