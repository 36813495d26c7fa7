package content_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/NuZard84/go-speedtype/internal/config"
	"github.com/NuZard84/go-speedtype/internal/constants"
	"github.com/NuZard84/go-speedtype/internal/content"
	"go.uber.org/zap"
)

const longQuote = "Simplicity is prerequisite for reliability, and it is the one thing we keep forgetting."

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type stubSource struct {
	name  string
	text  string
	err   error
	calls int
	mu    sync.Mutex
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.text, s.err
}

func TestAcquire_FirstQualifyingSourceWins(t *testing.T) {
	first := &stubSource{name: "first", err: errors.New("boom")}
	second := &stubSource{name: "second", text: longQuote}
	third := &stubSource{name: "third", text: longQuote + " third"}

	p := content.NewProvider(zap.NewNop().Sugar(), 0, first, second, third)
	res := p.Acquire(context.Background())

	if res.Offline {
		t.Fatalf("expected online result")
	}
	if res.Source != "second" || res.Text != longQuote {
		t.Fatalf("got source=%q text=%q", res.Source, res.Text)
	}
	if third.calls != 0 {
		t.Fatalf("third source called %d times, want 0", third.calls)
	}
}

func TestAcquire_RejectsShortContent(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"empty", "", false},
		{"exactly fifty", strings.Repeat("a", 50), false},
		{"fifty one", strings.Repeat("a", 51), true},
		{"fifty multibyte", strings.Repeat("é", 50), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubSource{name: "only", text: tt.text}
			p := content.NewProvider(zap.NewNop().Sugar(), 0, src)

			res := p.Acquire(context.Background())
			if res.Offline == tt.ok {
				t.Fatalf("Offline = %v for %d-byte text", res.Offline, len(tt.text))
			}
		})
	}
}

func TestAcquire_AllSourcesFailUsesFallback(t *testing.T) {
	down := jsonServer(t, http.StatusInternalServerError, `{"error":"down"}`)
	short := jsonServer(t, http.StatusOK, `{"quote":"too short"}`)
	garbage := jsonServer(t, http.StatusOK, `not json`)

	cfg := config.ContentConfig{
		QuotableURL:  down.URL,
		DummyJSONURL: short.URL,
		NinjasURL:    garbage.URL,
		NinjasAPIKey: "demo",
	}
	p := content.NewProvider(zap.NewNop().Sugar(), 0, content.DefaultSources(cfg, nil)...)

	pool := content.FallbackParagraphs()
	if len(pool) != 5 {
		t.Fatalf("fallback pool has %d paragraphs, want 5", len(pool))
	}

	for i := 0; i < 10; i++ {
		res := p.Acquire(context.Background())
		if !res.Offline {
			t.Fatalf("expected offline result")
		}
		if res.Notice != constants.OfflineNotice {
			t.Fatalf("Notice = %q, want %q", res.Notice, constants.OfflineNotice)
		}
		found := false
		for _, para := range pool {
			if para == res.Text {
				found = true
			}
		}
		if !found {
			t.Fatalf("text %q is not a fallback paragraph", res.Text)
		}
	}
}

func TestAcquire_FallbackUsesPicker(t *testing.T) {
	p := content.NewProvider(zap.NewNop().Sugar(), 0)
	p.SetPicker(func(n int) int {
		if n != 5 {
			t.Fatalf("picker called with n=%d, want 5", n)
		}
		return 3
	})

	res := p.Acquire(context.Background())
	if res.Text != content.FallbackParagraphs()[3] {
		t.Fatalf("got %q, want paragraph 3", res.Text)
	}
	if res.Source != content.SourceOffline {
		t.Fatalf("Source = %q, want %q", res.Source, content.SourceOffline)
	}
}

func TestAcquire_CancelledContextSkipsSources(t *testing.T) {
	src := &stubSource{name: "never", text: longQuote}
	p := content.NewProvider(zap.NewNop().Sugar(), 0, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := p.Acquire(ctx)
	if !res.Offline {
		t.Fatalf("expected offline result for cancelled context")
	}
	if src.calls != 0 {
		t.Fatalf("source called %d times, want 0", src.calls)
	}
}

func TestDefaultSources_Extraction(t *testing.T) {
	tests := []struct {
		name  string
		index int
		body  string
	}{
		{"quotable content", 0, `{"_id":"x","content":"` + longQuote + `","author":"Dijkstra"}`},
		{"dummyjson quote", 1, `{"id":1,"quote":"` + longQuote + `","author":"Dijkstra"}`},
		{"ninjas array", 2, `[{"quote":"` + longQuote + `","author":"Dijkstra"}]`},
		{"ninjas single", 2, `{"quote":"` + longQuote + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, tt.body)
			cfg := config.ContentConfig{QuotableURL: srv.URL, DummyJSONURL: srv.URL, NinjasURL: srv.URL}

			src := content.DefaultSources(cfg, srv.Client())[tt.index]
			text, err := src.Fetch(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != longQuote {
				t.Fatalf("got %q, want %q", text, longQuote)
			}
		})
	}
}

func TestHTTPSource_SendsHeaders(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(`[{"quote":"` + longQuote + `"}]`))
	}))
	defer srv.Close()

	cfg := config.ContentConfig{NinjasURL: srv.URL, NinjasAPIKey: "demo"}
	src := content.DefaultSources(cfg, srv.Client())[2]
	if _, err := src.Fetch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "demo" {
		t.Fatalf("X-Api-Key = %q, want demo", gotKey)
	}
}

func TestHTTPSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusBadGateway, `{}`, content.ErrUnexpectedStatus},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid API Key."}`, content.ErrUnexpectedStatus},
		{"invalid json", http.StatusOK, `<html>`, content.ErrInvalidBody},
		{"missing field", http.StatusOK, `{"text":"wrong field"}`, content.ErrNoText},
		{"non string field", http.StatusOK, `{"quote":42}`, content.ErrNoText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jsonServer(t, tt.status, tt.body)
			src := content.NewHTTPSource("test", srv.URL, nil, srv.Client(), "quote")

			_, err := src.Fetch(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
