package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/NuZard84/go-speedtype/internal/config"
	"github.com/tidwall/gjson"
)

const maxBodySize = 1 << 20

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvalidBody      = errors.New("response body is not valid json")
	ErrNoText           = errors.New("no text in response")
	ErrTooShort         = errors.New("text too short")
)

// Source is one place practice text can come from.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (string, error)
}

// HTTPSource fetches a JSON document and extracts the first gjson path that yields a string.
type HTTPSource struct {
	name     string
	Endpoint string
	Headers  map[string]string
	Paths    []string
	client   *http.Client
}

func NewHTTPSource(name, endpoint string, headers map[string]string, client *http.Client, paths ...string) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		name:     name,
		Endpoint: endpoint,
		Headers:  headers,
		Paths:    paths,
		client:   client,
	}
}

func (s *HTTPSource) Name() string { return s.name }

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status=%d, body=%s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", ErrInvalidBody
	}

	text := s.Extract(body)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Extract returns the first string found at one of the source's paths.
func (s *HTTPSource) Extract(body []byte) string {
	for _, path := range s.Paths {
		r := gjson.GetBytes(body, path)
		if r.Exists() && r.Type == gjson.String {
			return r.String()
		}
	}
	return ""
}

// DefaultSources returns the remote quote services in priority order.
func DefaultSources(cfg config.ContentConfig, client *http.Client) []Source {
	return []Source{
		NewHTTPSource("quotable", cfg.QuotableURL, nil, client, "content"),
		NewHTTPSource("dummyjson", cfg.DummyJSONURL, nil, client, "quote"),
		NewHTTPSource("api-ninjas", cfg.NinjasURL, map[string]string{"X-Api-Key": cfg.NinjasAPIKey}, client, "0.quote", "quote"),
	}
}
