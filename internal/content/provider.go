package content

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/NuZard84/go-speedtype/internal/constants"
	"github.com/NuZard84/go-speedtype/internal/models"
	"go.uber.org/zap"
)

// SourceOffline names the local pool in results.
const SourceOffline = "offline"

var fallbackParagraphs = [...]string{
	"The quick brown fox jumps over the lazy dog. This pangram contains every letter of the alphabet and is commonly used for typing practice. It provides a good mix of common and uncommon letter combinations.",
	"Technology has revolutionized the way we communicate, work, and live our daily lives. From smartphones to artificial intelligence, innovation continues to shape our future in ways we never imagined possible.",
	"Reading books expands our knowledge, improves vocabulary, and enhances critical thinking skills. Literature allows us to explore different worlds, cultures, and perspectives from the comfort of our own homes.",
	"Climate change represents one of the most significant challenges facing our planet today. Scientists worldwide are working together to develop sustainable solutions for a greener and more environmentally conscious future.",
	"The art of cooking combines creativity, science, and tradition to create delicious meals that bring people together. Every recipe tells a story and connects us to different cultures around the world.",
}

// FallbackParagraphs returns a copy of the local pool used when every source fails.
func FallbackParagraphs() []string {
	out := make([]string, len(fallbackParagraphs))
	copy(out, fallbackParagraphs[:])
	return out
}

// Provider tries its sources in order and falls back to the local pool.
type Provider struct {
	sources []Source
	timeout time.Duration
	pick    func(n int) int
	logger  *zap.SugaredLogger
}

func NewProvider(logger *zap.SugaredLogger, timeout time.Duration, sources ...Source) *Provider {
	return &Provider{
		sources: sources,
		timeout: timeout,
		pick:    rand.IntN,
		logger:  logger,
	}
}

// SetPicker replaces the random index function used for the fallback pool.
func (p *Provider) SetPicker(pick func(n int) int) {
	p.pick = pick
}

func (p *Provider) Sources() []Source {
	return p.sources
}

// Acquire returns the first qualifying text. It never fails: when no source
// qualifies the result comes from the local pool with Offline set.
func (p *Provider) Acquire(ctx context.Context) models.TextResult {
	for _, src := range p.sources {
		if ctx.Err() != nil {
			p.logger.Warnw("Content acquisition cancelled", "error", ctx.Err())
			break
		}

		text, err := p.attempt(ctx, src)
		if err != nil {
			p.logger.Warnw("Content source failed", "source", src.Name(), "error", err)
			continue
		}

		p.logger.Debugw("Content acquired", "source", src.Name(), "length", utf8.RuneCountInString(text))
		return models.TextResult{Text: text, Source: src.Name()}
	}

	idx := p.pick(len(fallbackParagraphs))
	p.logger.Infow("All content sources failed, using offline content", "index", idx)
	return models.TextResult{
		Text:    fallbackParagraphs[idx],
		Source:  SourceOffline,
		Offline: true,
		Notice:  constants.OfflineNotice,
	}
}

func (p *Provider) attempt(ctx context.Context, src Source) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	text, err := src.Fetch(ctx)
	if err != nil {
		return "", err
	}
	if n := utf8.RuneCountInString(text); n <= constants.MinContentLength {
		return "", fmt.Errorf("%w: %d characters", ErrTooShort, n)
	}
	return text, nil
}
