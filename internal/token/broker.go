// Package token acquires and caches OAuth access tokens for token-gated
// providers. Candidate sources are tried in strict priority order; the first
// success is cached until shortly before its real expiry.
package token

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"academy-catalog/internal/domain"
)

// SafetyMargin is subtracted from the real expiry so a token is refreshed
// before edge-of-expiry failures can happen.
const SafetyMargin = 5 * time.Minute

// Source is one candidate way of obtaining an access token. Fetch errors are
// never fatal: the broker logs them and moves to the next source.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (domain.AccessToken, error)
}

type Broker struct {
	sources []Source
	log     *zap.Logger

	mu     sync.Mutex
	cached domain.AccessToken
	hasTok bool

	now func() time.Time
}

// NewBroker builds a broker over sources in priority order. A nil logger
// disables logging.
func NewBroker(sources []Source, log *zap.Logger) *Broker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broker{
		sources: sources,
		log:     log,
		now:     time.Now,
	}
}

// Token returns a valid access token, refreshing through the source chain
// when the cache is empty or inside the safety margin. It never returns an
// error: when every source fails the second return value is false and
// callers degrade to unauthenticated behavior.
//
// Two goroutines hitting an expired cache may both refresh; both produce
// valid equivalent tokens and the last write wins, so the race is tolerated
// rather than serialized.
func (b *Broker) Token(ctx context.Context) (domain.AccessToken, bool) {
	b.mu.Lock()
	if b.hasTok && b.now().Add(SafetyMargin).Before(b.cached.Expiry) {
		tok := b.cached
		b.mu.Unlock()
		return tok, true
	}
	b.mu.Unlock()

	for _, src := range b.sources {
		tok, err := src.Fetch(ctx)
		if err != nil {
			b.log.Warn("token source unavailable",
				zap.String("source", src.Name()),
				zap.Error(err))
			continue
		}
		if tok.Value == "" {
			b.log.Warn("token source returned empty token",
				zap.String("source", src.Name()))
			continue
		}

		b.mu.Lock()
		b.cached = tok
		b.hasTok = true
		b.mu.Unlock()

		b.log.Info("access token acquired",
			zap.String("source", src.Name()),
			zap.Time("expiry", tok.Expiry))
		return tok, true
	}

	return domain.AccessToken{}, false
}

// Invalidate clears the cached token; used on explicit logout.
func (b *Broker) Invalidate() {
	b.mu.Lock()
	b.cached = domain.AccessToken{}
	b.hasTok = false
	b.mu.Unlock()
}
