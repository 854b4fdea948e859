package chains

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/quantumauth-io/quantum-go-utils/retry"
)

type cachedHeader struct {
	header   *types.Header
	received time.Time
}

// CachedBackend answers latest-header queries from memory. A background loop
// refreshes the header every interval until the backend is closed or the
// parent context ends.
type CachedBackend struct {
	Backend

	latest    atomic.Pointer[cachedHeader]
	refreshes atomic.Uint64

	cancel context.CancelFunc
	done   sync.WaitGroup
}

// NewCachedBackend fetches the first header synchronously so the cache is
// never empty.
func NewCachedBackend(ctx context.Context, backend Backend, intervalMilliseconds int) (*CachedBackend, error) {
	if intervalMilliseconds <= 0 {
		return nil, errors.Newf("header refresh interval must be positive, got %dms", intervalMilliseconds)
	}
	b := &CachedBackend{Backend: backend}
	if err := b.refresh(ctx); err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done.Add(1)
	go b.refreshLoop(loopCtx, time.Duration(intervalMilliseconds)*time.Millisecond)
	return b, nil
}

func (b *CachedBackend) refreshLoop(ctx context.Context, interval time.Duration) {
	defer b.done.Done()

	cfg := retry.DefaultConfig()
	cfg.MaxDelayBeforeRetrying = interval
	cfg.InitialDelayBeforeRetrying = interval / 10

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("header cache stopped", "refreshes", b.refreshes.Load())
			return
		case <-ticker.C:
			_, _ = retry.Retry(ctx, cfg,
				func(ctx context.Context) ([]interface{}, error) {
					return nil, b.refresh(ctx)
				},
				nil,
				"refresh latest header")
		}
	}
}

func (b *CachedBackend) refresh(ctx context.Context) error {
	header, err := b.Backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "latest header")
	}
	if header == nil {
		return errors.New("latest header: node returned none")
	}
	b.refreshes.Add(1)
	b.latest.Store(&cachedHeader{header: header, received: time.Now()})
	return nil
}

// HeaderByNumber serves nil (latest) from the cache and forwards anything else.
func (b *CachedBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if number != nil {
		return b.Backend.HeaderByNumber(ctx, number)
	}
	return b.latest.Load().header, nil
}

// LatestHeaderAge reports how long ago the cached header was fetched.
func (b *CachedBackend) LatestHeaderAge() time.Duration {
	return time.Since(b.latest.Load().received)
}

// Refreshes counts successful header fetches, the initial one included.
func (b *CachedBackend) Refreshes() uint64 { return b.refreshes.Load() }

// Close stops the refresh loop, waits for it, then closes the wrapped backend.
func (b *CachedBackend) Close() {
	b.cancel()
	b.done.Wait()
	safeClose(b.Backend)
}
