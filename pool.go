package mdstudio

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one browser is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// DefaultTimeout bounds a single page load when the caller sets no deadline.
const DefaultTimeout = 30 * time.Second

// Compile-time interface checks.
var (
	_ PDFComposer = (*RendererPool)(nil)
	_ Rasterizer  = (*RendererPool)(nil)
	_ Dependency  = (*RendererPool)(nil)
)

// RendererPool manages a pool of browsers so that exports of different
// formats run in parallel. Each browser serves one call at a time.
// Browsers are created lazily on first acquire to avoid startup delay.
type RendererPool struct {
	size      int
	newFn     func() pageRenderer
	renderers []pageRenderer
	sem       chan pageRenderer
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewRendererPool creates a pool with capacity for n headless Chrome
// browsers whose page loads are bounded by timeout.
func NewRendererPool(n int, timeout time.Duration) *RendererPool {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return newRendererPool(n, func() pageRenderer { return newChromeRenderer(timeout) })
}

// newRendererPool creates a pool whose browsers come from newFn.
func newRendererPool(n int, newFn func() pageRenderer) *RendererPool {
	if n < 1 {
		n = 1
	}

	return &RendererPool{
		size:      n,
		newFn:     newFn,
		renderers: make([]pageRenderer, 0, n),
		sem:       make(chan pageRenderer, n),
	}
}

// PDF composes page on a pooled browser.
func (p *RendererPool) PDF(ctx context.Context, page string, opts PDFOptions) ([]byte, error) {
	r, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(r)

	return r.PDF(ctx, page, opts)
}

// PNG rasterizes page on a pooled browser.
func (p *RendererPool) PNG(ctx context.Context, page string, opts RasterOptions) ([]byte, error) {
	r, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(r)

	return r.PNG(ctx, page, opts)
}

// Name implements Dependency.
func (p *RendererPool) Name() string {
	return "Chrome/Chromium"
}

// Check implements Dependency: the browser binary must be installed.
func (p *RendererPool) Check(context.Context) error {
	_, err := LookupBrowser()
	return err
}

// acquire gets a browser from the pool, creating one if needed.
// Blocks until one is released or ctx is done.
func (p *RendererPool) acquire(ctx context.Context) (pageRenderer, error) {
	// Try to get an idle browser (non-blocking)
	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		r := p.newFn()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	// All browsers created, wait for one to be released
	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns a browser to the pool. The channel holds every browser
// ever created, so the send never blocks.
func (p *RendererPool) release(r pageRenderer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.sem <- r
}

// Close releases all browser resources.
// Returns an aggregated error if multiple browsers fail to close.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	// Drain idle browsers so acquire sees the closed channel.
	for range p.sem {
	}
	renderers := p.renderers
	p.mu.Unlock()

	var errs []error
	for _, r := range renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
