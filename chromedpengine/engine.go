// Package chromedpengine runs a shared headless Chrome instance and hands
// out isolated tabs for page fetching. One engine serves a whole research
// call; tabs are cheap, the browser process is not.
package chromedpengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/flexigpt/agentgate-go/spec"
)

type Engine struct {
	logger *slog.Logger

	mu          sync.Mutex
	allocCancel context.CancelFunc
	browserCtx  context.Context
	ctxCancel   context.CancelFunc
	started     bool
	stopped     bool
}

type Option func(*Engine) error

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		e.logger = logger
		return nil
	}
}

func New(opts ...Option) (*Engine, error) {
	e := &Engine{logger: slog.Default()}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Start launches the browser process. Images and the built-in translate
// prompt are disabled: fetched pages are read, never shown.
func (e *Engine) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return errors.New("browser engine already started")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("disable-features", "Translate,TranslateUI"),
		chromedp.Flag("mute-audio", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	// Force the browser process up now so Start reports launch failures
	// instead of deferring them to the first Open.
	if err := chromedp.Run(browserCtx); err != nil {
		ctxCancel()
		allocCancel()
		return fmt.Errorf("launch browser: %w", err)
	}

	e.allocCancel = allocCancel
	e.browserCtx = browserCtx
	e.ctxCancel = ctxCancel
	e.started = true
	e.logger.Debug("browser engine started")
	return nil
}

// Open navigates a fresh tab to the URL. Tab contexts descend from the
// browser context, not the caller's, so the caller's cancellation and
// deadline are linked onto the tab explicitly; a stuck navigation cannot
// outlive the fetch.
func (e *Engine) Open(ctx context.Context, url string) (spec.BrowserTab, error) {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return nil, errors.New("browser engine not running")
	}
	browserCtx := e.browserCtx
	e.mu.Unlock()

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	cancel := linkCancel(ctx, tabCancel)

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		cancel()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	return &tab{ctx: tabCtx, cancel: cancel}, nil
}

// linkCancel ties a cancel function to a caller context: when ctx is done,
// whether by deadline or explicit cancellation, cancel fires. The returned
// function releases the link and cancels the target; safe to call more
// than once.
func linkCancel(ctx context.Context, cancel context.CancelFunc) context.CancelFunc {
	stop := context.AfterFunc(ctx, cancel)
	return func() {
		stop()
		cancel()
	}
}

// Stop tears down every tab and the browser process. Safe to call more
// than once.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started || e.stopped {
		return nil
	}
	e.stopped = true
	e.ctxCancel()
	e.allocCancel()
	e.logger.Debug("browser engine stopped")
	return nil
}

type tab struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func (t *tab) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var html string
	if err := chromedp.Run(t.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

func (t *tab) Close() error {
	t.once.Do(t.cancel)
	return nil
}
