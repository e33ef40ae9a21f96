// Package webfetch turns a URL into a plain-text SearchResult via a
// shared browser engine. Pages are adversarial and unreliable, so the
// unit of failure isolation is the single page: every failure collapses
// to the sentinel result and never surfaces as an error.
package webfetch

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	readability "github.com/go-shiori/go-readability"

	"github.com/flexigpt/agentgate-go/spec"
)

const (
	// DefaultSettleDelay is how long a page is left to render dynamic
	// content after navigation. A readiness predicate would be better
	// than a constant; the delay is at least bounded by PerPageTimeout.
	DefaultSettleDelay = 10 * time.Second

	// DefaultPerPageTimeout bounds one fetch end to end so a hanging
	// page cannot stall its worker forever.
	DefaultPerPageTimeout = 45 * time.Second
)

type Fetcher struct {
	engine spec.BrowserEngine
	logger *slog.Logger

	settleDelay    time.Duration
	perPageTimeout time.Duration
}

func New(engine spec.BrowserEngine, logger *slog.Logger, settleDelay, perPageTimeout time.Duration) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	if perPageTimeout <= 0 {
		perPageTimeout = DefaultPerPageTimeout
	}
	return &Fetcher{
		engine:         engine,
		logger:         logger,
		settleDelay:    settleDelay,
		perPageTimeout: perPageTimeout,
	}
}

// Fetch opens the URL in an isolated tab, waits for the settle delay,
// extracts the main article and converts it to plain markdown text. The
// tab is torn down before returning on every path; the engine itself is
// owned by the caller.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) spec.SearchResult {
	ctx, cancel := context.WithTimeout(ctx, f.perPageTimeout)
	defer cancel()

	res, err := f.fetch(ctx, pageURL)
	if err != nil {
		f.logger.Debug("page fetch failed", "url", pageURL, "error", err)
		return spec.SearchResult{Title: spec.SentinelTitle, URL: pageURL, Text: spec.SentinelContent}
	}
	f.logger.Info("fetched page", "title", res.Title, "url", pageURL, "chars", len(res.Text))
	return res
}

func (f *Fetcher) fetch(ctx context.Context, pageURL string) (spec.SearchResult, error) {
	tab, err := f.engine.Open(ctx, pageURL)
	if err != nil {
		return spec.SearchResult{}, err
	}
	defer tab.Close()

	select {
	case <-time.After(f.settleDelay):
	case <-ctx.Done():
		return spec.SearchResult{}, ctx.Err()
	}

	html, err := tab.HTML(ctx)
	if err != nil {
		return spec.SearchResult{}, err
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return spec.SearchResult{}, err
	}
	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return spec.SearchResult{}, err
	}

	text, err := htmltomarkdown.ConvertString(article.Content)
	if err != nil {
		return spec.SearchResult{}, err
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		return spec.SearchResult{}, errNoTitle
	}
	return spec.SearchResult{Title: title, URL: pageURL, Text: text}, nil
}
