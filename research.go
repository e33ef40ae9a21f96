package agentgate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/flexigpt/agentgate-go/spec"

	"github.com/flexigpt/agentgate-go/internal/mdsplit"
	"github.com/flexigpt/agentgate-go/internal/vectorstore"
	"github.com/flexigpt/agentgate-go/internal/webfetch"
)

const (
	defaultFetchConcurrency = 5

	// Pages shorter than this after extraction are boilerplate, consent
	// walls or bot checks, not content.
	minPageChars = 500

	researchTopK   = 10
	researchLambda = 0.25
)

// Research implements web.research: plan a URL batch, fetch all pages
// through a shared browser engine, and return the MMR-ranked chunks of
// the joined corpus.
//
// Failure has two tiers. A single bad page degrades the corpus and is
// absorbed; a planner, engine or embedding failure is batch-fatal and
// returned as an error for the tool boundary to collapse into a string.
func (r *Runtime) Research(
	ctx context.Context,
	sessionID spec.SessionID,
	args spec.ResearchArgs,
) (spec.ResearchResult, error) {
	if err := ctx.Err(); err != nil {
		return spec.ResearchResult{}, err
	}

	query := strings.TrimSpace(args.Query)
	if query == "" {
		return spec.ResearchResult{}, fmt.Errorf("%w: empty query", spec.ErrInvalidArgument)
	}

	sess, err := r.mustGetSession(sessionID)
	if err != nil {
		return spec.ResearchResult{}, err
	}
	if !sess.Gate.Allows(spec.ResearchToolSlug) {
		return spec.ResearchResult{}, spec.ErrToolNotAllowed
	}
	if r.searcher == nil || r.newEngine == nil || r.embedder == nil {
		return spec.ResearchResult{}, fmt.Errorf("%w: research backends not set", spec.ErrNotConfigured)
	}

	chunks, err := r.runResearch(ctx, query)
	if err != nil {
		return spec.ResearchResult{}, err
	}
	return spec.ResearchResult{Chunks: chunks}, nil
}

func (r *Runtime) runResearch(ctx context.Context, query string) ([]string, error) {
	urls, err := r.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		r.logger.Info("research found no result urls", "query", query)
		return []string{}, nil
	}

	results, err := r.fetchAll(ctx, urls)
	if err != nil {
		return nil, err
	}

	corpus := buildCorpus(results)
	if corpus == "" {
		r.logger.Info("research corpus empty after filtering", "query", query, "urls", len(urls))
		return []string{}, nil
	}

	chunks := mdsplit.Split(corpus)
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}

	// One embedding call covers the chunks plus the query as the final
	// element.
	vecs, err := r.embedder.Embed(ctx, append(append([]string{}, texts...), query))
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts)+1 {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs",
			spec.ErrEmbeddingUnavailable, len(vecs), len(texts)+1)
	}
	queryVec := vecs[len(vecs)-1]

	ix := vectorstore.New()
	for i, c := range chunks {
		if err := ix.Add(c, vecs[i]); err != nil {
			return nil, err
		}
	}

	selected := ix.MMR(queryVec, researchTopK, researchLambda)
	out := make([]string, 0, len(selected))
	for _, c := range selected {
		out = append(out, c.Text)
	}
	r.logger.Info("research complete",
		"query", query, "urls", len(urls), "chunks", len(chunks), "selected", len(out))
	return out, nil
}

// fetchAll fans the URL batch out over a bounded worker group sharing one
// browser engine. The engine is stopped exactly once on every path out.
// Workers never return errors; a failed page is the sentinel result and
// must not cancel its siblings.
func (r *Runtime) fetchAll(ctx context.Context, urls []string) ([]spec.SearchResult, error) {
	engine, err := r.newEngine()
	if err != nil {
		return nil, err
	}
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			if err := engine.Stop(); err != nil {
				r.logger.Warn("browser engine stop failed", "error", err)
			}
		})
	}
	defer stop()

	if err := engine.Start(ctx); err != nil {
		return nil, err
	}

	fetcher := webfetch.New(engine, r.logger, r.settleDelay, r.perPageTimeout)
	results := make([]spec.SearchResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.fetchConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = fetcher.Fetch(gctx, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stop()
	return results, nil
}

// buildCorpus joins usable pages into one markdown document, page title
// as a level-1 heading above the page text.
func buildCorpus(results []spec.SearchResult) string {
	var b strings.Builder
	for _, res := range results {
		if res.Failed() || res.Text == spec.SentinelContent {
			continue
		}
		if len(res.Text) < minPageChars {
			continue
		}
		fmt.Fprintf(&b, "# %s\n\n%s\n\n", res.Title, res.Text)
	}
	return b.String()
}
