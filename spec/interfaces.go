package spec

import "context"

// Runtime is the interface that tools bind to.
// Implementations (like package agentgate Runtime) own session state.
type Runtime interface {
	LoadSkill(ctx context.Context, sessionID SessionID, args LoadSkillArgs) (LoadSkillResult, error)
	Research(ctx context.Context, sessionID SessionID, args ResearchArgs) (ResearchResult, error)
}

// Catalog lists skill descriptors. Implementations re-read their backing
// store on every call so out-of-band edits take effect without restart.
type Catalog interface {
	ListSkills(ctx context.Context) ([]SkillDescriptor, error)
}

// Searcher is the metasearch boundary: query in, candidate URLs out,
// deduplicated and capped by the implementation. Failures are batch-fatal
// for a research call and should wrap ErrSearchUnavailable.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// Embedder maps texts to fixed-dimension vectors. Used identically for
// corpus chunks and queries. Failures should wrap ErrEmbeddingUnavailable.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// BrowserEngine is one shared rendering engine per research batch. Each
// Open yields an isolated tab; the engine handle must be stopped exactly
// once after all fetches settle.
type BrowserEngine interface {
	Start(ctx context.Context) error
	Open(ctx context.Context, url string) (BrowserTab, error)
	Stop() error
}

type BrowserTab interface {
	// HTML returns the rendered document markup.
	HTML(ctx context.Context) (string, error)
	Close() error
}

// LanguageClassifier returns a BCP-47-ish language code ("en", "zh-cn")
// for the given text.
type LanguageClassifier interface {
	Classify(text string) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}
