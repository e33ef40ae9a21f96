package spec

// SessionID identifies a gate runtime session (UUIDv7 string).
type SessionID string

// LoaderToolSlug is the reserved slug of the skill loader tool. It is
// always visible to the model regardless of gate state.
const LoaderToolSlug = "skills.load"

// ResearchToolSlug is the slug of the web research tool. It becomes
// visible only after a skill declaring it has been loaded.
const ResearchToolSlug = "web.research"

// SkillDescriptor is one entry of the skill catalog as parsed from a
// SKILL.md file. It is immutable once returned from a catalog scan.
type SkillDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Content is the markdown body of SKILL.md after frontmatter (the
	// natural-language instructions returned on load).
	Content string `json:"content"`

	// Tools are the tool slugs this skill grants when loaded.
	Tools []string `json:"tools,omitempty"`

	// Location is the absolute path to the SKILL.md file.
	Location string `json:"location,omitempty"`

	// Digest is "sha256:<hex>" over the SKILL.md bytes.
	Digest string `json:"digest,omitempty"`
}

// GateSnapshot is an immutable view of a session's gate state.
type GateSnapshot struct {
	// LoadedSkills lists skills in load order. A skill loaded twice
	// appears once, at its first position.
	LoadedSkills []SkillDescriptor `json:"loaded_skills,omitempty"`

	// AllowedTools are the currently callable tool slugs, sorted.
	// The loader tool is implicitly visible and not listed here.
	AllowedTools []string `json:"allowed_tools,omitempty"`

	// LastUpdateStep is the step of the most recent grant, -1 before
	// the first load.
	LastUpdateStep int `json:"last_update_step"`
}

// LoadSkillArgs are the runtime-level arguments of a skill load. Step is
// supplied by the orchestration runtime (running message count or an
// explicit batch ID), not by the model.
type LoadSkillArgs struct {
	Name string `json:"name"`
	Step int    `json:"step"`
}

// LoadSkillResult is the tool message produced by a skill load. A miss is
// NOT an error: the model cannot handle raised faults, so an unknown name
// yields Loaded=false plus the catalog listing.
type LoadSkillResult struct {
	Loaded bool `json:"loaded"`

	// Content is the full skill body on a hit.
	Content string `json:"content,omitempty"`

	// AvailableSkills lists all catalog names on a miss.
	AvailableSkills []string `json:"available_skills,omitempty"`

	// AllowedTools is the post-merge allowed set on a hit.
	AllowedTools []string `json:"allowed_tools,omitempty"`
}

type ResearchArgs struct {
	Query string `json:"query"`
}

// ResearchResult carries ranked chunk texts in MMR-selected order. Error
// is set instead of Chunks when the batch failed as a whole; per-page
// fetch failures never surface here.
type ResearchResult struct {
	Chunks []string `json:"chunks,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// SearchResult is one fetched page. Title "NO_TITLE" or Text "NO_CONTENT"
// is the failure sentinel; such results never enter the corpus.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

const (
	SentinelTitle   = "NO_TITLE"
	SentinelContent = "NO_CONTENT"
)

// Failed reports whether this result is the per-page failure sentinel.
func (r SearchResult) Failed() bool { return r.Title == SentinelTitle }

// RetrievedChunk is a heading-delimited slice of the research corpus.
// Ephemeral; scoped to one retrieval call.
type RetrievedChunk struct {
	// HeadingPath holds the level-1 and level-2 headings leading to
	// this chunk, outermost first.
	HeadingPath []string `json:"heading_path,omitempty"`

	// Text is the chunk body including its heading line.
	Text string `json:"text"`
}
