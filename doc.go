// Package agentgate is a capability gate and research toolkit for
// LLM-driven agents.
//
// The gate implements progressive disclosure: a session starts with a
// single visible tool, skills.load, and loading a skill by name unlocks
// that skill's instructions plus the tool slugs it declares. Grants made
// within one orchestration step merge; a grant at a later step replaces
// the allowed set. FilterTools projects a tool list through the gate.
//
// The research side implements web.research: a metasearch-planned URL
// batch is fetched concurrently through one shared headless browser,
// readable pages are joined into a markdown corpus, and the corpus is
// chunked at headings, embedded and ranked with maximal marginal
// relevance against the query.
//
// Skill catalogs live on disk (package fscatalog), backends are
// pluggable through the interfaces in package spec, and the tools are
// exposed to models via llmtools-go (package gatetool). Package langguard
// is an optional reply-language guard for the surrounding agent loop.
package agentgate
