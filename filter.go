package agentgate

import (
	llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

	"github.com/flexigpt/agentgate-go/spec"
)

// FilterTools returns the subset of tools visible under the given gate
// snapshot: tools whose slug is in the allowed set, plus the loader tool,
// which is always visible. Pure: the input slice is never mutated and
// relative order is preserved.
func FilterTools(tools []llmtoolsgoSpec.Tool, snap spec.GateSnapshot) []llmtoolsgoSpec.Tool {
	allowed := make(map[string]struct{}, len(snap.AllowedTools)+1)
	for _, slug := range snap.AllowedTools {
		allowed[slug] = struct{}{}
	}
	allowed[spec.LoaderToolSlug] = struct{}{}

	out := make([]llmtoolsgoSpec.Tool, 0, len(tools))
	for _, t := range tools {
		if _, ok := allowed[t.Slug]; ok {
			out = append(out, t)
		}
	}
	return out
}
