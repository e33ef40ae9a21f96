// Package gate holds the per-session capability gate: which skills have
// been loaded and which tool slugs the model may currently call.
package gate

import (
	"sort"
	"sync"

	"github.com/flexigpt/agentgate-go/spec"
)

// Gate is the only mutable shared object of a conversation. All writes go
// through Apply, whose merge rule is commutative and idempotent for
// same-step grants so truly parallel tool calls within one turn are safe.
type Gate struct {
	mu sync.Mutex

	loadedOrder []string
	loadedByKey map[string]spec.SkillDescriptor

	allowed  map[string]struct{}
	lastStep int
}

func New() *Gate {
	return &Gate{
		loadedByKey: map[string]spec.SkillDescriptor{},
		allowed:     map[string]struct{}{},
		lastStep:    -1,
	}
}

// Apply merges a grant for the given skill at the given step:
//   - first grant becomes the state;
//   - same step as the last grant: union the tool sets (parallel tool
//     calls within one assistant turn);
//   - different step: the grant replaces the allowed set entirely;
//     visibility is scoped to the most recent gating decision.
func (g *Gate) Apply(sk spec.SkillDescriptor, step int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.loadedByKey[sk.Name]; !ok {
		g.loadedByKey[sk.Name] = sk
		g.loadedOrder = append(g.loadedOrder, sk.Name)
	}

	if g.lastStep != step {
		g.allowed = map[string]struct{}{}
		g.lastStep = step
	}
	for _, t := range sk.Tools {
		g.allowed[t] = struct{}{}
	}
}

// Allows reports whether the given tool slug is currently callable.
// The loader tool is always callable regardless of gate state.
func (g *Gate) Allows(slug string) bool {
	if slug == spec.LoaderToolSlug {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.allowed[slug]
	return ok
}

func (g *Gate) Snapshot() spec.GateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	loaded := make([]spec.SkillDescriptor, 0, len(g.loadedOrder))
	for _, name := range g.loadedOrder {
		loaded = append(loaded, g.loadedByKey[name])
	}

	allowed := make([]string, 0, len(g.allowed))
	for t := range g.allowed {
		allowed = append(allowed, t)
	}
	sort.Strings(allowed)

	return spec.GateSnapshot{
		LoadedSkills:   loaded,
		AllowedTools:   allowed,
		LastUpdateStep: g.lastStep,
	}
}
