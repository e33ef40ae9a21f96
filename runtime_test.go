package agentgate

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/flexigpt/agentgate-go/spec"
)

type fakeCatalog struct {
	mu     sync.Mutex
	skills []spec.SkillDescriptor
	err    error
	calls  atomic.Int32
}

func (c *fakeCatalog) ListSkills(ctx context.Context) ([]spec.SkillDescriptor, error) {
	c.calls.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return slices.Clone(c.skills), nil
}

func (c *fakeCatalog) setSkills(skills []spec.SkillDescriptor) {
	c.mu.Lock()
	c.skills = skills
	c.mu.Unlock()
}

func newTestRuntime(t *testing.T, catalog spec.Catalog, opts ...Option) (*Runtime, spec.SessionID) {
	t.Helper()
	rt, err := New(append([]Option{WithCatalog(catalog)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sid, err := rt.NewSession(t.Context())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return rt, sid
}

func mustLoad(t *testing.T, rt *Runtime, sid spec.SessionID, name string, step int) spec.LoadSkillResult {
	t.Helper()
	res, err := rt.LoadSkill(t.Context(), sid, spec.LoadSkillArgs{Name: name, Step: step})
	if err != nil {
		t.Fatalf("LoadSkill(%q): %v", name, err)
	}
	return res
}

func TestNew_RequiresCatalog(t *testing.T) {
	if _, err := New(); !errors.Is(err, spec.ErrNotConfigured) {
		t.Fatalf("New without catalog: err = %v, want ErrNotConfigured", err)
	}
}

func TestLoadSkill_HitGrantsTools(t *testing.T) {
	catalog := &fakeCatalog{skills: []spec.SkillDescriptor{
		{Name: "web-research", Description: "research the web", Content: "Use web.research.", Tools: []string{spec.ResearchToolSlug}},
	}}
	rt, sid := newTestRuntime(t, catalog)

	res := mustLoad(t, rt, sid, "web-research", 1)
	if !res.Loaded {
		t.Fatalf("Loaded = false, want true: %+v", res)
	}
	if res.Content != "Use web.research." {
		t.Errorf("Content = %q", res.Content)
	}
	if !slices.Contains(res.AllowedTools, spec.ResearchToolSlug) {
		t.Errorf("AllowedTools = %v, want %q granted", res.AllowedTools, spec.ResearchToolSlug)
	}

	snap, err := rt.GateSnapshot(sid)
	if err != nil {
		t.Fatalf("GateSnapshot: %v", err)
	}
	if snap.LastUpdateStep != 1 {
		t.Errorf("LastUpdateStep = %d, want 1", snap.LastUpdateStep)
	}
	if len(snap.LoadedSkills) != 1 || snap.LoadedSkills[0].Name != "web-research" {
		t.Errorf("LoadedSkills = %+v", snap.LoadedSkills)
	}
}

func TestLoadSkill_MissListsCatalogWithoutMutation(t *testing.T) {
	catalog := &fakeCatalog{skills: []spec.SkillDescriptor{
		{Name: "bravo", Tools: []string{"b"}},
		{Name: "alpha", Tools: []string{"a"}},
	}}
	rt, sid := newTestRuntime(t, catalog)

	res := mustLoad(t, rt, sid, "no-such-skill", 3)
	if res.Loaded {
		t.Fatalf("Loaded = true on a miss")
	}
	want := []string{"alpha", "bravo"}
	if !slices.Equal(res.AvailableSkills, want) {
		t.Errorf("AvailableSkills = %v, want %v sorted", res.AvailableSkills, want)
	}

	snap, err := rt.GateSnapshot(sid)
	if err != nil {
		t.Fatalf("GateSnapshot: %v", err)
	}
	if snap.LastUpdateStep != -1 || len(snap.AllowedTools) != 0 || len(snap.LoadedSkills) != 0 {
		t.Errorf("gate mutated on a miss: %+v", snap)
	}
}

func TestLoadSkill_SameStepUnions(t *testing.T) {
	catalog := &fakeCatalog{skills: []spec.SkillDescriptor{
		{Name: "a", Tools: []string{"x", "y"}},
		{Name: "b", Tools: []string{"y", "z"}},
	}}
	rt, sid := newTestRuntime(t, catalog)

	mustLoad(t, rt, sid, "a", 5)
	res := mustLoad(t, rt, sid, "b", 5)

	want := []string{"x", "y", "z"}
	if !slices.Equal(res.AllowedTools, want) {
		t.Errorf("AllowedTools = %v, want union %v", res.AllowedTools, want)
	}
}

func TestLoadSkill_NewStepReplaces(t *testing.T) {
	catalog := &fakeCatalog{skills: []spec.SkillDescriptor{
		{Name: "a", Tools: []string{"x", "y"}},
		{Name: "b", Tools: []string{"z"}},
	}}
	rt, sid := newTestRuntime(t, catalog)

	mustLoad(t, rt, sid, "a", 1)
	res := mustLoad(t, rt, sid, "b", 2)

	if !slices.Equal(res.AllowedTools, []string{"z"}) {
		t.Errorf("AllowedTools = %v, want replacement [z]", res.AllowedTools)
	}

	snap, err := rt.GateSnapshot(sid)
	if err != nil {
		t.Fatalf("GateSnapshot: %v", err)
	}
	if len(snap.LoadedSkills) != 2 {
		t.Errorf("LoadedSkills = %+v, want both load events retained", snap.LoadedSkills)
	}
}

func TestLoadSkill_RescansCatalogEveryCall(t *testing.T) {
	catalog := &fakeCatalog{skills: []spec.SkillDescriptor{{Name: "old", Tools: []string{"x"}}}}
	rt, sid := newTestRuntime(t, catalog)

	res := mustLoad(t, rt, sid, "new", 1)
	if res.Loaded {
		t.Fatal("skill loaded before it exists")
	}

	catalog.setSkills([]spec.SkillDescriptor{
		{Name: "old", Tools: []string{"x"}},
		{Name: "new", Tools: []string{"y"}},
	})
	res = mustLoad(t, rt, sid, "new", 2)
	if !res.Loaded {
		t.Fatalf("skill added to catalog not loadable: %+v", res)
	}
	if catalog.calls.Load() != 2 {
		t.Errorf("catalog scanned %d times, want 2", catalog.calls.Load())
	}
}

func TestLoadSkill_UnknownSession(t *testing.T) {
	rt, _ := newTestRuntime(t, &fakeCatalog{})
	_, err := rt.LoadSkill(t.Context(), "not-a-session", spec.LoadSkillArgs{Name: "a", Step: 1})
	if !errors.Is(err, spec.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestCloseSession_RemovesState(t *testing.T) {
	catalog := &fakeCatalog{skills: []spec.SkillDescriptor{{Name: "a", Tools: []string{"x"}}}}
	rt, sid := newTestRuntime(t, catalog)
	mustLoad(t, rt, sid, "a", 1)

	if err := rt.CloseSession(t.Context(), sid); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if _, err := rt.GateSnapshot(sid); !errors.Is(err, spec.ErrSessionNotFound) {
		t.Fatalf("snapshot after close: err = %v, want ErrSessionNotFound", err)
	}
}
