package gate

import (
	"reflect"
	"sync"
	"testing"

	"github.com/flexigpt/agentgate-go/spec"
)

func skill(name string, tools ...string) spec.SkillDescriptor {
	return spec.SkillDescriptor{Name: name, Description: "d", Tools: tools}
}

func TestApply_FirstGrantBecomesState(t *testing.T) {
	g := New()
	g.Apply(skill("a", "x", "y"), 3)

	snap := g.Snapshot()
	if snap.LastUpdateStep != 3 {
		t.Fatalf("LastUpdateStep = %d, want 3", snap.LastUpdateStep)
	}
	if want := []string{"x", "y"}; !reflect.DeepEqual(snap.AllowedTools, want) {
		t.Fatalf("AllowedTools = %v, want %v", snap.AllowedTools, want)
	}
}

func TestApply_SameStepUnions(t *testing.T) {
	g := New()
	g.Apply(skill("a", "x", "y"), 5)
	g.Apply(skill("b", "y", "z"), 5)

	snap := g.Snapshot()
	if want := []string{"x", "y", "z"}; !reflect.DeepEqual(snap.AllowedTools, want) {
		t.Fatalf("AllowedTools = %v, want %v", snap.AllowedTools, want)
	}
	if snap.LastUpdateStep != 5 {
		t.Fatalf("LastUpdateStep = %d, want 5", snap.LastUpdateStep)
	}
}

func TestApply_SameStepOrderIndependent(t *testing.T) {
	g1 := New()
	g1.Apply(skill("a", "x"), 2)
	g1.Apply(skill("b", "y"), 2)

	g2 := New()
	g2.Apply(skill("b", "y"), 2)
	g2.Apply(skill("a", "x"), 2)

	if a, b := g1.Snapshot().AllowedTools, g2.Snapshot().AllowedTools; !reflect.DeepEqual(a, b) {
		t.Fatalf("order dependence: %v vs %v", a, b)
	}
}

func TestApply_NewStepReplaces(t *testing.T) {
	g := New()
	g.Apply(skill("a", "x", "y"), 1)
	g.Apply(skill("b", "z"), 4)

	snap := g.Snapshot()
	if want := []string{"z"}; !reflect.DeepEqual(snap.AllowedTools, want) {
		t.Fatalf("AllowedTools = %v, want %v (no accumulation across steps)", snap.AllowedTools, want)
	}
	if snap.LastUpdateStep != 4 {
		t.Fatalf("LastUpdateStep = %d, want 4", snap.LastUpdateStep)
	}
	// Both skills remain in load order.
	if len(snap.LoadedSkills) != 2 || snap.LoadedSkills[0].Name != "a" || snap.LoadedSkills[1].Name != "b" {
		t.Fatalf("LoadedSkills = %+v", snap.LoadedSkills)
	}
}

func TestApply_Idempotent(t *testing.T) {
	g := New()
	g.Apply(skill("a", "x"), 7)
	g.Apply(skill("a", "x"), 7)

	snap := g.Snapshot()
	if want := []string{"x"}; !reflect.DeepEqual(snap.AllowedTools, want) {
		t.Fatalf("AllowedTools = %v, want %v", snap.AllowedTools, want)
	}
	if len(snap.LoadedSkills) != 1 {
		t.Fatalf("LoadedSkills = %+v, want single entry", snap.LoadedSkills)
	}
}

func TestAllows_LoaderAlwaysVisible(t *testing.T) {
	g := New()
	if !g.Allows(spec.LoaderToolSlug) {
		t.Fatal("loader tool must be callable on a fresh gate")
	}
	g.Apply(skill("a", "x"), 0)
	g.Apply(skill("b", "y"), 1)
	if !g.Allows(spec.LoaderToolSlug) {
		t.Fatal("loader tool must stay callable after grants")
	}
	if g.Allows("x") {
		t.Fatal("step-0 grant must have been replaced")
	}
	if !g.Allows("y") {
		t.Fatal("current grant must be callable")
	}
}

func TestApply_ConcurrentSameStep(t *testing.T) {
	g := New()

	var wg sync.WaitGroup
	skills := []spec.SkillDescriptor{
		skill("a", "x", "y"),
		skill("b", "y", "z"),
		skill("c", "w"),
	}
	for _, sk := range skills {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Apply(sk, 5)
		}()
	}
	wg.Wait()

	snap := g.Snapshot()
	if want := []string{"w", "x", "y", "z"}; !reflect.DeepEqual(snap.AllowedTools, want) {
		t.Fatalf("AllowedTools = %v, want %v", snap.AllowedTools, want)
	}
	if snap.LastUpdateStep != 5 {
		t.Fatalf("LastUpdateStep = %d, want 5", snap.LastUpdateStep)
	}
}
