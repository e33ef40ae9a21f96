package vectorstore

import (
	"testing"

	"github.com/flexigpt/agentgate-go/spec"
)

func chunk(text string) spec.RetrievedChunk {
	return spec.RetrievedChunk{Text: text}
}

func mustAdd(t *testing.T, ix *Index, text string, vec []float32) {
	t.Helper()
	if err := ix.Add(chunk(text), vec); err != nil {
		t.Fatalf("Add(%q): %v", text, err)
	}
}

func TestAdd_DimensionMismatch(t *testing.T) {
	ix := New()
	mustAdd(t, ix, "a", []float32{1, 0})
	if err := ix.Add(chunk("b"), []float32{1, 0, 0}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if err := ix.Add(chunk("c"), nil); err == nil {
		t.Fatal("expected empty vector error")
	}
}

func TestMMR_EmptyIndex(t *testing.T) {
	ix := New()
	if got := ix.MMR([]float32{1, 0}, 10, 0.25); got != nil {
		t.Fatalf("MMR on empty index = %+v, want nil", got)
	}
}

func TestMMR_KCapsAtIndexSize(t *testing.T) {
	ix := New()
	mustAdd(t, ix, "a", []float32{1, 0})
	mustAdd(t, ix, "b", []float32{0, 1})

	got := ix.MMR([]float32{1, 0}, 10, 0.25)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Text != "a" {
		t.Errorf("first selection = %q, want most query-similar chunk", got[0].Text)
	}
}

func TestMMR_PureRelevanceOrdering(t *testing.T) {
	ix := New()
	mustAdd(t, ix, "far", []float32{0, 1})
	mustAdd(t, ix, "near", []float32{1, 0.1})
	mustAdd(t, ix, "mid", []float32{1, 1})

	got := ix.MMR([]float32{1, 0}, 3, 1.0)
	if got[0].Text != "near" || got[1].Text != "mid" || got[2].Text != "far" {
		t.Fatalf("lambda=1 order = %q,%q,%q", got[0].Text, got[1].Text, got[2].Text)
	}
}

func TestMMR_DiversityBias(t *testing.T) {
	// Two near-duplicates close to the query plus one distinct chunk.
	// With a diversity-leaning lambda the distinct chunk must be picked
	// before the second duplicate.
	ix := New()
	mustAdd(t, ix, "dup1", []float32{1, 0.01})
	mustAdd(t, ix, "dup2", []float32{1, 0.02})
	mustAdd(t, ix, "other", []float32{0.2, 1})

	got := ix.MMR([]float32{1, 0}, 2, 0.25)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Text != "dup1" {
		t.Errorf("first selection = %q, want dup1", got[0].Text)
	}
	if got[1].Text != "other" {
		t.Errorf("second selection = %q, want the diverse chunk", got[1].Text)
	}
}
