// Package vectorstore is an ephemeral in-memory vector index with
// maximal-marginal-relevance retrieval. An index lives for exactly one
// research call; nothing is persisted.
package vectorstore

import (
	"fmt"
	"math"

	"github.com/flexigpt/agentgate-go/spec"
)

type Index struct {
	dim    int
	chunks []spec.RetrievedChunk
	vecs   [][]float32
}

func New() *Index {
	return &Index{}
}

func (ix *Index) Len() int { return len(ix.chunks) }

// Add appends a (chunk, vector) pair. The first vector fixes the index
// dimension; later mismatches are rejected.
func (ix *Index) Add(chunk spec.RetrievedChunk, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty embedding vector")
	}
	if ix.dim == 0 {
		ix.dim = len(vec)
	} else if len(vec) != ix.dim {
		return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), ix.dim)
	}
	ix.chunks = append(ix.chunks, chunk)
	ix.vecs = append(ix.vecs, vec)
	return nil
}

// MMR selects up to k chunks by maximal marginal relevance against the
// query vector. lambda=1 ranks by pure query similarity, lambda=0 by pure
// diversity among the selected set.
func (ix *Index) MMR(query []float32, k int, lambda float64) []spec.RetrievedChunk {
	n := len(ix.chunks)
	if n == 0 || k <= 0 {
		return nil
	}
	if k > n {
		k = n
	}

	qsim := make([]float64, n)
	for i, v := range ix.vecs {
		qsim[i] = cosine(query, v)
	}

	selected := make([]int, 0, k)
	taken := make([]bool, n)

	// Ties resolve to the lowest index so selection is deterministic.
	for len(selected) < k {
		best := -1
		bestScore := math.Inf(-1)
		for i := range n {
			if taken[i] {
				continue
			}
			maxSel := 0.0
			for _, j := range selected {
				if s := cosine(ix.vecs[i], ix.vecs[j]); s > maxSel {
					maxSel = s
				}
			}
			score := lambda*qsim[i] - (1-lambda)*maxSel
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best < 0 {
			break
		}
		selected = append(selected, best)
		taken[best] = true
	}

	out := make([]spec.RetrievedChunk, 0, len(selected))
	for _, i := range selected {
		out = append(out, ix.chunks[i])
	}
	return out
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
