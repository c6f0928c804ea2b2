package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"docassist-be/pkg/embedding"
)

// Entry is one indexed chunk of corpus text.
type Entry struct {
	ID       string
	Text     string
	Metadata map[string]interface{}
}

// Result pairs an entry with its similarity to the query.
type Result struct {
	Entry Entry
	Score float64
}

// indexed is an immutable snapshot: entries and their vectors, same order.
type indexed struct {
	entries []Entry
	vectors [][]float32
}

// Index embeds a corpus and answers top-k similarity queries. Build replaces
// the whole snapshot atomically, so queries always see either the previous
// complete index or the new one, never a partial build.
type Index struct {
	provider embedding.EmbeddingProvider
	current  atomic.Pointer[indexed]
}

func New(provider embedding.EmbeddingProvider) *Index {
	ix := &Index{provider: provider}
	ix.current.Store(&indexed{})
	return ix
}

// Build embeds every entry and swaps in the completed snapshot. If any entry
// fails to embed the build fails entirely and the previous snapshot stays
// active; the error names the failing entry.
func (ix *Index) Build(ctx context.Context, entries []Entry) error {
	vectors := make([][]float32, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.Text == "" {
			return fmt.Errorf("entry %q has empty text", entry.ID)
		}
		res, err := ix.provider.Generate(entry.Text, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return fmt.Errorf("embed entry %q: %w", entry.ID, err)
		}
		vectors[i] = res.Embedding.Values
	}

	snapshot := &indexed{
		entries: append([]Entry(nil), entries...),
		vectors: vectors,
	}
	ix.current.Store(snapshot)
	return nil
}

// Load swaps in a snapshot from already-embedded entries, skipping the
// embedding calls. Entries and vectors pair up by index.
func (ix *Index) Load(entries []Entry, vectors [][]float32) error {
	if len(entries) != len(vectors) {
		return fmt.Errorf("entry count %d does not match vector count %d", len(entries), len(vectors))
	}
	snapshot := &indexed{
		entries: append([]Entry(nil), entries...),
		vectors: append([][]float32(nil), vectors...),
	}
	ix.current.Store(snapshot)
	return nil
}

// Query returns up to k entries most similar to text, descending by score.
// Ties keep corpus order. Repeated identical queries against an unchanged
// index return identical results.
func (ix *Index) Query(text string, k int) ([]Result, error) {
	if text == "" {
		return nil, fmt.Errorf("query text is empty")
	}
	if k <= 0 {
		k = 5
	}

	snapshot := ix.current.Load()
	if len(snapshot.entries) == 0 {
		return nil, nil
	}

	res, err := ix.provider.Generate(text, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := res.Embedding.Values

	results := make([]Result, len(snapshot.entries))
	for i := range snapshot.entries {
		results[i] = Result{
			Entry: snapshot.entries[i],
			Score: dot(queryVec, snapshot.vectors[i]),
		}
	}

	// Stable keeps corpus order for equal scores
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Size reports how many entries the active snapshot holds.
func (ix *Index) Size() int {
	return len(ix.current.Load().entries)
}

// dot is the inner product; with normalized vectors it equals cosine
// similarity.
func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
