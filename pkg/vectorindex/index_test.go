package vectorindex

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"docassist-be/pkg/embedding"
)

// fakeProvider returns fixed vectors per text and can be told to fail on
// specific inputs.
type fakeProvider struct {
	vectors map[string][]float32
	failOn  map[string]bool
	calls   int
}

func (f *fakeProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.failOn[text] {
		return nil, fmt.Errorf("forced failure for %q", text)
	}
	vec, ok := f.vectors[text]
	if !ok {
		vec = []float32{0, 0, 0}
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: vec},
	}, nil
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		vectors: map[string][]float32{
			"apples":  {1, 0, 0},
			"oranges": {0.9, 0.1, 0},
			"rockets": {0, 0, 1},
			"fruit":   {1, 0.05, 0},
		},
		failOn: map[string]bool{},
	}
}

func TestQueryRanksBySimilarity(t *testing.T) {
	provider := newFakeProvider()
	ix := New(provider)

	entries := []Entry{
		{ID: "1", Text: "rockets"},
		{ID: "2", Text: "apples"},
		{ID: "3", Text: "oranges"},
	}
	if err := ix.Build(context.Background(), entries); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	results, err := ix.Query("fruit", 2)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Query() returned %d results, want 2", len(results))
	}
	if results[0].Entry.ID != "2" || results[1].Entry.ID != "3" {
		t.Errorf("unexpected ranking: got %s then %s", results[0].Entry.ID, results[1].Entry.ID)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("scores not descending: %f then %f", results[0].Score, results[1].Score)
	}
}

func TestQueryTiesKeepCorpusOrder(t *testing.T) {
	provider := newFakeProvider()
	provider.vectors["first"] = []float32{1, 0, 0}
	provider.vectors["second"] = []float32{1, 0, 0}
	ix := New(provider)

	err := ix.Build(context.Background(), []Entry{
		{ID: "a", Text: "first"},
		{ID: "b", Text: "second"},
	})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	results, err := ix.Query("apples", 2)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if results[0].Entry.ID != "a" || results[1].Entry.ID != "b" {
		t.Errorf("tied scores should keep corpus order, got %s then %s", results[0].Entry.ID, results[1].Entry.ID)
	}
}

func TestQueryEmptyIndex(t *testing.T) {
	ix := New(newFakeProvider())

	results, err := ix.Query("anything", 3)
	if err != nil {
		t.Fatalf("Query() on empty index should not error, got %v", err)
	}
	if results != nil {
		t.Errorf("Query() on empty index = %v, want nil", results)
	}
}

func TestBuildAllOrNothing(t *testing.T) {
	provider := newFakeProvider()
	ix := New(provider)

	if err := ix.Build(context.Background(), []Entry{{ID: "1", Text: "apples"}}); err != nil {
		t.Fatalf("initial Build() failed: %v", err)
	}

	provider.failOn["rockets"] = true
	err := ix.Build(context.Background(), []Entry{
		{ID: "2", Text: "oranges"},
		{ID: "3", Text: "rockets"},
	})
	if err == nil {
		t.Fatal("Build() should fail when an entry cannot be embedded")
	}
	if !strings.Contains(err.Error(), "3") {
		t.Errorf("error should name the failing entry, got: %v", err)
	}

	// Previous snapshot must stay queryable
	if ix.Size() != 1 {
		t.Errorf("Size() = %d after failed build, want 1", ix.Size())
	}
	results, err := ix.Query("apples", 1)
	if err != nil {
		t.Fatalf("Query() after failed build: %v", err)
	}
	if len(results) != 1 || results[0].Entry.ID != "1" {
		t.Errorf("failed build should not disturb the active snapshot")
	}
}

func TestBuildRejectsEmptyText(t *testing.T) {
	ix := New(newFakeProvider())
	err := ix.Build(context.Background(), []Entry{{ID: "empty", Text: ""}})
	if err == nil {
		t.Fatal("Build() should reject entries with empty text")
	}
}

func TestLoadSkipsEmbedding(t *testing.T) {
	provider := newFakeProvider()
	ix := New(provider)

	entries := []Entry{
		{ID: "1", Text: "apples"},
		{ID: "2", Text: "rockets"},
	}
	vectors := [][]float32{{1, 0, 0}, {0, 0, 1}}
	if err := ix.Load(entries, vectors); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("Load() should not call the embedding provider, got %d calls", provider.calls)
	}
	if ix.Size() != 2 {
		t.Errorf("Size() = %d, want 2", ix.Size())
	}

	results, err := ix.Query("rockets", 1)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if results[0].Entry.ID != "2" {
		t.Errorf("Query() top result = %s, want 2", results[0].Entry.ID)
	}
}

func TestLoadMismatchedLengths(t *testing.T) {
	ix := New(newFakeProvider())
	err := ix.Load([]Entry{{ID: "1", Text: "a"}}, nil)
	if err == nil {
		t.Fatal("Load() should reject mismatched entry and vector counts")
	}
}

func TestQueryDeterministic(t *testing.T) {
	ix := New(newFakeProvider())
	err := ix.Build(context.Background(), []Entry{
		{ID: "1", Text: "apples"},
		{ID: "2", Text: "oranges"},
		{ID: "3", Text: "rockets"},
	})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	first, err := ix.Query("fruit", 3)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	second, err := ix.Query("fruit", 3)
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}

	for i := range first {
		if first[i].Entry.ID != second[i].Entry.ID || first[i].Score != second[i].Score {
			t.Errorf("result %d differs between identical queries", i)
		}
	}
}
