package textsplitter

import (
	"strings"
	"testing"
)

func TestSplitBasic(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cfg        Config
		wantChunks int
	}{
		{
			name:       "empty input",
			text:       "",
			cfg:        Config{ChunkSize: 10, Overlap: 2},
			wantChunks: 0,
		},
		{
			name:       "short input fits one chunk",
			text:       "hello world",
			cfg:        Config{ChunkSize: 100, Overlap: 10},
			wantChunks: 1,
		},
		{
			name:       "paragraphs split at blank lines",
			text:       "first paragraph here\n\nsecond paragraph here\n\nthird paragraph here",
			cfg:        Config{ChunkSize: 25, Overlap: 0},
			wantChunks: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, tt.cfg)
			if len(got) != tt.wantChunks {
				t.Errorf("Split() returned %d chunks, want %d: %q", len(got), tt.wantChunks, got)
			}
		})
	}
}

func TestSplitShortInputIsVerbatim(t *testing.T) {
	text := "a short document"
	got := Split(text, DefaultConfig())
	if len(got) != 1 || got[0] != text {
		t.Fatalf("Split() = %q, want single verbatim chunk", got)
	}
}

func TestSplitNoEmptyChunks(t *testing.T) {
	text := strings.Repeat("sentence one. sentence two. ", 50) + "\n\n" + strings.Repeat("more text here. ", 40)
	for _, chunk := range Split(text, Config{ChunkSize: 80, Overlap: 20}) {
		if chunk == "" {
			t.Fatal("Split() produced an empty chunk")
		}
	}
}

func TestSplitPreservesContentWithoutOverlap(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon zeta! Eta theta iota?\n\nKappa lambda mu, nu xi omicron. Pi rho sigma."
	chunks := Split(text, Config{ChunkSize: 30, Overlap: 0})

	if strings.Join(chunks, "") != text {
		t.Errorf("chunks do not rejoin to the original text:\n%q", chunks)
	}
}

func TestSplitOverlapCarriesTail(t *testing.T) {
	overlap := 10
	text := strings.Repeat("abcdefghij ", 30)
	chunks := Split(text, Config{ChunkSize: 50, Overlap: overlap})
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		tail := string(prev[len(prev)-overlap:])
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with the previous chunk's tail %q", i, tail)
		}
	}
}

func TestSplitChunkSizeBound(t *testing.T) {
	cfg := Config{ChunkSize: 40, Overlap: 8}
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	for i, chunk := range Split(text, cfg) {
		if n := len([]rune(chunk)); n > cfg.ChunkSize+cfg.Overlap {
			t.Errorf("chunk %d has %d runes, want at most %d", i, n, cfg.ChunkSize+cfg.Overlap)
		}
	}
}

func TestSplitLongWordFallsBackToFixedWindows(t *testing.T) {
	text := strings.Repeat("x", 95)
	chunks := Split(text, Config{ChunkSize: 30, Overlap: 0})

	if strings.Join(chunks, "") != text {
		t.Errorf("fixed-window chunks do not rejoin to the original text")
	}
	for i, chunk := range chunks {
		if len([]rune(chunk)) > 30 {
			t.Errorf("chunk %d exceeds the chunk size", i)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("Some mixed content, with commas. And sentences! Plus questions? ", 25)
	cfg := Config{ChunkSize: 70, Overlap: 15}

	first := Split(text, cfg)
	second := Split(text, cfg)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
