package config

import "testing"

func TestLoadDerivesEmbeddingDimensionFromProvider(t *testing.T) {
	cases := []struct {
		provider string
		want     int
	}{
		{"gemini", 768},
		{"ollama", 768},
		{"upstage", 4096},
	}

	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			t.Setenv("EMBEDDING_PROVIDER", tc.provider)
			t.Setenv("EMBEDDING_DIMENSION", "")

			cfg := Load()
			if cfg.Ai.EmbeddingDimension != tc.want {
				t.Errorf("EmbeddingDimension = %d, want %d for provider %q",
					cfg.Ai.EmbeddingDimension, tc.want, tc.provider)
			}
		})
	}
}

func TestLoadEmbeddingDimensionOverride(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "gemini")
	t.Setenv("EMBEDDING_DIMENSION", "1024")

	cfg := Load()
	if cfg.Ai.EmbeddingDimension != 1024 {
		t.Errorf("EmbeddingDimension = %d, want the explicit override 1024", cfg.Ai.EmbeddingDimension)
	}
}
