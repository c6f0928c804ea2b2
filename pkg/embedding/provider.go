package embedding

import (
	"math"
	"net/http"
	"time"
)

// EmbeddingProvider turns text into a dense vector. taskType hints the
// intended use ("RETRIEVAL_QUERY" or "RETRIEVAL_DOCUMENT"); providers that
// have no notion of task types ignore it.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

var httpClient = &http.Client{Timeout: 60 * time.Second}

// NormalizeVector scales a vector to unit length. Cosine distance over
// pgvector assumes unit vectors, so providers whose output is not already
// normalized must pass through here.
func NormalizeVector(vec []float32) []float32 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return vec
	}

	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / magnitude)
	}
	return out
}
