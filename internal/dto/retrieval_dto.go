package dto

type RetrievalQueryRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	TopK   int    `json:"top_k"`
}

type RetrievalPassageResponse struct {
	Id       string                 `json:"id"`
	Content  string                 `json:"content"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type ReindexResponse struct {
	IndexedChunks int `json:"indexed_chunks"`
}
