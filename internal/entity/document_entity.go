package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is the parsed text of one uploaded file, owned by the session
// that uploaded it. Summary is computed lazily and cached.
type Document struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	UserId        uuid.UUID
	Filename      string
	Content       string
	Summary       *string
	UploadedAt    time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

type DocumentEmbedding struct {
	Id             uuid.UUID
	Chunk          string
	EmbeddingValue []float32
	DocumentId     uuid.UUID
	ChunkIndex     int
	CreatedAt      time.Time
}
