package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentResponse struct {
	DocumentId    uuid.UUID `json:"document_id"`
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	Filename      string    `json:"filename"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

type DocumentSummaryResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Summary    string    `json:"summary"`
}

// PublishEmbedDocumentMessage is the payload carried on the embed topic.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
