package mapper

import (
	"docassist-be/internal/entity"
	"docassist-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:            d.Id,
		ChatSessionId: d.ChatSessionId,
		UserId:        d.UserId,
		Filename:      d.Filename,
		Content:       d.Content,
		Summary:       d.Summary,
		UploadedAt:    d.UploadedAt,
		UpdatedAt:     timestampToEntity(d.UpdatedAt),
		DeletedAt:     deletionToEntity(d.DeletedAt),
		IsDeleted:     d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:            d.Id,
		ChatSessionId: d.ChatSessionId,
		UserId:        d.UserId,
		Filename:      d.Filename,
		Content:       d.Content,
		Summary:       d.Summary,
		UploadedAt:    d.UploadedAt,
		UpdatedAt:     timestampToModel(d.UpdatedAt),
		DeletedAt:     deletionToModel(d.DeletedAt, d.IsDeleted),
	}
}

// DocumentEmbeddingMapper converts chunk rows between the pgvector column
// type and the plain float32 slice the rest of the code works with.
type DocumentEmbeddingMapper struct{}

func NewDocumentEmbeddingMapper() *DocumentEmbeddingMapper {
	return &DocumentEmbeddingMapper{}
}

func (m *DocumentEmbeddingMapper) ToEntity(e *model.DocumentEmbedding) *entity.DocumentEmbedding {
	if e == nil {
		return nil
	}
	return &entity.DocumentEmbedding{
		Id:             e.Id,
		Chunk:          e.Chunk,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		DocumentId:     e.DocumentId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToModel(e *entity.DocumentEmbedding) *model.DocumentEmbedding {
	if e == nil {
		return nil
	}
	return &model.DocumentEmbedding{
		Id:             e.Id,
		Chunk:          e.Chunk,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		DocumentId:     e.DocumentId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToEntities(embeddings []*model.DocumentEmbedding) []*entity.DocumentEmbedding {
	entities := make([]*entity.DocumentEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
