package service

import (
	"context"
	"fmt"

	"docassist-be/internal/dto"
	"docassist-be/internal/pkg/logger"
	"docassist-be/internal/repository/unitofwork"
	"docassist-be/pkg/embedding"
	"docassist-be/pkg/memory"
	"docassist-be/pkg/vectorindex"

	"github.com/google/uuid"
)

const (
	defaultTopK         = 5
	similarityThreshold = 0.3
)

type IRetrievalService interface {
	Query(ctx context.Context, userId uuid.UUID, request *dto.RetrievalQueryRequest) ([]*dto.RetrievalPassageResponse, error)
	Reindex(ctx context.Context) (*dto.ReindexResponse, error)

	// Retrieve serves context assembly. It satisfies the retriever
	// contract of the memory package.
	Retrieve(ctx context.Context, userId string, query string, k int) ([]memory.Passage, error)
}

// retrievalService answers similarity queries from pgvector and keeps an
// in-memory index of the full corpus as a warm fallback. Reindex rebuilds
// the fallback from stored vectors without re-embedding anything.
type retrievalService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	index             *vectorindex.Index
	logger            logger.ILogger
}

func NewRetrievalService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	index *vectorindex.Index,
	log logger.ILogger,
) IRetrievalService {
	return &retrievalService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		index:             index,
		logger:            log,
	}
}

func (rs *retrievalService) Query(ctx context.Context, userId uuid.UUID, request *dto.RetrievalQueryRequest) ([]*dto.RetrievalPassageResponse, error) {
	topK := request.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	scored, err := rs.searchStored(ctx, userId, request.Prompt, topK)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.RetrievalPassageResponse, 0, len(scored))
	for _, p := range scored {
		response = append(response, &dto.RetrievalPassageResponse{
			Id:       p.id,
			Content:  p.content,
			Score:    p.score,
			Metadata: p.metadata,
		})
	}
	return response, nil
}

func (rs *retrievalService) Retrieve(ctx context.Context, userId string, query string, k int) ([]memory.Passage, error) {
	uid, err := uuid.Parse(userId)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = defaultTopK
	}

	scored, err := rs.searchStored(ctx, uid, query, k)
	if err != nil {
		rs.logger.Warn("retrieval", "Stored search failed, falling back to in-memory index", map[string]interface{}{
			"error": err.Error(),
		})
		return rs.retrieveFromIndex(userId, query, k)
	}

	passages := make([]memory.Passage, 0, len(scored))
	for _, p := range scored {
		passages = append(passages, memory.Passage{
			Content:  p.content,
			Metadata: p.metadata,
		})
	}
	return passages, nil
}

// Reindex loads every stored chunk vector into the in-memory index in one
// atomic swap. Queries keep hitting the previous snapshot until the swap.
func (rs *retrievalService) Reindex(ctx context.Context) (*dto.ReindexResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.DocumentEmbeddingRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	documents, err := uow.DocumentRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	ownerByDocument := make(map[uuid.UUID]string, len(documents))
	for _, d := range documents {
		ownerByDocument[d.Id] = d.UserId.String()
	}

	entries := make([]vectorindex.Entry, 0, len(rows))
	vectors := make([][]float32, 0, len(rows))
	for _, row := range rows {
		owner, ok := ownerByDocument[row.DocumentId]
		if !ok {
			// Chunk of a deleted document, skip it.
			continue
		}
		entries = append(entries, vectorindex.Entry{
			ID:   row.Id.String(),
			Text: row.Chunk,
			Metadata: map[string]interface{}{
				"document_id": row.DocumentId.String(),
				"chunk_index": row.ChunkIndex,
				"user_id":     owner,
			},
		})
		vectors = append(vectors, row.EmbeddingValue)
	}

	if err := rs.index.Load(entries, vectors); err != nil {
		return nil, err
	}

	rs.logger.Info("retrieval", "Index rebuilt from stored vectors", map[string]interface{}{
		"indexed_chunks": len(entries),
	})

	return &dto.ReindexResponse{IndexedChunks: len(entries)}, nil
}

type scoredPassage struct {
	id       string
	content  string
	score    float64
	metadata map[string]interface{}
}

func (rs *retrievalService) searchStored(ctx context.Context, userId uuid.UUID, query string, k int) ([]scoredPassage, error) {
	res, err := rs.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := rs.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentEmbeddingRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, k, userId, similarityThreshold)
	if err != nil {
		return nil, err
	}

	passages := make([]scoredPassage, 0, len(scored))
	for _, s := range scored {
		passages = append(passages, scoredPassage{
			id:      s.Embedding.Id.String(),
			content: s.Embedding.Chunk,
			score:   s.Similarity,
			metadata: map[string]interface{}{
				"document_id": s.Embedding.DocumentId.String(),
				"chunk_index": s.Embedding.ChunkIndex,
			},
		})
	}
	return passages, nil
}

func (rs *retrievalService) retrieveFromIndex(userId string, query string, k int) ([]memory.Passage, error) {
	// The index holds every user's chunks, so over-fetch and keep only the
	// caller's rows.
	results, err := rs.index.Query(query, k*4)
	if err != nil {
		return nil, err
	}
	passages := make([]memory.Passage, 0, k)
	for _, r := range results {
		if owner, _ := r.Entry.Metadata["user_id"].(string); owner != userId {
			continue
		}
		passages = append(passages, memory.Passage{
			Content:  r.Entry.Text,
			Metadata: r.Entry.Metadata,
		})
		if len(passages) == k {
			break
		}
	}
	return passages, nil
}
