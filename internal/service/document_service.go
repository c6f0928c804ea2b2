package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"docassist-be/internal/constant"
	"docassist-be/internal/dto"
	"docassist-be/internal/entity"
	"docassist-be/internal/pkg/logger"
	"docassist-be/internal/repository/specification"
	"docassist-be/internal/repository/unitofwork"
	"docassist-be/pkg/cache"
	"docassist-be/pkg/docparse"
	"docassist-be/pkg/events"
	"docassist-be/pkg/llm"
	"docassist-be/pkg/nats"

	"github.com/google/uuid"
)

const summaryInputLimit = 4000

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, filename string, file io.Reader) (*dto.UploadDocumentResponse, error)
	GetSummary(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.DocumentSummaryResponse, error)
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	parser         docparse.DocumentParser
	embedPublisher IPublisherService
	summaryCache   *cache.SummaryCache
	llmProvider    llm.LLMProvider
	eventPublisher *nats.Publisher
	logger         logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	parser docparse.DocumentParser,
	embedPublisher IPublisherService,
	summaryCache *cache.SummaryCache,
	llmProvider llm.LLMProvider,
	eventPublisher *nats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		parser:         parser,
		embedPublisher: embedPublisher,
		summaryCache:   summaryCache,
		llmProvider:    llmProvider,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Upload parses the file, stores the document, queues it for embedding, and
// drops an upload notice into the session log.
func (ds *documentService) Upload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, filename string, file io.Reader) (*dto.UploadDocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}

	content, err := ds.parser.Parse(ctx, filename, file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("document contains no extractable text")
	}

	now := time.Now()
	document := entity.Document{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		UserId:        userId,
		Filename:      filename,
		Content:       content,
		UploadedAt:    now,
	}

	notice := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          fmt.Sprintf("%s Document '%s' uploaded. Ask me anything about it.", constant.DocumentNoticePrefix, filename),
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: sessionId,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &notice); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishEmbedDocumentMessage{DocumentId: document.Id})
	if err != nil {
		return nil, err
	}
	if err := ds.embedPublisher.Publish(ctx, payload); err != nil {
		ds.logger.Error("document", "Failed to queue document for embedding", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
		})
	}

	if ds.eventPublisher != nil {
		evt := events.New(events.TypeDocumentUploaded, map[string]interface{}{
			"document_id":     document.Id.String(),
			"chat_session_id": sessionId.String(),
			"filename":        filename,
		})
		if err := ds.eventPublisher.Publish(ctx, evt); err != nil {
			ds.logger.Warn("document", "Failed to publish document event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.UploadDocumentResponse{
		DocumentId:    document.Id,
		ChatSessionId: sessionId,
		Filename:      filename,
		UploadedAt:    now,
	}, nil
}

// GetSummary returns the document summary, computing and caching it on
// first request. Cache layers: redis, then the documents table, then the LLM.
func (ds *documentService) GetSummary(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.DocumentSummaryResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, fmt.Errorf("document not found or access denied")
	}

	if ds.summaryCache != nil {
		if summary, found := ds.summaryCache.Get(ctx, documentId.String()); found {
			return ds.summaryResponse(document, summary), nil
		}
	}

	if document.Summary != nil && *document.Summary != "" {
		if ds.summaryCache != nil {
			ds.summaryCache.Set(ctx, documentId.String(), *document.Summary)
		}
		return ds.summaryResponse(document, *document.Summary), nil
	}

	prompt := fmt.Sprintf(
		"Summarize the following document in 3 to 5 sentences. Keep the key facts and figures.\n\n%s",
		truncateRunes(document.Content, summaryInputLimit),
	)
	summary, err := ds.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize document: %w", err)
	}
	summary = strings.TrimSpace(summary)

	document.Summary = &summary
	now := time.Now()
	document.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		ds.logger.Warn("document", "Failed to persist document summary", map[string]interface{}{
			"document_id": documentId.String(),
			"error":       err.Error(),
		})
	}
	if ds.summaryCache != nil {
		ds.summaryCache.Set(ctx, documentId.String(), summary)
	}

	return ds.summaryResponse(document, summary), nil
}

func (ds *documentService) summaryResponse(document *entity.Document, summary string) *dto.DocumentSummaryResponse {
	return &dto.DocumentSummaryResponse{
		DocumentId: document.Id,
		Filename:   document.Filename,
		Summary:    summary,
	}
}
