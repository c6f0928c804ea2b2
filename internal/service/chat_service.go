package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docassist-be/internal/constant"
	"docassist-be/internal/dto"
	"docassist-be/internal/entity"
	"docassist-be/internal/pkg/logger"
	"docassist-be/internal/repository/specification"
	"docassist-be/internal/repository/unitofwork"
	"docassist-be/pkg/chat"
	"docassist-be/pkg/events"
	"docassist-be/pkg/llm"
	"docassist-be/pkg/memory"
	"docassist-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	defaultSessionTitle = "Unnamed session"
	sessionTitleLimit   = 50

	// Raw document text folded into the system prompt when no summary
	// exists yet. Bounded so a large upload cannot crowd out the history.
	documentContextLimit = 2000
)

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	StreamChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest, sink StreamSink) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	engine         *chat.Engine
	assembler      *memory.Assembler
	profiles       IProfileService
	eventPublisher *nats.Publisher
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	engine *chat.Engine,
	assembler *memory.Assembler,
	profiles IProfileService,
	eventPublisher *nats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		engine:         engine,
		assembler:      assembler,
		profiles:       profiles,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = defaultSessionTitle
	}

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: now,
	}

	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          "Hi, how can I help you ?",
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		ChatSessionId: chatSession.Id,
		Title:         chatSession.Title,
		CreatedAt:     chatSession.CreatedAt,
	}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			ChatSessionId: s.Id,
			Title:         s.Title,
			CreatedAt:     s.CreatedAt,
		})
	}

	return response, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

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

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			CreatedAt: msg.CreatedAt,
		})
	}

	return resp, nil
}

// turnContext is everything loaded up-front for one chat turn.
type turnContext struct {
	session  *entity.ChatSession
	history  []llm.Message
	messages []llm.Message
	isFirst  bool
}

func (cs *chatService) prepareTurn(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*turnContext, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatSessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: request.ChatSessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(chatMessages))
	userTurns := 0
	for _, msg := range chatMessages {
		role := msg.Role
		if role == constant.ChatMessageRoleModel {
			role = "assistant"
		}
		if role == constant.ChatMessageRoleUser {
			userTurns++
		}
		history = append(history, llm.Message{Role: role, Content: msg.Chat})
	}

	systemPrompt := constant.DefaultSystemPromptV1
	documentContext := ""
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByChatSessionID{ChatSessionID: request.ChatSessionId},
		specification.OrderBy{Field: "uploaded_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if document != nil {
		systemPrompt = constant.DocumentQASystemPromptV1
		if document.Summary != nil && *document.Summary != "" {
			documentContext = *document.Summary
		} else {
			documentContext = truncateRunes(document.Content, documentContextLimit)
		}
	}

	userProfile, err := cs.profiles.Store().Get(ctx, userId.String())
	if err != nil {
		cs.logger.Warn("chat", "Failed to load user profile for assembly", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		userProfile = nil
	}

	messages := cs.assembler.Assemble(ctx, memory.AssembleInput{
		SystemPrompt:    systemPrompt,
		History:         history,
		CurrentInput:    request.Chat,
		Profile:         userProfile,
		UserId:          userId.String(),
		DocumentContext: documentContext,
		RetrievalQuery:  request.Chat,
	})

	return &turnContext{
		session:  sess,
		history:  history,
		messages: messages,
		isFirst:  userTurns == 0,
	}, nil
}

func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	turn, err := cs.prepareTurn(ctx, userId, request)
	if err != nil {
		return nil, err
	}

	reply, err := cs.engine.Complete(ctx, turn.messages)
	if err != nil {
		cs.logger.Error("chat", "Answer generation failed", map[string]interface{}{
			"chat_session_id": request.ChatSessionId.String(),
			"error":           err.Error(),
		})
		reply = constant.ChatFailureReply
	}

	return cs.persistTurn(ctx, turn, request, reply)
}

// StreamSink receives stream output as it is produced. A non-nil error from
// SendDelta means the client connection is gone and the turn should stop.
type StreamSink interface {
	SendDelta(fragment string) error
	SendError(description string)
}

func (cs *chatService) StreamChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest, sink StreamSink) (*dto.SendChatResponse, error) {
	turn, err := cs.prepareTurn(ctx, userId, request)
	if err != nil {
		return nil, err
	}

	stream := cs.engine.Stream(ctx, turn.messages)
	defer stream.Close()

	reply, clientGone := collectStream(stream, sink)
	if clientGone {
		cs.logger.Warn("chat", "Client disconnected mid-stream, persisting delivered fragments", map[string]interface{}{
			"chat_session_id": request.ChatSessionId.String(),
		})
	}
	if err := stream.Err(); err != nil {
		cs.logger.Error("chat", "Streamed answer failed mid-generation", map[string]interface{}{
			"chat_session_id": request.ChatSessionId.String(),
			"error":           err.Error(),
		})
		reply = constant.ChatFailureReply
	}

	return cs.persistTurn(ctx, turn, request, reply)
}

// collectStream drains the stream into the sink and returns the accumulated
// answer text. The terminal fragment of a failed stream is an error
// description, it goes to SendError and is excluded from the answer. A delta
// write failure closes the stream early so the provider call is not consumed
// past the disconnect; the text accumulated so far is returned.
func collectStream(stream *chat.Stream, sink StreamSink) (string, bool) {
	var sb strings.Builder
	for fragment := range stream.Fragments() {
		if fragment.Err {
			sink.SendError(fragment.Text)
			return sb.String(), false
		}
		sb.WriteString(fragment.Text)
		if err := sink.SendDelta(fragment.Text); err != nil {
			stream.Close()
			return sb.String(), true
		}
	}
	return sb.String(), false
}

// persistTurn writes the user and model messages in one transaction and
// names the session after its first user message.
func (cs *chatService) persistTurn(ctx context.Context, turn *turnContext, request *dto.SendChatRequest, reply string) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          request.Chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: request.ChatSessionId,
		CreatedAt:     now,
	}
	modelMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          reply,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: request.ChatSessionId,
		CreatedAt:     now.Add(1 * time.Millisecond),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &modelMessage); err != nil {
		return nil, err
	}

	if turn.isFirst && turn.session.Title == defaultSessionTitle {
		turn.session.Title = truncateRunes(strings.TrimSpace(request.Chat), sessionTitleLimit)
		turn.session.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, turn.session); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		ChatSessionId:    turn.session.Id,
		ChatSessionTitle: turn.session.Title,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Role:      userMessage.Role,
			Chat:      userMessage.Chat,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        modelMessage.Id,
			Role:      modelMessage.Role,
			Chat:      modelMessage.Chat,
			CreatedAt: modelMessage.CreatedAt,
		},
	}, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ChatSessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session not found or access denied")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Delete(ctx, request.ChatSessionId); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, request.ChatSessionId); err != nil {
		return err
	}
	if err := uow.DocumentRepository().DeleteByChatSessionId(ctx, request.ChatSessionId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if cs.eventPublisher != nil {
		evt := events.New(events.TypeSessionDeleted, map[string]interface{}{
			"chat_session_id": request.ChatSessionId.String(),
			"user_id":         userId.String(),
		})
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("chat", "Failed to publish session event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
