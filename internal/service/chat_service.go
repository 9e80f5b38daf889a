package service

import (
	"context"
	"math"
	"strings"
	"time"

	"carfinder-be/internal/dto"
	"carfinder-be/internal/entity"
	"carfinder-be/internal/pkg/apperror"
	"carfinder-be/internal/pkg/logger"
	"carfinder-be/internal/repository/specification"
	"carfinder-be/internal/repository/unitofwork"
	"carfinder-be/pkg/ai"

	"github.com/google/uuid"
)

const (
	defaultSessionName     = "New Chat"
	sessionNameMaxLen      = 100
	aiFallbackReply        = "Sorry, I'm having trouble responding right now. Please try again in a moment."
	sessionAccessDeniedMsg = "You don't have access to this chat session"
)

type IChatService interface {
	StartSession(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.ChatSessionResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetChatHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.ChatMessageResponse, error)
	GetSessions(ctx context.Context, userId uuid.UUID, query *dto.PaginationQuery) (*dto.PagedSessionsResponse, error)
	SearchSessions(ctx context.Context, userId uuid.UUID, keyword string, query *dto.PaginationQuery) (*dto.PagedSessionsResponse, error)
	RenameSession(ctx context.Context, userId, sessionId uuid.UUID, name string) (*dto.ChatSessionResponse, error)
	DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	aiClient   *ai.Client
	log        logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, aiClient *ai.Client, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		aiClient:   aiClient,
		log:        log,
	}
}

func (s *chatService) StartSession(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	name := defaultSessionName
	if req != nil && req.Name != "" {
		name = req.Name
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var session *entity.ChatSession
	var err error
	if req.SessionId != uuid.Nil {
		session, err = uow.ChatSessionRepository().FindOne(ctx, specification.ById{Id: req.SessionId})
		if err != nil {
			return nil, err
		}
	}
	// No session, or an id the store has never seen: start a fresh one so
	// the first message is never lost.
	if session == nil {
		session = &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Name:      defaultSessionName,
			CreatedAt: time.Now(),
		}
		if req.SessionId != uuid.Nil {
			session.Id = req.SessionId
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
	}
	if session.UserId != userId {
		// Surfaced in the response body rather than as an HTTP error so the
		// chat widget can render it inline.
		return &dto.SendMessageResponse{
			IsSuccess:   false,
			SessionName: "",
			Error:       sessionAccessDeniedMsg,
		}, nil
	}

	userMessage := &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: session.Id,
		Sender:    entity.ChatSenderUser,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	// First message names the session after its opening words.
	if session.Name == defaultSessionName {
		count, err := uow.ChatMessageRepository().Count(ctx, specification.BySessionId{SessionId: session.Id})
		if err == nil && count == 1 {
			session.Name = truncateName(req.Message, sessionNameMaxLen)
			if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
				s.log.Warn("ChatService", "Failed to auto-rename session", map[string]interface{}{
					"session_id": session.Id,
					"error":      err.Error(),
				})
			}
		}
	}

	resp := &dto.SendMessageResponse{
		SessionId:   session.Id,
		SessionName: session.Name,
		UserMessage: toMessageResponse(userMessage),
	}

	reply, aiErr := s.aiClient.Ask(ctx, req.Message, session.Id.String())
	if aiErr != nil {
		s.log.Error("ChatService", "AI call failed", map[string]interface{}{
			"session_id": session.Id,
			"error":      aiErr.Error(),
		})
		reply = aiFallbackReply
		resp.IsSuccess = false
		resp.Error = "AI service is unavailable"
	} else {
		resp.IsSuccess = true
	}

	aiMessage := &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: session.Id,
		Sender:    entity.ChatSenderAi,
		Message:   reply,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, aiMessage); err != nil {
		return nil, err
	}
	resp.AiMessage = toMessageResponse(aiMessage)

	return resp, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.OrderByCreatedAsc{},
	)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ChatMessageResponse, len(messages))
	for i, m := range messages {
		result[i] = *toMessageResponse(m)
	}
	return result, nil
}

func (s *chatService) GetSessions(ctx context.Context, userId uuid.UUID, query *dto.PaginationQuery) (*dto.PagedSessionsResponse, error) {
	return s.pagedSessions(ctx, query, []specification.Specification{
		specification.SessionsOwnedBy{UserId: userId},
	})
}

// SearchSessions with a blank keyword behaves like GetSessions.
func (s *chatService) SearchSessions(ctx context.Context, userId uuid.UUID, keyword string, query *dto.PaginationQuery) (*dto.PagedSessionsResponse, error) {
	filters := []specification.Specification{
		specification.SessionsOwnedBy{UserId: userId},
	}
	if strings.TrimSpace(keyword) != "" {
		filters = append(filters, specification.NameContains{Keyword: strings.TrimSpace(keyword)})
	}
	return s.pagedSessions(ctx, query, filters)
}

func (s *chatService) pagedSessions(ctx context.Context, query *dto.PaginationQuery, filters []specification.Specification) (*dto.PagedSessionsResponse, error) {
	query.Normalize()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.ChatSessionRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters,
		specification.OrderByCreatedDesc{},
		specification.Paginate{Page: query.Page, PageSize: query.PageSize},
	)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	return &dto.PagedSessionsResponse{
		Items:      toSessionResponses(sessions),
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(query.PageSize))),
	}, nil
}

func (s *chatService) RenameSession(ctx context.Context, userId, sessionId uuid.UUID, name string) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.KindValidationFailed, "Session name cannot be empty")
	}

	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	session.Name = truncateName(name, sessionNameMaxLen)
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return err
	}
	return uow.ChatSessionRepository().Delete(ctx, sessionId)
}

func (s *chatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ById{Id: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.New(apperror.KindNotFound, "Chat session not found")
	}
	if session.UserId != userId {
		return nil, apperror.New(apperror.KindInvalidSessionAccess, sessionAccessDeniedMsg)
	}
	return session, nil
}

func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max])
}

func toSessionResponse(s *entity.ChatSession) dto.ChatSessionResponse {
	return dto.ChatSessionResponse{
		Id:          s.Id,
		Name:        s.Name,
		CreatedAt:   s.CreatedAt,
		IsCompleted: s.IsCompleted,
		CompletedAt: s.CompletedAt,
	}
}

func toSessionResponses(sessions []*entity.ChatSession) []dto.ChatSessionResponse {
	result := make([]dto.ChatSessionResponse, len(sessions))
	for i, s := range sessions {
		result[i] = toSessionResponse(s)
	}
	return result
}

func toMessageResponse(m *entity.ChatMessage) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:        m.Id,
		SessionId: m.SessionId,
		Sender:    m.Sender,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
