package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	Name string `json:"name" validate:"omitempty,max=200"`
}

type ChatSessionResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	CreatedAt   time.Time  `json:"created_at"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SendMessageRequest may omit session_id; the service then starts a new
// session for the caller.
type SendMessageRequest struct {
	SessionId uuid.UUID `json:"session_id"`
	Message   string    `json:"message" validate:"required,max=4000"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageResponse struct {
	IsSuccess   bool                 `json:"is_success"`
	SessionId   uuid.UUID            `json:"session_id"`
	SessionName string               `json:"session_name"`
	UserMessage *ChatMessageResponse `json:"user_message,omitempty"`
	AiMessage   *ChatMessageResponse `json:"ai_message,omitempty"`
	Error       string               `json:"error,omitempty"`
}

type RenameSessionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type SearchSessionsRequest struct {
	Keyword string `query:"keyword" validate:"omitempty,max=200"`
}

type PagedSessionsResponse struct {
	Items      []ChatSessionResponse `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalCount int64                 `json:"total_count"`
	TotalPages int                   `json:"total_pages"`
}
