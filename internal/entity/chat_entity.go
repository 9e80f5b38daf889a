package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatSenderUser = "user"
	ChatSenderAi   = "ai"
)

type ChatSession struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Name        string
	CreatedAt   time.Time
	IsCompleted bool
	CompletedAt *time.Time
}

type ChatMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Sender    string
	Message   string
	CreatedAt time.Time
}
