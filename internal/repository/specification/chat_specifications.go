package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

type SessionsOwnedBy struct {
	UserId uuid.UUID
}

func (s SessionsOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

type BySessionId struct {
	SessionId uuid.UUID
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

type NameContains struct {
	Keyword string
}

func (s NameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name ILIKE ?", "%"+s.Keyword+"%")
}

type OrderByCreatedAsc struct{}

func (s OrderByCreatedAsc) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

type OrderByCreatedDesc struct{}

func (s OrderByCreatedDesc) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// Paginate expects a normalized page and page size.
type Paginate struct {
	Page     int
	PageSize int
}

func (s Paginate) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset((s.Page - 1) * s.PageSize).Limit(s.PageSize)
}
