package specification

import (
	"strings"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ById struct {
	Id uuid.UUID
}

func (s ById) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.Id)
}

// ByEmail matches case-insensitively so "Jane@X.com" and "jane@x.com"
// resolve to the same account.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(email) = ?", strings.ToLower(s.Email))
}

type ByPendingEmail struct {
	Email string
}

func (s ByPendingEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(pending_email) = ?", strings.ToLower(s.Email))
}

type ActiveUsers struct{}

func (s ActiveUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// Token Specs

type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

type TokensOwnedBy struct {
	UserId uuid.UUID
}

func (s TokensOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}
