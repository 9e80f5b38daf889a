package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id              uuid.UUID
	Email           string
	PasswordHash    string
	FullName        string
	Phone           *string
	ProfileImageUrl *string
	EmailVerified   bool
	IsActive        bool

	// Password reset OTP lives on the user row; the verified flag gates
	// the final reset call.
	PasswordResetOtp       *string
	PasswordResetOtpExpiry *time.Time
	PasswordOtpVerified    bool

	// PendingEmail holds a new address until its OTP is confirmed.
	PendingEmail *string

	CreatedAt   time.Time
	UpdatedAt   *time.Time
	LastLoginAt *time.Time
}

type RefreshToken struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	Token         string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	RevokedAt     *time.Time
	RevokedByIp   *string
	CreatedByIp   *string
	ReasonRevoked *string
}

func (t *RefreshToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

func (t *RefreshToken) IsActive() bool {
	return !t.IsRevoked() && !t.IsExpired()
}

// EmailOtpToken is keyed by email, not user id: it must work for addresses
// that do not belong to any account yet (registration, email change).
type EmailOtpToken struct {
	Id        uuid.UUID
	Email     string
	OtpCode   string
	ExpiresAt time.Time
	CreatedAt time.Time
	IsUsed    bool
	UsedAt    *time.Time
}

func (t *EmailOtpToken) IsActive() bool {
	return !t.IsUsed && time.Now().Before(t.ExpiresAt)
}
