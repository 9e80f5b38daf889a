package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email                  string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash           string    `gorm:"type:varchar(255);not null"`
	FullName               string    `gorm:"type:varchar(200);not null"`
	Phone                  *string   `gorm:"type:varchar(15)"`
	ProfileImageUrl        *string   `gorm:"type:varchar(500)"`
	EmailVerified          bool      `gorm:"default:false"`
	IsActive               bool      `gorm:"default:true"`
	PasswordResetOtp       *string   `gorm:"type:varchar(4)"`
	PasswordResetOtpExpiry *time.Time
	PasswordOtpVerified    bool    `gorm:"default:false"`
	PendingEmail           *string `gorm:"type:varchar(255);index"`
	CreatedAt              time.Time
	UpdatedAt              *time.Time
	LastLoginAt            *time.Time

	RefreshTokens []RefreshToken `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

type RefreshToken struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Token         string    `gorm:"type:text;not null;uniqueIndex"`
	ExpiresAt     time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	RevokedAt     *time.Time
	RevokedByIp   *string `gorm:"type:varchar(45)"`
	CreatedByIp   *string `gorm:"type:varchar(45)"`
	ReasonRevoked *string `gorm:"type:varchar(255)"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

type EmailOtpToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"type:varchar(255);not null;index"`
	OtpCode   string    `gorm:"type:varchar(4);not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	IsUsed    bool      `gorm:"default:false"`
	UsedAt    *time.Time
}

func (EmailOtpToken) TableName() string {
	return "email_otp_tokens"
}
