package contract

import (
	"context"

	"carfinder-be/internal/entity"
	"carfinder-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	// Refresh tokens
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error
	FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.RefreshToken, error)
	UpdateRefreshToken(ctx context.Context, token *entity.RefreshToken) error
	RevokeAllRefreshTokens(ctx context.Context, userId uuid.UUID, ip, reason string) error

	// Email verification OTPs, keyed by email address rather than user id so
	// pending email changes can be verified before the address exists on any row.
	CreateEmailOtp(ctx context.Context, token *entity.EmailOtpToken) error
	FindActiveEmailOtp(ctx context.Context, email string) (*entity.EmailOtpToken, error)
	MarkEmailOtpUsed(ctx context.Context, id uuid.UUID) error
	DeleteEmailOtps(ctx context.Context, email string) error
}
