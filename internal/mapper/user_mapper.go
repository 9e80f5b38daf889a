package mapper

import (
	"carfinder-be/internal/entity"
	"carfinder-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                     u.Id,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		FullName:               u.FullName,
		Phone:                  u.Phone,
		ProfileImageUrl:        u.ProfileImageUrl,
		EmailVerified:          u.EmailVerified,
		IsActive:               u.IsActive,
		PasswordResetOtp:       u.PasswordResetOtp,
		PasswordResetOtpExpiry: u.PasswordResetOtpExpiry,
		PasswordOtpVerified:    u.PasswordOtpVerified,
		PendingEmail:           u.PendingEmail,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
		LastLoginAt:            u.LastLoginAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                     u.Id,
		Email:                  u.Email,
		PasswordHash:           u.PasswordHash,
		FullName:               u.FullName,
		Phone:                  u.Phone,
		ProfileImageUrl:        u.ProfileImageUrl,
		EmailVerified:          u.EmailVerified,
		IsActive:               u.IsActive,
		PasswordResetOtp:       u.PasswordResetOtp,
		PasswordResetOtpExpiry: u.PasswordResetOtpExpiry,
		PasswordOtpVerified:    u.PasswordOtpVerified,
		PendingEmail:           u.PendingEmail,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
		LastLoginAt:            u.LastLoginAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

func (m *UserMapper) RefreshTokenToEntity(t *model.RefreshToken) *entity.RefreshToken {
	if t == nil {
		return nil
	}
	return &entity.RefreshToken{
		Id:            t.Id,
		UserId:        t.UserId,
		Token:         t.Token,
		ExpiresAt:     t.ExpiresAt,
		CreatedAt:     t.CreatedAt,
		RevokedAt:     t.RevokedAt,
		RevokedByIp:   t.RevokedByIp,
		CreatedByIp:   t.CreatedByIp,
		ReasonRevoked: t.ReasonRevoked,
	}
}

func (m *UserMapper) RefreshTokenToModel(t *entity.RefreshToken) *model.RefreshToken {
	if t == nil {
		return nil
	}
	return &model.RefreshToken{
		Id:            t.Id,
		UserId:        t.UserId,
		Token:         t.Token,
		ExpiresAt:     t.ExpiresAt,
		CreatedAt:     t.CreatedAt,
		RevokedAt:     t.RevokedAt,
		RevokedByIp:   t.RevokedByIp,
		CreatedByIp:   t.CreatedByIp,
		ReasonRevoked: t.ReasonRevoked,
	}
}

func (m *UserMapper) EmailOtpTokenToEntity(t *model.EmailOtpToken) *entity.EmailOtpToken {
	if t == nil {
		return nil
	}
	return &entity.EmailOtpToken{
		Id:        t.Id,
		Email:     t.Email,
		OtpCode:   t.OtpCode,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
		IsUsed:    t.IsUsed,
		UsedAt:    t.UsedAt,
	}
}

func (m *UserMapper) EmailOtpTokenToModel(t *entity.EmailOtpToken) *model.EmailOtpToken {
	if t == nil {
		return nil
	}
	return &model.EmailOtpToken{
		Id:        t.Id,
		Email:     t.Email,
		OtpCode:   t.OtpCode,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
		IsUsed:    t.IsUsed,
		UsedAt:    t.UsedAt,
	}
}
