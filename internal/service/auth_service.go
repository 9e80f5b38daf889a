package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"carfinder-be/internal/config"
	"carfinder-be/internal/dto"
	"carfinder-be/internal/entity"
	"carfinder-be/internal/pkg/apperror"
	"carfinder-be/internal/pkg/logger"
	"carfinder-be/internal/pkg/ratelimit"
	"carfinder-be/internal/pkg/security"
	"carfinder-be/internal/pkg/storage"
	"carfinder-be/internal/pkg/tokens"
	"carfinder-be/internal/repository/specification"
	"carfinder-be/internal/repository/unitofwork"
	"carfinder-be/pkg/events"
	pktNats "carfinder-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	reasonReplacedByNewToken = "Replaced by new token"
	reasonLoggedOut          = "Logged out"
	reasonPasswordChanged    = "Password changed"
	reasonPasswordReset      = "Password reset"
	reasonAccountDeleted     = "Account deleted"
)

type ProfileImageUpload struct {
	Reader   io.Reader
	Size     int64
	FileName string
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	SendEmailVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress string) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken, ipAddress string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken, ipAddress string) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	VerifyResetOtp(ctx context.Context, req *dto.VerifyResetOtpRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest, ipAddress string) error
	ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest, ipAddress string) error
	DeleteAccount(ctx context.Context, userId uuid.UUID, req *dto.DeleteAccountRequest, ipAddress string) error
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest, image *ProfileImageUpload) (*dto.UpdateProfileResponse, error)
}

type authService struct {
	uowFactory      unitofwork.RepositoryFactory
	jwtService      tokens.IJwtService
	mailPublisher   IPublisherService
	fileService     storage.IFileService
	otpLimiter      ratelimit.OTPRateLimiter
	eventPublisher  *pktNats.Publisher
	log             logger.ILogger
	refreshTokenTTL time.Duration
	emailOtpTTL     time.Duration
	passwordOtpTTL  time.Duration
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	jwtService tokens.IJwtService,
	mailPublisher IPublisherService,
	fileService storage.IFileService,
	otpLimiter ratelimit.OTPRateLimiter,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	jwtCfg config.JwtConfig,
) IAuthService {
	return &authService{
		uowFactory:      uowFactory,
		jwtService:      jwtService,
		mailPublisher:   mailPublisher,
		fileService:     fileService,
		otpLimiter:      otpLimiter,
		eventPublisher:  eventPublisher,
		log:             log,
		refreshTokenTTL: time.Duration(jwtCfg.RefreshTokenExpiryDays) * 24 * time.Hour,
		emailOtpTTL:     time.Duration(jwtCfg.EmailOtpExpiryMins) * time.Minute,
		passwordOtpTTL:  time.Duration(jwtCfg.PasswordOtpExpiryMins) * time.Minute,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	exists, err := uow.UserRepository().EmailExists(ctx, req.Email)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnexpected, "failed to check email", err)
	}
	if exists {
		return nil, apperror.New(apperror.KindDuplicateEmail, "Email is already registered")
	}

	if !security.IsPasswordStrong(req.Password) {
		return nil, apperror.New(apperror.KindWeakPassword, "Password must be at least 8 characters and contain upper case, lower case and a digit")
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnexpected, "failed to hash password", err)
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	user := &entity.User{
		Id:            uuid.New(),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:  hash,
		FullName:      req.FullName,
		Phone:         phone,
		EmailVerified: false,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperror.Wrap(apperror.KindUnexpected, "failed to create user", err)
	}

	otp, err := s.issueEmailOtp(ctx, uow, user.Email)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.queueMail(dto.SendEmailMessage{
		Kind: dto.MailKindVerificationOtp,
		To:   user.Email,
		Otp:  otp,
	})
	s.publishEvent(ctx, "USER_REGISTERED", map[string]interface{}{
		"user_id": user.Id,
		"email":   user.Email,
	})

	return &dto.RegisterResponse{
		UserId:  user.Id,
		Email:   user.Email,
		Message: "Registration successful. Please check your email for the verification code.",
	}, nil
}

// SendEmailVerification issues a fresh OTP for an unverified address. The
// address may be an account email or a pending email-change target.
func (s *authService) SendEmailVerification(ctx context.Context, email string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return err
	}
	if user == nil {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByPendingEmail{Email: email})
		if err != nil {
			return err
		}
		if user == nil {
			return apperror.New(apperror.KindNotFound, "User not found")
		}
	} else if user.EmailVerified {
		return apperror.New(apperror.KindValidationFailed, "Email is already verified")
	}

	if s.otpLimiter != nil && !s.otpLimiter.Allow(email) {
		return apperror.New(apperror.KindValidationFailed, "Too many OTP requests. Please try again later")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	otp, err := s.issueEmailOtp(ctx, uow, email)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.queueMail(dto.SendEmailMessage{
		Kind: dto.MailKindVerificationOtp,
		To:   email,
		Otp:  otp,
	})
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	otpToken, err := uow.UserRepository().FindActiveEmailOtp(ctx, req.Email)
	if err != nil {
		return err
	}
	if otpToken == nil || otpToken.OtpCode != req.OtpCode {
		return apperror.New(apperror.KindInvalidOrExpiredCode, "Invalid or expired OTP code")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().MarkEmailOtpUsed(ctx, otpToken.Id); err != nil {
		return err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}

	var welcome *dto.SendEmailMessage

	if user != nil {
		if !user.EmailVerified {
			user.EmailVerified = true
			now := time.Now()
			user.UpdatedAt = &now
			if err := uow.UserRepository().Update(ctx, user); err != nil {
				return err
			}
			welcome = &dto.SendEmailMessage{
				Kind:     dto.MailKindWelcome,
				To:       user.Email,
				FullName: user.FullName,
			}
		}
	} else {
		// Address not on any account directly: this OTP confirms a pending
		// email change.
		user, err = uow.UserRepository().FindOne(ctx, specification.ByPendingEmail{Email: req.Email})
		if err != nil {
			return err
		}
		if user == nil {
			return apperror.New(apperror.KindNotFound, "User not found")
		}

		user.Email = strings.ToLower(strings.TrimSpace(*user.PendingEmail))
		user.PendingEmail = nil
		user.EmailVerified = true
		now := time.Now()
		user.UpdatedAt = &now
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if welcome != nil {
		s.queueMail(*welcome)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress string) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || !security.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, apperror.New(apperror.KindInvalidCredentials, "Invalid email or password")
	}
	if !user.IsActive {
		return nil, apperror.New(apperror.KindUnauthorized, "Account is deactivated")
	}
	if !user.EmailVerified {
		return nil, apperror.New(apperror.KindUnauthorized, "Email is not verified. Please verify your email before logging in")
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.UpdatedAt = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	resp, err := s.issueTokenPair(ctx, uow, user, ipAddress)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "USER_LOGIN", map[string]interface{}{
		"user_id": user.Id,
		"ip":      ipAddress,
	})
	return resp, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken, ipAddress string) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.UserRepository().FindRefreshToken(ctx, specification.ByToken{Token: refreshToken})
	if err != nil {
		return nil, err
	}
	if stored == nil || !stored.IsActive() {
		return nil, apperror.New(apperror.KindInvalidToken, "Invalid or expired refresh token")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ById{Id: stored.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.New(apperror.KindInvalidToken, "Invalid or expired refresh token")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Rotation: the presented token is retired before its replacement is
	// issued, so each refresh token is usable exactly once.
	now := time.Now()
	reason := reasonReplacedByNewToken
	stored.RevokedAt = &now
	stored.RevokedByIp = &ipAddress
	stored.ReasonRevoked = &reason
	if err := uow.UserRepository().UpdateRefreshToken(ctx, stored); err != nil {
		return nil, err
	}

	resp, err := s.issueTokenPair(ctx, uow, user, ipAddress)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken, ipAddress string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.UserRepository().FindRefreshToken(ctx, specification.ByToken{Token: refreshToken})
	if err != nil {
		return err
	}
	if stored == nil {
		return apperror.New(apperror.KindInvalidToken, "Invalid refresh token")
	}
	if !stored.IsActive() {
		return nil
	}

	now := time.Now()
	reason := reasonLoggedOut
	stored.RevokedAt = &now
	stored.RevokedByIp = &ipAddress
	stored.ReasonRevoked = &reason
	return uow.UserRepository().UpdateRefreshToken(ctx, stored)
}

// ForgotPassword never reveals whether the address belongs to an account.
func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	if s.otpLimiter != nil && !s.otpLimiter.Allow(req.Email) {
		return nil
	}

	otp, err := security.GenerateOTP()
	if err != nil {
		return apperror.Wrap(apperror.KindUnexpected, "failed to generate OTP", err)
	}

	now := time.Now()
	expiry := now.Add(s.passwordOtpTTL)
	user.PasswordResetOtp = &otp
	user.PasswordResetOtpExpiry = &expiry
	user.PasswordOtpVerified = false
	user.UpdatedAt = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}

	s.queueMail(dto.SendEmailMessage{
		Kind: dto.MailKindPasswordResetOtp,
		To:   user.Email,
		Otp:  otp,
	})
	return nil
}

func (s *authService) VerifyResetOtp(ctx context.Context, req *dto.VerifyResetOtpRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil || user.PasswordResetOtp == nil || *user.PasswordResetOtp != req.OtpCode {
		return apperror.New(apperror.KindInvalidOrExpiredCode, "Invalid or expired OTP code")
	}
	if user.PasswordResetOtpExpiry == nil || time.Now().After(*user.PasswordResetOtpExpiry) {
		return apperror.New(apperror.KindInvalidOrExpiredCode, "Invalid or expired OTP code")
	}

	// The code is consumed here. Even if the reset never completes, the same
	// OTP can not be presented twice.
	now := time.Now()
	user.PasswordOtpVerified = true
	user.PasswordResetOtp = nil
	user.PasswordResetOtpExpiry = nil
	user.UpdatedAt = &now
	return uow.UserRepository().Update(ctx, user)
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest, ipAddress string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.NewPassword != req.ConfirmPassword {
		return apperror.New(apperror.KindValidationFailed, "Passwords do not match")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return err
	}
	if user == nil || !user.PasswordOtpVerified {
		return apperror.New(apperror.KindInvalidOrExpiredCode, "OTP verification is required before resetting the password")
	}

	if !security.IsPasswordStrong(req.NewPassword) {
		return apperror.New(apperror.KindWeakPassword, "Password must be at least 8 characters and contain upper case, lower case and a digit")
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Wrap(apperror.KindUnexpected, "failed to hash password", err)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	user.PasswordHash = hash
	user.PasswordOtpVerified = false
	user.UpdatedAt = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}

	if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, user.Id, ipAddress, reasonPasswordReset); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest, ipAddress string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ById{Id: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.New(apperror.KindNotFound, "User not found")
	}
	if !security.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
		return apperror.New(apperror.KindUnauthorized, "Current password is incorrect")
	}
	if !security.IsPasswordStrong(req.NewPassword) {
		return apperror.New(apperror.KindWeakPassword, "Password must be at least 8 characters and contain upper case, lower case and a digit")
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Wrap(apperror.KindUnexpected, "failed to hash password", err)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	user.PasswordHash = hash
	user.UpdatedAt = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return err
	}

	if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, user.Id, ipAddress, reasonPasswordChanged); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) DeleteAccount(ctx context.Context, userId uuid.UUID, req *dto.DeleteAccountRequest, ipAddress string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.Password != req.ConfirmPassword {
		return apperror.New(apperror.KindValidationFailed, "Passwords do not match")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ById{Id: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.New(apperror.KindNotFound, "User not found")
	}
	if !security.VerifyPassword(req.Password, user.PasswordHash) {
		return apperror.New(apperror.KindUnauthorized, "Password is incorrect")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().RevokeAllRefreshTokens(ctx, user.Id, ipAddress, reasonAccountDeleted); err != nil {
		return err
	}
	if err := uow.UserRepository().DeleteEmailOtps(ctx, user.Email); err != nil {
		return err
	}
	if err := uow.UserRepository().HardDelete(ctx, user.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if user.ProfileImageUrl != nil {
		if err := s.fileService.Delete(*user.ProfileImageUrl); err != nil {
			s.log.Warn("AuthService", "Failed to delete profile image", map[string]interface{}{
				"user_id": user.Id,
				"error":   err.Error(),
			})
		}
	}
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ById{Id: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.New(apperror.KindNotFound, "User not found")
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest, image *ProfileImageUpload) (*dto.UpdateProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ById{Id: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.New(apperror.KindNotFound, "User not found")
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}

	var oldImage string
	if image != nil {
		path, err := s.fileService.SaveProfileImage(image.Reader, image.Size, image.FileName, user.Id)
		if err != nil {
			return nil, err
		}
		if user.ProfileImageUrl != nil {
			oldImage = *user.ProfileImageUrl
		}
		user.ProfileImageUrl = &path
	}

	emailVerificationRequired := false
	var verificationOtp string
	newEmail := strings.ToLower(strings.TrimSpace(req.Email))

	if newEmail != "" && newEmail != strings.ToLower(user.Email) {
		exists, err := uow.UserRepository().EmailExists(ctx, newEmail)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.New(apperror.KindDuplicateEmail, "Email is already registered")
		}
		user.PendingEmail = &newEmail
		emailVerificationRequired = true
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	user.UpdatedAt = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	if emailVerificationRequired {
		verificationOtp, err = s.issueEmailOtp(ctx, uow, newEmail)
		if err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Best effort cleanup after the new image is committed
	if oldImage != "" {
		if err := s.fileService.Delete(oldImage); err != nil {
			s.log.Warn("AuthService", "Failed to delete old profile image", map[string]interface{}{
				"user_id": user.Id,
				"error":   err.Error(),
			})
		}
	}

	if emailVerificationRequired {
		s.queueMail(dto.SendEmailMessage{
			Kind: dto.MailKindVerificationOtp,
			To:   newEmail,
			Otp:  verificationOtp,
		})
	}

	return &dto.UpdateProfileResponse{
		User:                      toUserResponse(user),
		EmailVerificationRequired: emailVerificationRequired,
	}, nil
}

// issueEmailOtp replaces any outstanding OTPs for the address with a fresh
// one, so only the latest code is ever valid.
func (s *authService) issueEmailOtp(ctx context.Context, uow unitofwork.UnitOfWork, email string) (string, error) {
	if err := uow.UserRepository().DeleteEmailOtps(ctx, email); err != nil {
		return "", err
	}

	otp, err := security.GenerateOTP()
	if err != nil {
		return "", apperror.Wrap(apperror.KindUnexpected, "failed to generate OTP", err)
	}

	token := &entity.EmailOtpToken{
		Id:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		OtpCode:   otp,
		ExpiresAt: time.Now().Add(s.emailOtpTTL),
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreateEmailOtp(ctx, token); err != nil {
		return "", err
	}
	return otp, nil
}

func (s *authService) issueTokenPair(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, ipAddress string) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(tokens.AccessClaims{
		UserId:        user.Id.String(),
		Email:         user.Email,
		FullName:      user.FullName,
		EmailVerified: user.EmailVerified,
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnexpected, "failed to generate access token", err)
	}

	refreshValue, err := s.jwtService.GenerateRefreshToken()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnexpected, "failed to generate refresh token", err)
	}

	refreshToken := &entity.RefreshToken{
		Id:          uuid.New(),
		UserId:      user.Id,
		Token:       refreshValue,
		ExpiresAt:   time.Now().Add(s.refreshTokenTTL),
		CreatedAt:   time.Now(),
		CreatedByIp: &ipAddress,
	}
	if err := uow.UserRepository().CreateRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		ExpiresAt:    s.jwtService.TokenExpiration(accessToken),
		User:         toUserResponse(user),
	}, nil
}

func (s *authService) queueMail(msg dto.SendEmailMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.mailPublisher.Publish(context.Background(), payload); err != nil {
		s.log.Error("AuthService", "Failed to queue email", map[string]interface{}{
			"kind":  msg.Kind,
			"error": err.Error(),
		})
	}
}

// publishEvent emits an auxiliary domain event. Failures are logged and never
// fail the request.
func (s *authService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("AuthService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		Id:              user.Id,
		Email:           user.Email,
		FullName:        user.FullName,
		Phone:           user.Phone,
		ProfileImageUrl: user.ProfileImageUrl,
		EmailVerified:   user.EmailVerified,
		PendingEmail:    user.PendingEmail,
		CreatedAt:       user.CreatedAt,
		LastLoginAt:     user.LastLoginAt,
	}
}
