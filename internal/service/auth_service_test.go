package service

import (
	"context"
	"testing"
	"time"

	"carfinder-be/internal/config"
	"carfinder-be/internal/dto"
	"carfinder-be/internal/pkg/apperror"
	"carfinder-be/internal/pkg/tokens"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServiceForTest() (IAuthService, *fakeFactory, *fakeMailPublisher, *fakeFileService) {
	factory := newFakeFactory()
	mail := &fakeMailPublisher{}
	files := newFakeFileService()

	jwtCfg := config.JwtConfig{
		Secret:                 "test-secret",
		Issuer:                 "carfinder",
		Audience:               "carfinder-clients",
		AccessTokenExpiryMins:  60,
		RefreshTokenExpiryDays: 7,
		EmailOtpExpiryMins:     5,
		PasswordOtpExpiryMins:  5,
	}
	jwtSvc := tokens.NewJwtService(jwtCfg.Secret, jwtCfg.Issuer, jwtCfg.Audience, time.Hour)

	svc := NewAuthService(factory, jwtSvc, mail, files, nil, nil, nopLogger{}, jwtCfg)
	return svc, factory, mail, files
}

func activeOtp(f *fakeFactory, email string) string {
	repo := &fakeUserRepo{store: f.store}
	t, _ := repo.FindActiveEmailOtp(context.Background(), email)
	if t == nil {
		return ""
	}
	return t.OtpCode
}

func registerVerifiedUser(t *testing.T, svc IAuthService, f *fakeFactory, email, password string) {
	t.Helper()
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Jane Doe",
	})
	require.NoError(t, err)

	otp := activeOtp(f, email)
	require.NotEmpty(t, otp)
	require.NoError(t, svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
		Email:   email,
		OtpCode: otp,
	}))
}

func TestRegisterAndVerifyFlow(t *testing.T) {
	svc, factory, mail, _ := newAuthServiceForTest()
	ctx := context.Background()

	res, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "Str0ng!Pass",
		FullName: "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", res.Email)
	assert.Equal(t, 1, mail.count())

	// Unverified accounts cannot log in
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "1.2.3.4")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	// Wrong code is rejected, correct code verifies
	otp := activeOtp(factory, "jane@example.com")
	require.Len(t, otp, 4)

	wrong := "0000"
	if otp == wrong {
		wrong = "0001"
	}
	err = svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", OtpCode: wrong})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidOrExpiredCode, apperror.KindOf(err))

	require.NoError(t, svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", OtpCode: otp}))

	// OTP is single use
	err = svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", OtpCode: otp})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidOrExpiredCode, apperror.KindOf(err))

	auth, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "1.2.3.4")
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.True(t, auth.User.EmailVerified)

	profile, err := svc.GetProfile(ctx, auth.User.Id)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.NotNil(t, profile.LastLoginAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, factory, _, _ := newAuthServiceForTest()
	registerVerifiedUser(t, svc, factory, "jane@example.com", "Str0ng!Pass")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "JANE@Example.COM",
		Password: "An0therPass",
		FullName: "Second Jane",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindDuplicateEmail, apperror.KindOf(err))
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "alllowercase1",
		FullName: "Jane Doe",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindWeakPassword, apperror.KindOf(err))
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, factory, _, _ := newAuthServiceForTest()
	registerVerifiedUser(t, svc, factory, "jane@example.com", "Str0ng!Pass")
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "wrong"}, "ip")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidCredentials, apperror.KindOf(err))

	// Unknown account yields the same error kind
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"}, "ip")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidCredentials, apperror.KindOf(err))
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, factory, _, _ := newAuthServiceForTest()
	registerVerifiedUser(t, svc, factory, "jane@example.com", "Str0ng!Pass")
	ctx := context.Background()

	auth, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "ip")
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, auth.RefreshToken, "ip")
	require.NoError(t, err)
	assert.NotEqual(t, auth.RefreshToken, rotated.RefreshToken)

	// The replaced token is single use
	_, err = svc.RefreshToken(ctx, auth.RefreshToken, "ip")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidToken, apperror.KindOf(err))

	// The replacement still works
	_, err = svc.RefreshToken(ctx, rotated.RefreshToken, "ip")
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, factory, _, _ := newAuthServiceForTest()
	registerVerifiedUser(t, svc, factory, "jane@example.com", "Str0ng!Pass")
	ctx := context.Background()

	auth, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "ip")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, auth.RefreshToken, "ip"))

	_, err = svc.RefreshToken(ctx, auth.RefreshToken, "ip")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidToken, apperror.KindOf(err))
}

func TestForgotPasswordFlow(t *testing.T) {
	svc, factory, mail, _ := newAuthServiceForTest()
	registerVerifiedUser(t, svc, factory, "jane@example.com", "Str0ng!Pass")
	ctx := context.Background()

	sentBefore := mail.count()

	// Unknown address: silent success, nothing sent
	require.NoError(t, svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "ghost@example.com"}))
	assert.Equal(t, sentBefore, mail.count())

	auth, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "ip")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "jane@example.com"}))
	assert.Equal(t, sentBefore+1, mail.count())

	repo := &fakeUserRepo{store: factory.store}
	user, err := repo.FindOne(ctx)
	require.NoError(t, err)
	require.NotNil(t, user.PasswordResetOtp)
	otp := *user.PasswordResetOtp

	// Reset before OTP verification is rejected
	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "jane@example.com", NewPassword: "N3wStrongPass", ConfirmPassword: "N3wStrongPass"}, "ip")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidOrExpiredCode, apperror.KindOf(err))

	// Wrong OTP rejected
	wrong := "0000"
	if otp == wrong {
		wrong = "0001"
	}
	err = svc.VerifyResetOtp(ctx, &dto.VerifyResetOtpRequest{Email: "jane@example.com", OtpCode: wrong})
	require.Error(t, err)

	require.NoError(t, svc.VerifyResetOtp(ctx, &dto.VerifyResetOtpRequest{Email: "jane@example.com", OtpCode: otp}))
	require.NoError(t, svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "jane@example.com", NewPassword: "N3wStrongPass", ConfirmPassword: "N3wStrongPass"}, "ip"))

	// Old password no longer works, new one does
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "ip")
	require.Error(t, err)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "N3wStrongPass"}, "ip")
	require.NoError(t, err)

	// All sessions from before the reset are revoked
	_, err = svc.RefreshToken(ctx, auth.RefreshToken, "ip")
	require.Error(t, err)

	// The verified-OTP state is consumed by the reset
	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "jane@example.com", NewPassword: "Yet4notherPass", ConfirmPassword: "Yet4notherPass"}, "ip")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidOrExpiredCode, apperror.KindOf(err))
}

func TestChangePasswordRevokesAllSessions(t *testing.T) {
	svc, factory, _, _ := newAuthServiceForTest()
	registerVerifiedUser(t, svc, factory, "jane@example.com", "Str0ng!Pass")
	ctx := context.Background()

	first, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "ip")
	require.NoError(t, err)
	second, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "ip")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, first.User.Id, &dto.ChangePasswordRequest{
		CurrentPassword: "nope",
		NewPassword:     "N3wStrongPass",
	}, "ip")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, first.User.Id, &dto.ChangePasswordRequest{
		CurrentPassword: "Str0ng!Pass",
		NewPassword:     "N3wStrongPass",
	}, "ip"))

	_, err = svc.RefreshToken(ctx, first.RefreshToken, "ip")
	require.Error(t, err)
	_, err = svc.RefreshToken(ctx, second.RefreshToken, "ip")
	require.Error(t, err)
}

func TestDeleteAccount(t *testing.T) {
	svc, factory, _, files := newAuthServiceForTest()
	registerVerifiedUser(t, svc, factory, "jane@example.com", "Str0ng!Pass")
	ctx := context.Background()

	auth, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "ip")
	require.NoError(t, err)

	// Give the user a profile image so deletion has something to clean up
	repo := &fakeUserRepo{store: factory.store}
	user, err := repo.FindOne(ctx)
	require.NoError(t, err)
	img := "/profile/jane.jpg"
	user.ProfileImageUrl = &img
	require.NoError(t, repo.Update(ctx, user))

	err = svc.DeleteAccount(ctx, auth.User.Id, &dto.DeleteAccountRequest{Password: "wrong", ConfirmPassword: "wrong"}, "ip")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	require.NoError(t, svc.DeleteAccount(ctx, auth.User.Id, &dto.DeleteAccountRequest{Password: "Str0ng!Pass", ConfirmPassword: "Str0ng!Pass"}, "ip"))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "ip")
	require.Error(t, err)
	assert.Contains(t, files.deleted, img)
}

func TestUpdateProfileEmailChange(t *testing.T) {
	svc, factory, mail, _ := newAuthServiceForTest()
	registerVerifiedUser(t, svc, factory, "jane@example.com", "Str0ng!Pass")
	registerVerifiedUser(t, svc, factory, "taken@example.com", "Str0ng!Pass")
	ctx := context.Background()

	auth, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "Str0ng!Pass"}, "ip")
	require.NoError(t, err)

	// Switching to an address someone else owns is rejected
	_, err = svc.UpdateProfile(ctx, auth.User.Id, &dto.UpdateProfileRequest{Email: "taken@example.com"}, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindDuplicateEmail, apperror.KindOf(err))

	sentBefore := mail.count()
	res, err := svc.UpdateProfile(ctx, auth.User.Id, &dto.UpdateProfileRequest{
		FullName: "Jane Updated",
		Email:    "jane.new@example.com",
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.EmailVerificationRequired)
	assert.Equal(t, "Jane Updated", res.User.FullName)
	// The login address stays until the new one is verified
	assert.Equal(t, "jane@example.com", res.User.Email)
	require.NotNil(t, res.User.PendingEmail)
	assert.Equal(t, "jane.new@example.com", *res.User.PendingEmail)
	assert.Equal(t, sentBefore+1, mail.count())

	otp := activeOtp(factory, "jane.new@example.com")
	require.NotEmpty(t, otp)
	require.NoError(t, svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane.new@example.com", OtpCode: otp}))

	profile, err := svc.GetProfile(ctx, auth.User.Id)
	require.NoError(t, err)
	assert.Equal(t, "jane.new@example.com", profile.Email)
	assert.Nil(t, profile.PendingEmail)
	assert.True(t, profile.EmailVerified)
}

func TestVerifyEmailExpiredOtp(t *testing.T) {
	svc, factory, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "Str0ng!Pass",
		FullName: "Jane Doe",
	})
	require.NoError(t, err)

	// Age the OTP past its expiry
	factory.store.mu.Lock()
	var code string
	for id, otp := range factory.store.emailOtps {
		otp.ExpiresAt = time.Now().Add(-time.Minute)
		factory.store.emailOtps[id] = otp
		code = otp.OtpCode
	}
	factory.store.mu.Unlock()

	err = svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", OtpCode: code})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidOrExpiredCode, apperror.KindOf(err))
}

func TestSendEmailVerificationReplacesOtp(t *testing.T) {
	svc, factory, _, _ := newAuthServiceForTest()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "Str0ng!Pass",
		FullName: "Jane Doe",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendEmailVerification(ctx, "jane@example.com"))
	require.NotEmpty(t, activeOtp(factory, "jane@example.com"))

	// The earlier code is replaced; only the latest survives
	factory.store.mu.Lock()
	remaining := len(factory.store.emailOtps)
	factory.store.mu.Unlock()
	assert.Equal(t, 1, remaining)
}
