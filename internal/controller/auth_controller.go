package controller

import (
	"carfinder-be/internal/dto"
	"carfinder-be/internal/pkg/apperror"
	"carfinder-be/internal/pkg/serverutils"
	"carfinder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	SendEmailVerification(ctx *fiber.Ctx) error
	VerifyEmail(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	RefreshToken(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	ForgotPassword(ctx *fiber.Ctx) error
	VerifyResetOtp(ctx *fiber.Ctx) error
	ResetPassword(ctx *fiber.Ctx) error
	ChangePassword(ctx *fiber.Ctx) error
	GetProfile(ctx *fiber.Ctx) error
	DeleteAccount(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	jwt     fiber.Handler
}

func NewAuthController(authService service.IAuthService, jwtMiddleware fiber.Handler) IAuthController {
	return &authController{
		service: authService,
		jwt:     jwtMiddleware,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/send-email-verification", c.SendEmailVerification)
	h.Post("/verify-email", c.VerifyEmail)
	h.Post("/login", c.Login)
	h.Post("/refresh-token", c.RefreshToken)
	h.Post("/logout", c.Logout)
	h.Post("/forgot-password", c.ForgotPassword)
	h.Post("/verify-reset-otp", c.VerifyResetOtp)
	h.Post("/reset-password", c.ResetPassword)

	h.Post("/change-password", c.jwt, c.ChangePassword)
	h.Get("/me", c.jwt, c.GetProfile)
	h.Delete("/me", c.jwt, c.DeleteAccount)
	h.Put("/profile", c.jwt, c.UpdateProfile)
}

// CurrentUserId reads the authenticated user id set by the JWT middleware.
func CurrentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.New(apperror.KindUnauthorized, "Invalid token")
	}
	return userId, nil
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Registration successful", res))
}

func (c *authController) SendEmailVerification(ctx *fiber.Ctx) error {
	var req dto.SendEmailVerificationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.SendEmailVerification(ctx.Context(), req.Email); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Verification code sent", nil))
}

func (c *authController) VerifyEmail(ctx *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.VerifyEmail(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Email verified successfully", nil))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req, serverutils.ClientIP(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) RefreshToken(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.RefreshToken(ctx.Context(), req.RefreshToken, serverutils.ClientIP(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Token refreshed", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.Logout(ctx.Context(), req.RefreshToken, serverutils.ClientIP(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Logged out", nil))
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.ForgotPassword(ctx.Context(), &req); err != nil {
		return err
	}
	// Same response whether or not the account exists
	return ctx.JSON(serverutils.SuccessResponse("If the email is registered, a reset code has been sent", nil))
}

func (c *authController) VerifyResetOtp(ctx *fiber.Ctx) error {
	var req dto.VerifyResetOtpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.VerifyResetOtp(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("OTP verified", nil))
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.ResetPassword(ctx.Context(), &req, serverutils.ClientIP(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Password reset successfully", nil))
}

func (c *authController) ChangePassword(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.ChangePassword(ctx.Context(), userId, &req, serverutils.ClientIP(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Password changed successfully", nil))
}

func (c *authController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile retrieved", res))
}

func (c *authController) DeleteAccount(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.DeleteAccountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindValidationFailed, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.DeleteAccount(ctx.Context(), userId, &req, serverutils.ClientIP(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Account deleted", nil))
}

func (c *authController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := CurrentUserId(ctx)
	if err != nil {
		return err
	}

	req := dto.UpdateProfileRequest{
		FullName: ctx.FormValue("full_name"),
		Phone:    ctx.FormValue("phone"),
		Email:    ctx.FormValue("email"),
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	var image *service.ProfileImageUpload
	if fileHeader, err := ctx.FormFile("profile_image"); err == nil && fileHeader != nil {
		f, err := fileHeader.Open()
		if err != nil {
			return apperror.Wrap(apperror.KindValidationFailed, "Failed to read uploaded file", err)
		}
		defer f.Close()
		image = &service.ProfileImageUpload{
			Reader:   f,
			Size:     fileHeader.Size,
			FileName: fileHeader.Filename,
		}
	}

	res, err := c.service.UpdateProfile(ctx.Context(), userId, &req, image)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}
