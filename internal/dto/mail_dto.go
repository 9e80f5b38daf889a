package dto

const (
	MailKindVerificationOtp  = "verification_otp"
	MailKindPasswordResetOtp = "password_reset_otp"
	MailKindWelcome          = "welcome"
)

// SendEmailMessage is the payload queued for the mail consumer worker.
type SendEmailMessage struct {
	Kind     string `json:"kind"`
	To       string `json:"to"`
	FullName string `json:"full_name,omitempty"`
	Otp      string `json:"otp,omitempty"`
}
