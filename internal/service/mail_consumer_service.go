package service

import (
	"context"
	"encoding/json"

	"carfinder-be/internal/dto"
	"carfinder-be/internal/pkg/logger"
	"carfinder-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IMailConsumerService interface {
	Consume(ctx context.Context) error
}

// mailConsumerService drains the mail topic so that request handlers never
// block on SMTP. Delivery failures are logged, not retried forever; OTP
// emails go stale in minutes anyway and the user can ask for a resend.
type mailConsumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	log          logger.ILogger
}

func NewMailConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IMailConsumerService {
	return &mailConsumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		log:          log,
	}
}

func (cs *mailConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *mailConsumerService) processMessage(msg *message.Message) {
	var payload dto.SendEmailMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("MailConsumer", "Failed to unmarshal mail message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads never become valid, drop them
		return
	}

	var err error
	switch payload.Kind {
	case dto.MailKindVerificationOtp:
		err = cs.emailService.SendVerificationOTP(payload.To, payload.Otp)
	case dto.MailKindPasswordResetOtp:
		err = cs.emailService.SendPasswordResetOTP(payload.To, payload.Otp)
	case dto.MailKindWelcome:
		err = cs.emailService.SendWelcome(payload.To, payload.FullName)
	default:
		cs.log.Warn("MailConsumer", "Unknown mail kind", map[string]interface{}{
			"kind": payload.Kind,
		})
		msg.Ack()
		return
	}

	if err != nil {
		cs.log.Error("MailConsumer", "Failed to send email", map[string]interface{}{
			"kind":  payload.Kind,
			"error": err.Error(),
		})
	}
	msg.Ack()
}
