package bootstrap

import (
	"context"
	"log"
	"time"

	"carfinder-be/internal/config"
	"carfinder-be/internal/controller"
	"carfinder-be/internal/pkg/logger"
	"carfinder-be/internal/pkg/mailer"
	"carfinder-be/internal/pkg/ratelimit"
	"carfinder-be/internal/pkg/serverutils"
	"carfinder-be/internal/pkg/storage"
	"carfinder-be/internal/pkg/tokens"
	"carfinder-be/internal/repository/memory"
	"carfinder-be/internal/repository/unitofwork"
	"carfinder-be/internal/service"
	"carfinder-be/pkg/ai"
	pktNats "carfinder-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const mailTopic = "SEND_EMAIL"

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	ChatController    controller.IChatController
	UsedCarController controller.IUsedCarController

	// Background services (exposed for main.go to run)
	MailConsumerService service.IMailConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.CompanyName,
		cfg.App.FrontendURL,
	)

	// 2. Mail queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	mailPublisher := service.NewPublisherService(mailTopic, pubSub)
	mailConsumer := service.NewMailConsumerService(pubSub, mailTopic, emailService, sysLogger)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	// 3 OTP sends per address per 10 minutes
	otpLimiter := ratelimit.NewRedisOTPRateLimiter(rdb, 10*time.Minute, 3)

	jwtService := tokens.NewJwtService(
		cfg.Jwt.Secret,
		cfg.Jwt.Issuer,
		cfg.Jwt.Audience,
		time.Duration(cfg.Jwt.AccessTokenExpiryMins)*time.Minute,
	)
	fileService := storage.NewFileService(cfg.Upload.BaseDir)
	aiClient := ai.NewClient(cfg.AiApi.Endpoint, cfg.AiApi.ApiKey)
	listingCache := memory.NewListingCache()

	// 4. Services
	authService := service.NewAuthService(
		uowFactory,
		jwtService,
		mailPublisher,
		fileService,
		otpLimiter,
		natsPub,
		sysLogger,
		cfg.Jwt,
	)
	chatService := service.NewChatService(uowFactory, aiClient, sysLogger)
	usedCarService := service.NewUsedCarService(
		uowFactory,
		fileService,
		listingCache,
		natsPub,
		sysLogger,
	)

	// 5. Controllers
	jwtMiddleware := serverutils.NewJwtMiddleware(jwtService)

	return &Container{
		AuthController:    controller.NewAuthController(authService, jwtMiddleware),
		ChatController:    controller.NewChatController(chatService, jwtMiddleware),
		UsedCarController: controller.NewUsedCarController(usedCarService, jwtMiddleware),

		MailConsumerService: mailConsumer,
		Logger:              sysLogger,
	}
}
