package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Jwt      JwtConfig
	AiApi    AiApiConfig
	Upload   UploadConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	CompanyName        string
	FrontendURL        string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type JwtConfig struct {
	Secret                 string
	Issuer                 string
	Audience               string
	AccessTokenExpiryMins  int
	RefreshTokenExpiryDays int
	EmailOtpExpiryMins     int
	PasswordOtpExpiryMins  int
}

type AiApiConfig struct {
	Endpoint string
	ApiKey   string
}

type UploadConfig struct {
	BaseDir string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			CompanyName:        getEnv("COMPANY_NAME", "CarFinder"),
			FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "CarFinder"),
		},
		Jwt: JwtConfig{
			Secret:                 getEnv("JWT_SECRET", ""),
			Issuer:                 getEnv("JWT_ISSUER", "carfinder"),
			Audience:               getEnv("JWT_AUDIENCE", "carfinder-clients"),
			AccessTokenExpiryMins:  getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY_MINS", 60),
			RefreshTokenExpiryDays: getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY_DAYS", 7),
			EmailOtpExpiryMins:     getEnvAsInt("EMAIL_OTP_EXPIRY_MINS", 5),
			PasswordOtpExpiryMins:  getEnvAsInt("PASSWORD_OTP_EXPIRY_MINS", 5),
		},
		AiApi: AiApiConfig{
			Endpoint: getEnv("AI_API_ENDPOINT", ""),
			ApiKey:   getEnv("AI_API_KEY", ""),
		},
		Upload: UploadConfig{
			BaseDir: getEnv("UPLOAD_BASE_DIR", "./uploads"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
