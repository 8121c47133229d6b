package config

import (
	"os"
	"strconv"

	"spudverse/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	BotToken    string
	BotUsername string
	JWTSecret   string

	// Redis (rate limiting); empty addr disables the limiter
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Telegram channel users must join for the social mission
	ChannelUsername string

	// Referral bonuses (SPUD)
	ReferralBonus int64
	ReferredBonus int64

	// Tap limits
	MaxTapsPerBatch int64
	TapRateLimit    int
	TapRateWindow   int
}

// Load reads configuration from .env / environment variables.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		logger.Fatal("BOT_TOKEN is not set")
	}

	botUsername := os.Getenv("BOT_USERNAME")
	if botUsername == "" {
		botUsername = "SpudVerseBot"
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	channel := os.Getenv("CHANNEL_USERNAME")
	if channel == "" {
		channel = "@spudverse_channel"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	referralBonus := int64(100)
	if v := os.Getenv("REFERRAL_BONUS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			referralBonus = n
		}
	}

	referredBonus := int64(50)
	if v := os.Getenv("REFERRED_BONUS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			referredBonus = n
		}
	}

	// A legit client flushes every 2 seconds, so hundreds of taps in one
	// batch means abuse; such batches are rejected outright.
	maxTaps := int64(500)
	if v := os.Getenv("MAX_TAPS_PER_BATCH"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxTaps = n
		}
	}

	tapRateLimit := 60 // max tap flushes per window
	if v := os.Getenv("TAP_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tapRateLimit = n
		}
	}

	tapRateWindow := 60 // seconds
	if v := os.Getenv("TAP_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tapRateWindow = n
		}
	}

	return &Config{
		AppPort:         port,
		DatabaseURL:     dbURL,
		BotToken:        botToken,
		BotUsername:     botUsername,
		JWTSecret:       jwtSecret,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		ChannelUsername: channel,
		ReferralBonus:   referralBonus,
		ReferredBonus:   referredBonus,
		MaxTapsPerBatch: maxTaps,
		TapRateLimit:    tapRateLimit,
		TapRateWindow:   tapRateWindow,
	}
}
