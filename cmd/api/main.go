package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AyyappaSannidhi/backend/internal/botcheck"
	"github.com/AyyappaSannidhi/backend/internal/config"
	"github.com/AyyappaSannidhi/backend/internal/db"
	"github.com/AyyappaSannidhi/backend/internal/email"
	apihttp "github.com/AyyappaSannidhi/backend/internal/http"
	"github.com/AyyappaSannidhi/backend/internal/oauth/google"
	"github.com/AyyappaSannidhi/backend/internal/repository"
	"github.com/AyyappaSannidhi/backend/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SenderEmail != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.MailAppPassword, cfg.SenderEmail)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	challengeStore := service.NewMemoryChallengeStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			challengeStore = service.NewRedisChallengeStore(redisClient, cfg.ChallengePrefix)
		}
		cancel()
	}

	tokenSvc := service.NewTokenService(
		cfg.AppSecret,
		cfg.JWTAlgo,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
	)

	challengeSvc := service.NewChallengeService(logger, challengeStore, emailSender)
	googleVerifier := google.NewVerifier(cfg.GoogleClientID)
	authSvc := service.NewAuthService(logger, userRepo, tokenSvc, challengeSvc, googleVerifier)

	var botVerifier botcheck.Verifier
	if cfg.TurnstileSecretKey != "" {
		botVerifier = botcheck.NewTurnstileVerifier(cfg.TurnstileSecretKey, cfg.TurnstileURL)
	}

	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	userHandler := apihttp.NewUserHandler(logger, authSvc)
	router := apihttp.NewRouter(logger, cfg, tokenSvc, botVerifier, authHandler, userHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
