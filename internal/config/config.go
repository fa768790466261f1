package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"LOCAL"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	AppSecret            string `env:"APP_SECRET,required"`
	JWTAlgo              string `env:"JWT_ALGO" envDefault:"HS256"`
	JWTAccessTTLMinutes  int    `env:"JWT_EXPIRY_MIN" envDefault:"30"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_EXPIRY_MIN" envDefault:"60"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	ChallengePrefix string `env:"CHALLENGE_PREFIX" envDefault:"otp:challenge:"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	BotProtection      bool   `env:"BOT_PROTECTION" envDefault:"true"`
	TurnstileSecretKey string `env:"TURNSTILE_SECRET_KEY"`
	TurnstileURL       string `env:"TURNSTILE_URL" envDefault:"https://challenges.cloudflare.com/turnstile/v0/siteverify"`

	SenderEmail     string `env:"SENDER_EMAIL"`
	MailAppPassword string `env:"MAIL_APP_PASSWORD"`
	SMTPHost        string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort        int    `env:"SMTP_PORT" envDefault:"587"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
