package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyyappaSannidhi/backend/internal/botcheck"
	"github.com/AyyappaSannidhi/backend/internal/config"
	"github.com/AyyappaSannidhi/backend/internal/domain"
	"github.com/AyyappaSannidhi/backend/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	cfg *config.Config,
	tokens *service.TokenService,
	bot botcheck.Verifier,
	authH *AuthHandler,
	userH *UserHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(cfg.AllowedOrigins))

	protect := func(c *gin.Context) { c.Next() }
	if cfg.BotProtection {
		protect = BotProtection(cfg.AppEnv, bot)
	}

	r.POST("/login", protect, authH.Login)
	r.POST("/google_login", authH.GoogleLogin)
	r.POST("/otp_request", protect, authH.RequestOTP)
	r.POST("/otp_verify", protect, authH.VerifyOTP)
	r.POST("/register", protect, userH.Register)
	r.PUT("/profile",
		protect,
		VerifyJWT(tokens),
		RequireUserType(tokens, domain.UserTypeDevotee),
		userH.UpdateProfile,
	)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware refleja el Origin solo cuando figura en la lista permitida.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		allowedSet[origin] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowedSet[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
