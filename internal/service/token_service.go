package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"

	"github.com/AyyappaSannidhi/backend/internal/domain"
)

// BearerPrefix se antepone al access token en su representación externa.
// El refresh token viaja sin prefijo.
const BearerPrefix = "Bearer "

// decodeCacheTTL limita cuánto vive un payload decodificado en cache.
const decodeCacheTTL = 5 * time.Second

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenPayload es el contenido mínimo que viaja firmado en cada token.
type TokenPayload struct {
	UserID   string          `json:"user_id"`
	UserType domain.UserType `json:"user_type"`
}

type tokenClaims struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenService firma y verifica tokens de acceso y de refresco. Mantiene un
// cache corto de payloads decodificados para abaratar ráfagas de requests
// con el mismo token.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	cache      *gocache.Cache
}

func NewTokenService(secret, algorithm string, accessTTL, refreshTTL time.Duration) *TokenService {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 60 * time.Minute
	}
	return &TokenService{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		cache:      gocache.New(decodeCacheTTL, time.Minute),
	}
}

// IssueAccessToken devuelve el token de acceso ya con el prefijo Bearer.
func (s *TokenService) IssueAccessToken(payload TokenPayload) (string, error) {
	signed, err := s.sign(payload, s.accessTTL)
	if err != nil {
		return "", err
	}
	return BearerPrefix + signed, nil
}

// IssueRefreshToken devuelve el token de refresco sin prefijo.
func (s *TokenService) IssueRefreshToken(payload TokenPayload) (string, error) {
	return s.sign(payload, s.refreshTTL)
}

// Decode verifica firma y expiración de un token crudo (sin prefijo).
// Responde ErrTokenExpired cuando el claim exp ya pasó y ErrTokenInvalid
// para cualquier otro fallo de verificación.
func (s *TokenService) Decode(token string) (TokenPayload, error) {
	if strings.TrimSpace(token) == "" {
		return TokenPayload{}, ErrTokenInvalid
	}

	if cached, ok := s.cache.Get(token); ok {
		claims, ok := cached.(tokenClaims)
		// Un hit de cache no puede sobrevivir a la expiración del propio token.
		if ok && claims.ExpiresAt != nil {
			if time.Now().UTC().After(claims.ExpiresAt.Time) {
				return TokenPayload{}, ErrTokenExpired
			}
			return TokenPayload{UserID: claims.UserID, UserType: domain.UserType(claims.UserType)}, nil
		}
	}

	var claims tokenClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{s.method.Alg()}))
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPayload{}, ErrTokenExpired
		}
		return TokenPayload{}, ErrTokenInvalid
	}

	s.cache.Set(token, claims, decodeCacheTTL)
	return TokenPayload{UserID: claims.UserID, UserType: domain.UserType(claims.UserType)}, nil
}

func (s *TokenService) sign(payload TokenPayload, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := tokenClaims{
		UserID:   payload.UserID,
		UserType: string(payload.UserType),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}
