package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AyyappaSannidhi/backend/internal/domain"
	"github.com/AyyappaSannidhi/backend/internal/oauth/google"
	"github.com/AyyappaSannidhi/backend/internal/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserNameTaken      = errors.New("user name taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrGoogleNotVerified  = errors.New("google user not verified")
)

// GoogleVerifier valida un id_token opaco de Google.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (google.Claims, error)
}

// TokenPair agrupa los tokens emitidos para una sesión.
type TokenPair struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// AuthService orquesta login, registro y los flujos de OTP y Google.
type AuthService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	tokens     *TokenService
	challenges *ChallengeService
	google     GoogleVerifier
}

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	tokens *TokenService,
	challenges *ChallengeService,
	googleVerifier GoogleVerifier,
) *AuthService {
	return &AuthService{
		logger:     logger,
		users:      users,
		tokens:     tokens,
		challenges: challenges,
		google:     googleVerifier,
	}
}

// IssueSession convierte una identidad verificada en un par de tokens. El
// payload override existe para el flujo de Google, donde el registro recién
// creado puede no estar disponible en una lectura inmediata.
func (s *AuthService) IssueSession(user domain.User, override *TokenPayload) (TokenPair, error) {
	payload := TokenPayload{UserID: user.UserID, UserType: user.UserType}
	if override != nil {
		payload = *override
	}
	access, err := s.tokens.IssueAccessToken(payload)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(payload)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Login autentica credenciales contra el registro almacenado.
func (s *AuthService) Login(ctx context.Context, userName, password string, userType domain.UserType) (domain.User, TokenPair, error) {
	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, TokenPair{}, ErrUserNotFound
		}
		return domain.User{}, TokenPair{}, err
	}
	if !verifyUser(userType, password, user) {
		return domain.User{}, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.IssueSession(user, nil)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// verifyUser exige coincidencia exacta de tipo de usuario y password. Las
// cuentas google/otp llevan hash vacío y nunca pasan esta comparación.
func verifyUser(submittedType domain.UserType, password string, user domain.User) bool {
	if submittedType != user.UserType {
		return false
	}
	if user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// GoogleLogin verifica el id_token y crea la cuenta en el primer acceso.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (domain.User, TokenPair, error) {
	if s.google == nil {
		return domain.User{}, TokenPair{}, errors.New("google verifier not configured")
	}
	claims, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return domain.User{}, TokenPair{}, ErrInvalidGoogleToken
	}
	if !claims.EmailVerified || claims.Subject == "" {
		return domain.User{}, TokenPair{}, ErrGoogleNotVerified
	}

	profile := domain.User{
		UserID:      claims.Subject,
		FullName:    claims.Name,
		UserName:    claims.Email,
		Email:       claims.Email,
		Picture:     claims.Picture,
		UserType:    domain.UserTypeDevotee,
		AccountType: domain.AccountGoogle,
	}

	_, err = s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, TokenPair{}, err
		}
		profile.CreatedAt = time.Now().UTC()
		if err := s.users.Create(ctx, profile); err != nil {
			return domain.User{}, TokenPair{}, err
		}
	}

	pair, err := s.IssueSession(profile, &TokenPayload{
		UserID:   claims.Subject,
		UserType: domain.UserTypeDevotee,
	})
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return profile, pair, nil
}

// RequestOTP delega en el ciclo de vida del challenge.
func (s *AuthService) RequestOTP(ctx context.Context, emailAddr string) error {
	return s.challenges.Request(ctx, emailAddr)
}

// VerifyOTP valida el código y crea la cuenta OTP en el primer login.
func (s *AuthService) VerifyOTP(ctx context.Context, emailAddr, code string) (domain.User, TokenPair, error) {
	if err := s.challenges.Verify(ctx, emailAddr, code); err != nil {
		return domain.User{}, TokenPair{}, err
	}

	user, err := s.users.GetByUserName(ctx, emailAddr)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, TokenPair{}, err
		}
		user = domain.User{
			UserID:      uuid.NewString(),
			UserName:    emailAddr,
			Email:       emailAddr,
			UserType:    domain.UserTypeDevotee,
			AccountType: domain.AccountOTP,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return domain.User{}, TokenPair{}, err
		}
	}

	pair, err := s.IssueSession(user, nil)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

type RegisterInput struct {
	UserName    string
	Password    string
	FullName    string
	Email       string
	PhoneNumber string
	UserType    domain.UserType
}

// Register crea una cuenta internal. La unicidad de user_name se valida con
// una lectura previa; el store no la garantiza por sí mismo.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	_, err := s.users.GetByUserName(ctx, input.UserName)
	if err == nil {
		return domain.User{}, ErrUserNameTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		FullName:     input.FullName,
		UserName:     input.UserName,
		PasswordHash: string(hash),
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		UserType:     input.UserType,
		AccountType:  domain.AccountInternal,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfile actualiza los campos de perfil de un usuario existente.
func (s *AuthService) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	current, err := s.users.GetByID(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	current.FullName = user.FullName
	current.Email = user.Email
	current.PhoneNumber = user.PhoneNumber
	current.Picture = user.Picture
	if err := s.users.UpdateProfile(ctx, current); err != nil {
		return domain.User{}, err
	}
	return current, nil
}
