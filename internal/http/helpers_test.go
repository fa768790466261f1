package http

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/AyyappaSannidhi/backend/internal/config"
	"github.com/AyyappaSannidhi/backend/internal/domain"
	"github.com/AyyappaSannidhi/backend/internal/service"
)

type mockUserRepo struct {
	usersByID       map[string]domain.User
	usersByUserName map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:       make(map[string]domain.User),
		usersByUserName: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.UserID] = user
	if user.UserName != "" {
		m.usersByUserName[user.UserName] = user.UserID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, userID string) (domain.User, error) {
	user, ok := m.usersByID[userID]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByUserName(_ context.Context, userName string) (domain.User, error) {
	id, ok := m.usersByUserName[userName]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user domain.User) error {
	current, ok := m.usersByID[user.UserID]
	if !ok {
		return pgx.ErrNoRows
	}
	current.FullName = user.FullName
	current.Email = user.Email
	current.PhoneNumber = user.PhoneNumber
	current.Picture = user.Picture
	m.usersByID[user.UserID] = current
	return nil
}

type mockSender struct {
	codes []string
	err   error
}

var otpCodeRe = regexp.MustCompile(`\(OTP\): (\d{4})`)

func (m *mockSender) Send(_ context.Context, _, _, body string) error {
	if m.err != nil {
		return m.err
	}
	if match := otpCodeRe.FindStringSubmatch(body); len(match) == 2 {
		m.codes = append(m.codes, match[1])
	}
	return nil
}

type testEnv struct {
	router *gin.Engine
	repo   *mockUserRepo
	sender *mockSender
	tokens *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMockUserRepo()
	sender := &mockSender{}
	tokens := service.NewTokenService("secret", "HS256", 30*time.Minute, 60*time.Minute)
	challenges := service.NewChallengeService(zap.NewNop(), service.NewMemoryChallengeStore(), sender)
	authSvc := service.NewAuthService(zap.NewNop(), repo, tokens, challenges, nil)

	cfg := &config.Config{AppEnv: "LOCAL", BotProtection: false}
	router := NewRouter(
		zap.NewNop(),
		cfg,
		tokens,
		nil,
		NewAuthHandler(zap.NewNop(), authSvc),
		NewUserHandler(zap.NewNop(), authSvc),
	)
	return &testEnv{router: router, repo: repo, sender: sender, tokens: tokens}
}
