package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/AyyappaSannidhi/backend/internal/domain"
	"github.com/AyyappaSannidhi/backend/internal/email"
)

const (
	challengeTTL         = 600 * time.Second
	maxChallengeRequests = 3
)

var (
	ErrTooManyRequests   = errors.New("too many otp requests")
	ErrChallengeNotFound = errors.New("otp not requested")
	ErrChallengeExpired  = errors.New("otp expired or invalid")
	ErrEmailSendFailure  = errors.New("email send failed")
)

// GenerateOTP produce un código numérico de 4 dígitos con relleno de ceros,
// tomado de una fuente aleatoria criptográfica.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// ChallengeService maneja el ciclo de vida del challenge de OTP: emisión,
// rotación con límite de solicitudes, expiración y verificación.
type ChallengeService struct {
	logger *zap.Logger
	store  ChallengeStore
	sender email.Sender
}

func NewChallengeService(logger *zap.Logger, store ChallengeStore, sender email.Sender) *ChallengeService {
	return &ChallengeService{
		logger: logger,
		store:  store,
		sender: sender,
	}
}

// Request crea o rota el challenge del email y dispara el envío del código.
// Un challenge expirado se sobreescribe como si no existiera. Si el envío de
// correo falla el registro ya rotado se conserva; el fallo no se revierte.
func (s *ChallengeService) Request(ctx context.Context, emailAddr string) error {
	existing, found, err := s.store.Get(ctx, emailAddr)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	active := found && !existing.Expired(now)
	if active && existing.RequestCount > maxChallengeRequests {
		return ErrTooManyRequests
	}

	code, err := GenerateOTP()
	if err != nil {
		return err
	}

	challenge := Challenge{
		Email:        emailAddr,
		CurrentCode:  code,
		RequestCount: 1,
		CreatedAt:    now.Unix(),
		ExpiresAt:    now.Add(challengeTTL).Unix(),
	}
	if active {
		challenge.PreviousCode = existing.CurrentCode
		challenge.RequestCount = existing.RequestCount + 1
	}

	if err := s.store.Put(ctx, challenge, challengeTTL); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nHere is your One Time Password (OTP): %s\nUse this OTP to log in to your account.\nPlease do not share this OTP with anyone.\n",
		emailAddr, code,
	)
	if s.sender == nil {
		return ErrEmailSendFailure
	}
	if err := s.sender.Send(ctx, emailAddr, domain.MsgOTPEmailSubject, body); err != nil {
		if s.logger != nil {
			s.logger.Warn("send otp email failed", zap.Error(err), zap.String("email", emailAddr))
		}
		return ErrEmailSendFailure
	}
	return nil
}

// Verify acepta el código vigente o el inmediatamente anterior mientras el
// challenge siga vivo. Un challenge ausente se distingue de uno vencido para
// que el cliente sepa si debe pedir primero. La verificación no consume el
// challenge; sigue siendo verificable hasta su expiración natural.
func (s *ChallengeService) Verify(ctx context.Context, emailAddr, code string) error {
	existing, found, err := s.store.Get(ctx, emailAddr)
	if err != nil {
		return err
	}
	if !found {
		return ErrChallengeNotFound
	}
	if existing.Expired(time.Now().UTC()) {
		return ErrChallengeExpired
	}
	if code != existing.CurrentCode && (existing.PreviousCode == "" || code != existing.PreviousCode) {
		return ErrChallengeExpired
	}
	return nil
}
