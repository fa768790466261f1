package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go.uber.org/zap"
)

type mockSender struct {
	codes []string
	err   error
}

var otpCodeRe = regexp.MustCompile(`\(OTP\): (\d{4})`)

func (m *mockSender) Send(_ context.Context, _, _, body string) error {
	if m.err != nil {
		return m.err
	}
	match := otpCodeRe.FindStringSubmatch(body)
	if len(match) == 2 {
		m.codes = append(m.codes, match[1])
	}
	return nil
}

func newTestChallengeService(sender *mockSender) (*ChallengeService, ChallengeStore) {
	store := NewMemoryChallengeStore()
	return NewChallengeService(zap.NewNop(), store, sender), store
}

func TestGenerateOTPWidth(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("expected 4-digit code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected numeric code, got %q", code)
			}
		}
	}
}

func TestChallengeRotationKeepsPreviousCode(t *testing.T) {
	sender := &mockSender{}
	svc, _ := newTestChallengeService(sender)
	ctx := context.Background()

	if err := svc.Request(ctx, "a@b.com"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if err := svc.Request(ctx, "a@b.com"); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if len(sender.codes) != 2 {
		t.Fatalf("expected 2 codes sent, got %d", len(sender.codes))
	}

	// El código de la primera generación sigue siendo válido tras una rotación.
	if err := svc.Verify(ctx, "a@b.com", sender.codes[0]); err != nil {
		t.Fatalf("expected previous code to verify, got %v", err)
	}
	if err := svc.Verify(ctx, "a@b.com", sender.codes[1]); err != nil {
		t.Fatalf("expected current code to verify, got %v", err)
	}

	// Tras una segunda rotación el primer código queda fuera de la ventana.
	if err := svc.Request(ctx, "a@b.com"); err != nil {
		t.Fatalf("third request: %v", err)
	}
	if sender.codes[0] == sender.codes[1] || sender.codes[0] == sender.codes[2] {
		t.Skip("random codes collided, cannot assert rejection")
	}
	if err := svc.Verify(ctx, "a@b.com", sender.codes[0]); !errors.Is(err, ErrChallengeExpired) {
		t.Fatalf("expected first code rejected after two rotations, got %v", err)
	}
}

func TestChallengeRateLimit(t *testing.T) {
	sender := &mockSender{}
	svc, store := newTestChallengeService(sender)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := svc.Request(ctx, "a@b.com"); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}

	before, _, err := store.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if before.RequestCount != 4 {
		t.Fatalf("expected request count 4, got %d", before.RequestCount)
	}

	if err := svc.Request(ctx, "a@b.com"); !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}

	// El rechazo no muta el registro.
	after, _, err := store.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after != before {
		t.Fatalf("expected challenge unchanged after rejection, got %+v", after)
	}
	if len(sender.codes) != 4 {
		t.Fatalf("expected no email on rejected request, got %d sends", len(sender.codes))
	}
}

func TestChallengeVerifyAbsentAndExpired(t *testing.T) {
	sender := &mockSender{}
	svc, store := newTestChallengeService(sender)
	ctx := context.Background()

	if err := svc.Verify(ctx, "nobody@b.com", "0000"); !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}

	now := time.Now().UTC()
	stale := Challenge{
		Email:        "a@b.com",
		CurrentCode:  "1234",
		RequestCount: 1,
		CreatedAt:    now.Add(-20 * time.Minute).Unix(),
		ExpiresAt:    now.Add(-10 * time.Minute).Unix(),
	}
	if err := store.Put(ctx, stale, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Aun con el código correcto, un challenge vencido no verifica.
	if err := svc.Verify(ctx, "a@b.com", "1234"); !errors.Is(err, ErrChallengeExpired) {
		t.Fatalf("expected ErrChallengeExpired, got %v", err)
	}
}

func TestChallengeExpiredTreatedAsAbsentOnRequest(t *testing.T) {
	sender := &mockSender{}
	svc, store := newTestChallengeService(sender)
	ctx := context.Background()

	now := time.Now().UTC()
	stale := Challenge{
		Email:        "a@b.com",
		CurrentCode:  "1234",
		RequestCount: 9,
		CreatedAt:    now.Add(-20 * time.Minute).Unix(),
		ExpiresAt:    now.Add(-10 * time.Minute).Unix(),
	}
	if err := store.Put(ctx, stale, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	// El contador alto del registro vencido no bloquea; se sobreescribe.
	if err := svc.Request(ctx, "a@b.com"); err != nil {
		t.Fatalf("request over expired challenge: %v", err)
	}
	fresh, _, err := store.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fresh.RequestCount != 1 || fresh.PreviousCode != "" {
		t.Fatalf("expected fresh challenge, got %+v", fresh)
	}
}

func TestChallengeEmailFailureKeepsRecord(t *testing.T) {
	sender := &mockSender{err: errors.New("smtp down")}
	svc, store := newTestChallengeService(sender)
	ctx := context.Background()

	if err := svc.Request(ctx, "a@b.com"); !errors.Is(err, ErrEmailSendFailure) {
		t.Fatalf("expected ErrEmailSendFailure, got %v", err)
	}

	// El registro ya escrito no se revierte.
	_, found, err := store.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatalf("expected challenge retained after email failure")
	}
}
