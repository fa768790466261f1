package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Challenge es el registro de OTP vivo para un email. Conserva el código
// anterior una generación para tolerar entregas en vuelo, y un contador de
// solicitudes que limita re-envíos.
type Challenge struct {
	Email        string `json:"email"`
	CurrentCode  string `json:"current_code"`
	PreviousCode string `json:"previous_code,omitempty"`
	RequestCount int    `json:"request_count"`
	CreatedAt    int64  `json:"created_at"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Expired indica si el registro ya pasó su tiempo de vida. La verificación
// nunca confía en que el backend haya borrado la key a tiempo.
func (c Challenge) Expired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}

// ChallengeStore guarda challenges con expiración, una por email.
type ChallengeStore interface {
	Get(ctx context.Context, email string) (Challenge, bool, error)
	Put(ctx context.Context, challenge Challenge, ttl time.Duration) error
}

type memoryChallengeStore struct {
	mu    sync.Mutex
	items map[string]Challenge
}

// NewMemoryChallengeStore crea un store en memoria para desarrollo y tests.
func NewMemoryChallengeStore() ChallengeStore {
	return &memoryChallengeStore{items: make(map[string]Challenge)}
}

func (s *memoryChallengeStore) Get(_ context.Context, email string) (Challenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.items[email]
	if !ok {
		return Challenge{}, false, nil
	}
	return ch, true, nil
}

func (s *memoryChallengeStore) Put(_ context.Context, challenge Challenge, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[challenge.Email] = challenge
	return nil
}

type redisChallengeStore struct {
	client *redis.Client
	prefix string
}

// NewRedisChallengeStore crea un store respaldado en redis. El TTL de la key
// delega en redis la limpieza de challenges vencidos.
func NewRedisChallengeStore(client *redis.Client, prefix string) ChallengeStore {
	if client == nil {
		return nil
	}
	if prefix == "" {
		prefix = "otp:challenge:"
	}
	return &redisChallengeStore{client: client, prefix: prefix}
}

func (s *redisChallengeStore) Get(ctx context.Context, email string) (Challenge, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	raw, err := s.client.Get(ctx, s.prefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return Challenge{}, false, nil
	}
	if err != nil {
		return Challenge{}, false, err
	}
	var ch Challenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return Challenge{}, false, err
	}
	return ch, true, nil
}

func (s *redisChallengeStore) Put(ctx context.Context, challenge Challenge, ttl time.Duration) error {
	raw, err := json.Marshal(challenge)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Set(ctx, s.prefix+challenge.Email, raw, ttl).Err()
}
