// Package botcheck valida tokens de desafío anti-bot contra un servicio
// externo estilo Turnstile.
package botcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNotVerified = errors.New("bot check not verified")

// Verifier decide si un response token de captcha corresponde a un humano.
type Verifier interface {
	Verify(ctx context.Context, responseToken string) error
}

// TurnstileVerifier consulta el endpoint siteverify con el secreto del sitio.
type TurnstileVerifier struct {
	secret   string
	endpoint string
	http     *http.Client
}

func NewTurnstileVerifier(secret, endpoint string) *TurnstileVerifier {
	return &TurnstileVerifier{
		secret:   secret,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *TurnstileVerifier) Verify(ctx context.Context, responseToken string) error {
	if strings.TrimSpace(responseToken) == "" {
		return ErrNotVerified
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {responseToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrNotVerified
	}
	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if !result.Success {
		return ErrNotVerified
	}
	return nil
}
