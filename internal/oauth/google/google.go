// Package google verifica tokens de identidad emitidos por Google contra el
// endpoint público de tokeninfo.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var ErrTokenNotVerified = errors.New("google token not verified")

// Claims es la identidad verificada que interesa al resto del sistema.
type Claims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Verifier valida un id_token opaco y devuelve la identidad asociada.
type Verifier struct {
	clientID string
	endpoint string
	http     *http.Client
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{
		clientID: clientID,
		endpoint: tokenInfoURL,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// NewVerifierWithEndpoint permite apuntar a un endpoint alternativo en tests.
func NewVerifierWithEndpoint(clientID, endpoint string) *Verifier {
	v := NewVerifier(clientID)
	v.endpoint = endpoint
	return v
}

type tokenInfoResponse struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (v *Verifier) Verify(ctx context.Context, idToken string) (Claims, error) {
	if idToken == "" {
		return Claims{}, ErrTokenNotVerified
	}

	endpoint := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Claims{}, err
	}
	resp, err := v.http.Do(req)
	if err != nil {
		return Claims{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Claims{}, fmt.Errorf("%w: tokeninfo http %d", ErrTokenNotVerified, resp.StatusCode)
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Claims{}, err
	}
	if v.clientID != "" && info.Aud != v.clientID {
		return Claims{}, fmt.Errorf("%w: audience mismatch", ErrTokenNotVerified)
	}
	if info.Sub == "" {
		return Claims{}, ErrTokenNotVerified
	}

	return Claims{
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}
