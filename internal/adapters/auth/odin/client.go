package odin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/platform/httpclient"
	"pet-adoption/internal/ports/auth"
)

var (
	ErrOdinNotConfigured = errors.New("odin client not configured")
	ErrOdinUnauthorized  = errors.New("odin unauthorized")
	ErrOdinUpstream      = errors.New("odin upstream error")
)

const verifyPath = "/v1/tokens/verify"

// Config del cliente Odin (IAM). Viene de config.OdinConfig.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	http       *httpclient.Client
	configured bool
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.New(httpclient.Options{
		BaseURL: cfg.BaseURL,
		Timeout: timeout,
		Headers: map[string]string{h: strings.TrimSpace(cfg.APIKey)},
	})
	if err != nil {
		return nil, fmt.Errorf("odin: %w", err)
	}

	return &Client{
		http:       hc,
		configured: hc.BaseURL != "" && strings.TrimSpace(cfg.APIKey) != "",
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.configured
}

type verifyResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

// VerifyToken llama a Odin para verificar un token y traer claims.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrOdinUnauthorized
	}

	var out verifyResponse
	err := c.http.DoJSON(ctx, http.MethodPost, verifyPath,
		map[string]string{"Authorization": "Bearer " + token},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && (he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden) {
			return auth.Claims{}, ErrOdinUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrOdinUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrOdinUpstream)
	}

	return auth.Claims{
		UserID:   out.UserID,
		Email:    strings.TrimSpace(out.Email),
		TenantID: strings.TrimSpace(out.TenantID),
		Role:     auth.ParseRole(out.Role),
	}, nil
}
