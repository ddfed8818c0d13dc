// Package auth verifies federated identity tokens and carries the resulting
// identity as an explicit value. Domain systems receive a Context argument;
// nothing reads ambient session state.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Context is the verified identity of the requesting patient.
type Context struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Valid reports whether the identity carries a user ID.
func (c Context) Valid() bool {
	return c.UserID != ""
}

// System verifies raw bearer tokens into identity contexts.
type System interface {
	Verify(ctx context.Context, rawToken string) (Context, error)
}

type verifier struct {
	verifier *oidc.IDTokenVerifier
	logger   *slog.Logger
}

// New creates an auth system that verifies tokens against the configured
// OIDC issuer. Discovery runs immediately; the issuer must be reachable.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}

	return &verifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		logger:   logger.With("system", "auth"),
	}, nil
}

func (v *verifier) Verify(ctx context.Context, rawToken string) (Context, error) {
	if strings.TrimSpace(rawToken) == "" {
		return Context{}, ErrMissingToken
	}

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return Context{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := token.Claims(&claims); err != nil {
		v.logger.Warn("token claims parse failed", "error", err)
	}

	return Context{
		UserID: token.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

type contextKey struct{}

// WithContext returns a request context carrying the verified identity.
func WithContext(ctx context.Context, identity Context) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// FromContext extracts the verified identity from a request context.
func FromContext(ctx context.Context) (Context, bool) {
	identity, ok := ctx.Value(contextKey{}).(Context)
	return identity, ok && identity.Valid()
}
