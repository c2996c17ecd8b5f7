// Package credential resolves the optional bearer token forwarded to the
// upstream webhook.
package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrMissing is returned when a token is required but none is available.
var ErrMissing = errors.New("credential: webhook token is required but not configured")

// Getter fetches a named secret, e.g. from SSM Parameter Store.
type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// Source yields the bearer token for one upstream call. An empty token with
// a nil error means no credential is configured and none is required.
type Source interface {
	Token(ctx context.Context) (string, error)
}

// Static returns a fixed token.
type Static struct {
	token    string
	required bool
}

func NewStatic(token string, required bool) *Static {
	return &Static{token: strings.TrimSpace(token), required: required}
}

func (s *Static) Token(_ context.Context) (string, error) {
	if s.token == "" && s.required {
		return "", ErrMissing
	}
	return s.token, nil
}

// Parameter fetches the token from a Getter on first use and caches it for the
// lifetime of the process. Failed lookups are not cached.
type Parameter struct {
	getter   Getter
	name     string
	required bool

	mu     sync.Mutex
	loaded bool
	token  string
}

func NewParameter(getter Getter, name string, required bool) (*Parameter, error) {
	if getter == nil {
		return nil, errors.New("credential: getter must not be nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("credential: parameter name must not be empty")
	}
	return &Parameter{getter: getter, name: name, required: required}, nil
}

func (p *Parameter) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		raw, err := p.getter.GetParameter(ctx, p.name)
		if err != nil {
			return "", fmt.Errorf("credential: fetch %q: %w", p.name, err)
		}
		p.token = parseToken(raw)
		p.loaded = true
	}
	if p.token == "" && p.required {
		return "", ErrMissing
	}
	return p.token, nil
}

// parseToken accepts either a bare token or a JSON object {"token": "..."}.
func parseToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		var tp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal([]byte(raw), &tp); err == nil {
			return strings.TrimSpace(tp.Token)
		}
	}
	return raw
}
