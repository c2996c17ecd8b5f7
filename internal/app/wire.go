// Package app assembles the relay handler from configuration. Both service
// binaries share it.
package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/qowq/IBuddy/handler"
	"github.com/qowq/IBuddy/internal/alert"
	"github.com/qowq/IBuddy/internal/config"
	"github.com/qowq/IBuddy/internal/credential"
	"github.com/qowq/IBuddy/internal/integrations/paramstore"
	"github.com/qowq/IBuddy/internal/integrations/webhook"
	"github.com/qowq/IBuddy/internal/usecase"
)

// NewHandler wires the webhook client, credential source, alert notifier and
// relay service behind a handler.
func NewHandler(ctx context.Context, cfg config.Config) (*handler.Handler, error) {
	client, err := webhook.NewClient(cfg.WebhookURL, webhook.WithTimeout(cfg.WebhookTimeout))
	if err != nil {
		return nil, err
	}

	tokens, err := NewCredentialSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := usecase.NewRelayService(client, tokens, alert.New(cfg.AlertWebhookURL, cfg.AlertTimeout))
	if err != nil {
		return nil, err
	}

	return handler.NewHandler(svc, handler.WithUpstreamStatusPassThrough(cfg.PassThroughUpstreamStatus))
}

// NewCredentialSource reads the token from SSM when WEBHOOK_TOKEN_PARAM is set
// and from WEBHOOK_TOKEN otherwise. AWS configuration is only loaded in the
// first case.
func NewCredentialSource(ctx context.Context, cfg config.Config) (credential.Source, error) {
	if cfg.WebhookTokenParam == "" {
		return credential.NewStatic(cfg.WebhookToken, cfg.RequireWebhookToken), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: load AWS config: %w", err)
	}
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, err
	}
	return credential.NewParameter(ssmClient, cfg.WebhookTokenParam, cfg.RequireWebhookToken)
}
