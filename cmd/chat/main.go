package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/qowq/IBuddy/internal/integrations/relayapi"
	"github.com/qowq/IBuddy/internal/session"
	"github.com/qowq/IBuddy/internal/terminal"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	endpoint := flag.String("endpoint", "", "relay endpoint base URL (overrides config)")
	token := flag.String("token", "", "auth token forwarded with each message (overrides config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg, err := terminal.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *token != "" {
		cfg.AuthToken = *token
	}

	client, err := relayapi.NewClient(cfg.Endpoint,
		relayapi.WithChatPath(cfg.ChatPath),
		relayapi.WithFeedbackPath(cfg.FeedbackPath),
	)
	if err != nil {
		slog.Error("failed to create relay client", "err", err)
		os.Exit(1)
	}

	view := terminal.NewView(os.Stdout, cfg.Width)
	sess, err := session.New(client, view, session.WithAuthToken(cfg.AuthToken))
	if err != nil {
		slog.Error("failed to create session", "err", err)
		os.Exit(1)
	}

	repl, err := terminal.NewREPL(sess, view, os.Stdout)
	if err != nil {
		slog.Error("failed to create terminal", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := repl.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		slog.Error("terminal stopped", "err", err)
		os.Exit(1)
	}
}
