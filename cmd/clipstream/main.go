package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clipstream/clipstream/internal/api"
	"github.com/clipstream/clipstream/internal/config"
	"github.com/clipstream/clipstream/internal/credstore"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	})))

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	if os.Getenv("CLIPSTREAM_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clipstream",
		Short:         "Terminal client for the ClipStream video-sharing service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newFeedCmd(),
		newWatchCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newRegisterCmd(),
		newActivateCmd(),
	)
	return root
}

// setup wires the shared client and credential store from configuration.
func setup() (*api.Client, *credstore.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}
	creds := credstore.New(cfg.TokenPath)
	return api.New(cfg.BaseURL, creds), creds, cfg, nil
}
