// Package main provides leadstats, a terminal view of the lead dashboard.
//
// It loads analytics from the API and falls back to aggregating raw leads,
// then to synthetic data, exactly like the web dashboard.
//
//	leadstats dashboard --api-url http://localhost:8080 --token $TOKEN --start 2024-01-01
//	leadstats leads --search ravi
//
// # Environment Variables
//
//   - LEADSTATS_API_URL: API base URL (default: http://localhost:8080)
//   - LEADSTATS_TOKEN: access token sent as a Bearer credential
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := buildRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

type globalOptions struct {
	apiURL   string
	token    string
	logLevel string
}

func buildRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "leadstats",
		Short:         "Lead dashboard in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", envOr("LEADSTATS_API_URL", "http://localhost:8080"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("LEADSTATS_TOKEN"), "Access token")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		buildDashboardCmd(opts),
		buildLeadsCmd(opts),
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
