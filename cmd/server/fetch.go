package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartcart/backend/internal/infrastructure/fetch"
	"github.com/smartcart/backend/internal/logger"
)

var fetchFlags struct {
	policy   fetch.RetryPolicy
	logLevel string
}

// fetchCmd runs a single resilient fetch and prints the payload
var fetchCmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Fetch a JSON resource with retry and backoff",
	Long: `Fetch a JSON resource with bounded retry, exponential backoff and a
per-attempt timeout, then print the payload.

Examples:
  smartcart fetch http://localhost:5000/daily-offers
  smartcart fetch --retries 3 --initial-delay 500ms --timeout 2s http://localhost:5000/catalog`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	defaults := fetch.DefaultRetryPolicy()
	fetchCmd.Flags().IntVar(&fetchFlags.policy.Retries, "retries", defaults.Retries, "maximum number of attempts")
	fetchCmd.Flags().DurationVar(&fetchFlags.policy.InitialDelay, "initial-delay", defaults.InitialDelay, "delay before the first retry, doubled on each retry")
	fetchCmd.Flags().DurationVar(&fetchFlags.policy.Timeout, "timeout", defaults.Timeout, "per-attempt timeout")
	fetchCmd.Flags().StringVar(&fetchFlags.logLevel, "log-level", "warn", "log level for retry diagnostics")
}

func runFetch(cmd *cobra.Command, args []string) error {
	policy := fetchFlags.policy
	if err := policy.Validate(); err != nil {
		return err
	}

	log, err := logger.NewLogger(fetchFlags.logLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	client := fetch.NewClient(fetch.WithLogger(log))

	var payload json.RawMessage
	if err := client.GetJSON(cmd.Context(), args[0], policy, &payload); err != nil {
		// the fetch errors already name the URL
		return fmt.Errorf("fetch failed (%s): %w", fetch.KindOf(err), err)
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format payload: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
