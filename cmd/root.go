package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/compozy/ghrelease/pkg/version"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "ghrelease",
	Short: "Create or update a GitHub release and upload its assets",
	Long: `ghrelease runs as a CI step. It creates or updates the GitHub release for the
current tag from INPUT_* and GITHUB_* environment variables, attaches build
artifacts and files to it, and publishes the release url, id, upload_url and
assets as step outputs.`,
	Version:       version.Summary(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRelease(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(newVersionCmd())
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
