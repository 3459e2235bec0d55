package cli

import (
	"github.com/spf13/cobra"

	"github.com/inboxeng/deploykit/pkg/config"
	"github.com/inboxeng/deploykit/pkg/logger"
)

// RootCmd builds the deploykit command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "deploykit",
		Short:        "Generate deployable email-automation configurations",
		Long:         "deploykit merges per-category schema fragments and injects them into a deployment template.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}
			logger.SetupLogger(logLevel, logJSON, logSource)
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Log in JSON format")
	root.PersistentFlags().Bool("log-source", false, "Add source location to log output")
	root.PersistentFlags().String("store", "", "Schema fragment store directory (overrides configuration)")

	root.AddCommand(
		DeployCmd(),
		ValidateCmd(),
	)
	return root
}

// loadConfig resolves the application configuration and applies the
// --store flag override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewService().Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	if store, err := cmd.Flags().GetString("store"); err == nil && store != "" {
		cfg.Store.Dir = store
	}
	return cfg, nil
}
