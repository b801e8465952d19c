package cli

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "quiz-submission-service",
		Short:        "Quiz and survey submission backend",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&port, "port", "", "port to listen on (overrides server.port and PORT)")
	flags.StringVar(&configPath, "config", configPathFromEnv(), "path to YAML config")

	cmd.AddCommand(
		NewStartCmd(&configPath, &port),
		NewMigrateCmd(&configPath),
		NewQuizCmd(&configPath),
	)
	return cmd
}

// configPathFromEnv lets CONFIG_PATH replace the default config location.
func configPathFromEnv() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultConfigPath
}
