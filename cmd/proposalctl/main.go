// Command proposalctl работает с шаблонами и документами без HTTP сервера.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cosguru/fracpropgen/internal/logger"
)

const appName = "proposalctl"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Fractional executive proposal toolkit",
		Long: `proposalctl lists persona templates, renders proposals to .docx
and runs the full generation pipeline from a YAML form.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel)
			logger.SetTextFormatter()
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(templatesCmd())
	cmd.AddCommand(renderCmd())
	cmd.AddCommand(generateCmd())
	return cmd
}
