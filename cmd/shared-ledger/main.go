package main

import (
	"os"

	"github.com/spf13/cobra"
	"shared-ledger-go/pkg/logger"
)

var log = logger.NewFromEnv()

var rootCmd = &cobra.Command{
	Use:           "shared-ledger",
	Short:         "Shared household ledger API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	ratesCmd.AddCommand(ratesImportCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ratesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Critical("app: command failed", "err", err)
		os.Exit(1)
	}
}
