package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"shared-ledger-go/internal/app"
	ratesdomain "shared-ledger-go/internal/domain/rates"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Manage stored exchange rates",
}

var ratesImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge USD-relative day rates from a JSON file",
	Long: `Reads a JSON object keyed by day and merges it into the stored months:

  {"2025-03-14": {"EUR": 0.92, "GBP": 0.78}}

Reads standard input when the file is "-" or omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRatesImport,
}

func runRatesImport(cmd *cobra.Command, args []string) error {
	days, err := readDayRates(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return fmt.Errorf("no rates in input")
	}

	application, err := app.New(log)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer application.Close()

	months, err := application.ImportRates(cmd.Context(), days)
	if err != nil {
		return fmt.Errorf("import rates: %w", err)
	}
	log.Info("rates: imported", "days", len(days), "months", months)
	return nil
}

func readDayRates(stdin io.Reader, args []string) (ratesdomain.MonthlyRates, error) {
	input := stdin
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer file.Close()
		input = file
	}

	var days ratesdomain.MonthlyRates
	if err := json.NewDecoder(input).Decode(&days); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	return days, nil
}
