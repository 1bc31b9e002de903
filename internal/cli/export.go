package cli

import (
	"fmt"
	"time"

	"github.com/example/kanjigate/internal/excel"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export review history to .xlsx or .csv",
	RunE:  runExport,
}

var (
	exportOut  string
	exportDays int
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "kanjigate.xlsx", "Output file (.xlsx or .csv)")
	exportCmd.Flags().IntVar(&exportDays, "days", 30, "Number of days to export")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportDays < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	days, err := a.ledger.History(ctx, exportDays)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	since := time.Now().AddDate(0, 0, -exportDays)
	outcomes, err := a.outcomes.List(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to load outcomes: %w", err)
	}

	if err := excel.Export(exportOut, days, outcomes); err != nil {
		return err
	}
	fmt.Printf("Exported %d days and %d outcomes to %s\n", len(days), len(outcomes), exportOut)
	return nil
}
