package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Show or change the stored gate settings",
	RunE:  runGate,
}

var (
	gateMinimum      int
	gateSuccessDelay time.Duration
	gateFailureDelay time.Duration
	gateEnable       bool
)

func init() {
	gateCmd.Flags().IntVar(&gateMinimum, "minimum", -1, "Reviews required per day")
	gateCmd.Flags().DurationVar(&gateSuccessDelay, "success-delay", -1, "Pause after a correct answer")
	gateCmd.Flags().DurationVar(&gateFailureDelay, "failure-delay", -1, "Pause after a wrong answer")
	gateCmd.Flags().BoolVar(&gateEnable, "enable", false, "Clear a skip-today opt-out")
}

func runGate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.gate.Config()
	changed := false
	if cmd.Flags().Changed("minimum") {
		if gateMinimum < 0 {
			return fmt.Errorf("--minimum must not be negative")
		}
		cfg.MinimumDaily = gateMinimum
		changed = true
	}
	if cmd.Flags().Changed("success-delay") {
		if gateSuccessDelay < 0 {
			return fmt.Errorf("--success-delay must not be negative")
		}
		cfg.SuccessDelay = gateSuccessDelay
		changed = true
	}
	if cmd.Flags().Changed("failure-delay") {
		if gateFailureDelay < 0 {
			return fmt.Errorf("--failure-delay must not be negative")
		}
		cfg.FailureDelay = gateFailureDelay
		changed = true
	}
	if gateEnable {
		cfg.DisabledUntil = time.Time{}
		changed = true
	}

	if changed {
		if err := a.settings.SaveGateConfig(ctx, cfg); err != nil {
			return err
		}
	}

	fmt.Printf("Minimum:       %d per day\n", cfg.MinimumDaily)
	fmt.Printf("Success delay: %s\n", cfg.SuccessDelay)
	fmt.Printf("Failure delay: %s\n", cfg.FailureDelay)
	if !cfg.DisabledUntil.IsZero() && cfg.DisabledUntil.After(time.Now()) {
		fmt.Printf("Disabled until %s\n", cfg.DisabledUntil.Format("Jan 2 15:04"))
	}
	return nil
}
