package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's progress and the gate state",
	RunE:  runStatus,
}

var skipTodayCmd = &cobra.Command{
	Use:   "skip-today",
	Short: "Turn the review gate off until tomorrow",
	RunE:  runSkipToday,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Today:     %d/%d\n", a.gate.Today(ctx), a.gate.Minimum())
	if a.gate.CanClose(ctx) {
		fmt.Println("Gate:      open")
	} else {
		fmt.Printf("Gate:      closed, %d more required\n", a.gate.Remaining(ctx))
	}
	if a.gate.Suppressed() {
		fmt.Printf("Disabled:  until %s\n", a.gate.Config().DisabledUntil.Format("Jan 2 15:04"))
	}

	if n, err := a.outcomes.CountUnreported(ctx); err != nil {
		log.Printf("Failed to count unreported outcomes: %v", err)
	} else if n > 0 {
		fmt.Printf("Unreported: %d outcomes failed to reach WaniKani\n", n)
	}

	if a.cfg.RequireWaniKani() == nil {
		countCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		due, err := a.client.DueCount(countCtx)
		if err != nil {
			fmt.Printf("Due:       unknown (%v)\n", err)
		} else {
			fmt.Printf("Due:       %d\n", due)
		}
	}
	return nil
}

func runSkipToday(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	until, err := a.gate.DisableForToday(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Review gate disabled until %s.\n", until.Format("Jan 2 15:04"))
	return nil
}
