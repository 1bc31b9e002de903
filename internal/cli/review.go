package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/example/kanjigate/internal/gate"
	"github.com/example/kanjigate/internal/session"
	"github.com/example/kanjigate/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run a review session in the terminal",
	RunE:  runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.cfg.RequireWaniKani(); err != nil {
		return err
	}

	// keep log lines off the alternate screen
	if f, err := tea.LogToFile(logPath(), "kanjigate"); err == nil {
		defer f.Close()
	}

	reporter := a.newReporter()
	defer reporter.Close()

	host := tui.NewHost()
	ctrl := session.NewController(a.client, a.gate, a.ledger, reporter, host, host)
	started, err := openSession(ctx, os.Stdout, ctrl, host, a.gate)
	if err != nil || !started {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx, ctrl, a.gate, host), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal session failed: %w", err)
	}

	final, _ := host.Final()
	fmt.Printf("Session %s: %d reviewed, today %d/%d.\n", final, ctrl.Completed(), a.gate.Today(ctx), a.gate.Minimum())
	return nil
}

// openSession starts a session and prints the outcome when there is nothing
// to review. It reports whether a session is running.
func openSession(ctx context.Context, w io.Writer, ctrl *session.Controller, host *tui.Host, policy *gate.Policy) (bool, error) {
	if err := ctrl.Open(ctx); err != nil {
		if errors.Is(err, session.ErrSuppressed) {
			fmt.Fprintf(w, "Review gate is off until %s.\n", policy.Config().DisabledUntil.Format("Jan 2 15:04"))
			return false, nil
		}
		if notice := host.Notice(); notice != "" {
			fmt.Fprintln(w, notice)
		}
		return false, err
	}
	if !ctrl.Active() {
		fmt.Fprintln(w, host.Notice())
		return false, nil
	}
	return true, nil
}

func logPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "kanjigate.log"
	}
	dir = filepath.Join(dir, "kanjigate")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Failed to create log directory: %v", err)
		return "kanjigate.log"
	}
	return filepath.Join(dir, "kanjigate.log")
}
