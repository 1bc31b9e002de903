package cli

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gate status API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := newWebServer(a)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(a.cfg.HTTPAddr) }()
	log.Printf("Serving gate status on %s", a.cfg.HTTPAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("Stopping HTTP server...")
		shutdown(srv)
		return nil
	}
}
