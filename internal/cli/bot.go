package cli

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/kanjigate/internal/bot"
	"github.com/example/kanjigate/internal/scheduler"
	"github.com/example/kanjigate/internal/session"
	"github.com/example/kanjigate/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run review sessions and reminders in Telegram",
	RunE:  runBot,
}

var botWithHTTP bool

func init() {
	botCmd.Flags().BoolVar(&botWithHTTP, "http", false, "Also serve the gate status API on HTTP_ADDR")
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.cfg.RequireWaniKani(); err != nil {
		return err
	}
	if err := a.cfg.RequireTelegram(); err != nil {
		return err
	}

	botCfg := bot.DefaultConfig()
	botCfg.ChatID = a.cfg.TelegramChatID
	b, err := bot.New(a.cfg.TelegramToken, botCfg)
	if err != nil {
		return err
	}

	reporter := a.newReporter()
	defer reporter.Close()
	b.Attach(session.NewController(a.client, a.gate, a.ledger, reporter, b, b), a.gate)

	sched := scheduler.New(b, a.client, a.gate, a.cfg.NotificationStartHour, a.cfg.NotificationEndHour)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()
	log.Println("Reminder scheduler started successfully")

	if botWithHTTP {
		srv := newWebServer(a)
		srv.SetSkipToday(b.DisableForToday)
		go func() {
			if err := srv.Run(a.cfg.HTTPAddr); err != nil {
				log.Printf("HTTP server stopped: %v", err)
			}
		}()
		defer shutdown(srv)
	}

	return b.Start(ctx)
}

// newWebServer builds the gate API in release mode
func newWebServer(a *app) *web.Server {
	gin.SetMode(gin.ReleaseMode)
	return web.NewServer(a.gate, a.ledger)
}

func shutdown(srv *web.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
