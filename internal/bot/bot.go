// Package bot hosts review sessions in a Telegram chat and sends review
// reminders to it.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/kanjigate/internal/gate"
	"github.com/example/kanjigate/internal/session"
	"github.com/example/kanjigate/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of the Telegram API the bot uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot represents the Telegram bot application. Updates and timer callbacks
// are handled one at a time on the goroutine running Run.
type Bot struct {
	api    *tgbotapi.BotAPI
	sender sender
	config *BotConfig

	ctrl *session.Controller
	gate *gate.Policy

	events    chan func()
	done      chan struct{}
	afterFunc func(d time.Duration, fn func())

	// answers collected for the presented item
	item        models.ReviewItem
	meaning     string
	haveMeaning bool
	closeShown  bool
}

// New connects to Telegram with token
func New(token string, config *BotConfig) (*Bot, error) {
	if config == nil {
		config = DefaultConfig()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	b := newBot(api, config)
	b.api = api
	return b, nil
}

func newBot(s sender, config *BotConfig) *Bot {
	b := &Bot{
		sender: s,
		config: config,
		events: make(chan func(), 16),
		done:   make(chan struct{}),
	}
	b.afterFunc = func(d time.Duration, fn func()) {
		time.AfterFunc(d, func() { b.post(fn) })
	}
	return b
}

// Attach sets the controller driven by this chat. The controller must use
// the bot as its Host and Timer.
func (b *Bot) Attach(ctrl *session.Controller, policy *gate.Policy) {
	b.ctrl = ctrl
	b.gate = policy
}

// Start polls Telegram for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("bot is not connected")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.PollTimeout
	updates := b.api.GetUpdatesChan(updateConfig)
	defer b.api.StopReceivingUpdates()

	log.Println("Bot started")
	b.Run(ctx, updates)
	log.Println("Bot stopped")
	return nil
}

// Run is the event loop: it handles updates and timer callbacks in order
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		case fn := <-b.events:
			fn()
		}
	}
}

// post queues fn on the event loop; dropped once the loop has stopped
func (b *Bot) post(fn func()) {
	select {
	case b.events <- fn:
	case <-b.done:
	}
}

// DisableForToday turns the gate off through the session controller on the
// event loop, so an open chat session is closed too. It waits for the result.
// Once the loop has stopped only the gate is changed.
func (b *Bot) DisableForToday(ctx context.Context) error {
	result := make(chan error, 1)
	fn := func() { result <- b.ctrl.DisableForToday(ctx) }
	select {
	case b.events <- fn:
	case <-b.done:
		return b.disableGate(ctx)
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-b.done:
		select {
		case err := <-result:
			return err
		default:
			return b.disableGate(ctx)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) disableGate(ctx context.Context) error {
	_, err := b.gate.DisableForToday(ctx)
	return err
}

// After implements session.Timer
func (b *Bot) After(d time.Duration, fn func()) {
	b.afterFunc(d, fn)
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(due, remaining int) error {
	text := fmt.Sprintf("📚 %d %s waiting. %d more to reach today's goal. Send /review to start.",
		due, plural(due, "review", "reviews"), remaining)
	if err := b.send(text); err != nil {
		log.Printf("Error sending reminder to chat %d: %v", b.config.ChatID, err)
		return err
	}
	log.Printf("Successfully sent reminder for %d due reviews", due)
	return nil
}

// Notify implements session.Host
func (b *Bot) Notify(message string) {
	b.reply(message)
}

// Celebrate implements session.Host
func (b *Bot) Celebrate() {
	b.reply("🎉 Daily goal reached!")
}

// ShowCloseButton implements session.Host. The chat only hears about it
// when closing becomes possible.
func (b *Bot) ShowCloseButton(visible bool) {
	if visible && !b.closeShown {
		b.reply("You can /close the session now.")
	}
	b.closeShown = visible
}

// Present implements session.Host
func (b *Bot) Present(item models.ReviewItem) {
	b.item = item
	b.meaning = ""
	b.haveMeaning = false
	b.reply(prompt(item, item.RequiresMeaning()))
}

// Closed implements session.Host
func (b *Bot) Closed(final session.State) {
	b.item = models.ReviewItem{}
	b.closeShown = false
	if final == session.StateComplete {
		b.reply("Session finished. See you next time!")
		return
	}
	b.reply("Session closed.")
}

func prompt(item models.ReviewItem, askMeaning bool) string {
	var text strings.Builder
	fmt.Fprintf(&text, "%s  (%s)\n", item.Characters, kindLabel(item.Kind))
	if askMeaning {
		text.WriteString("Meaning?")
	} else {
		text.WriteString("Reading? (romaji is fine)")
	}
	return text.String()
}

func kindLabel(k models.SubjectKind) string {
	switch k {
	case models.KindKanaVocabulary:
		return "vocabulary"
	case "":
		return "item"
	}
	return string(k)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (b *Bot) reply(text string) {
	if err := b.send(text); err != nil {
		log.Printf("Error sending message to chat %d: %v", b.config.ChatID, err)
	}
}

func (b *Bot) send(text string) error {
	msg := tgbotapi.NewMessage(b.config.ChatID, text)
	_, err := b.sender.Send(msg)
	return err
}
