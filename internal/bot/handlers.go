package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/example/kanjigate/internal/kana"
	"github.com/example/kanjigate/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `Commands:
/review - start a review session
/close - end the session once today's goal is met
/escape - leave the session right away
/skiptoday - turn the gate off until tomorrow
/status - show today's progress`

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Chat == nil {
		return
	}
	if message.Chat.ID != b.config.ChatID {
		log.Printf("Ignoring message from unknown chat %d", message.Chat.ID)
		return
	}

	var err error
	if message.IsCommand() {
		err = b.HandleCommand(ctx, message)
	} else {
		err = b.handleAnswer(ctx, message.Text)
	}
	if err != nil {
		log.Printf("Error handling message: %v", err)
	}
}

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	var err error
	switch message.Command() {
	case "start", "help":
		b.reply("Welcome to kanjigate! Finish your reviews to unlock your notes.\n\n" + helpText)
	case "review":
		err = b.handleReview(ctx)
	case "close":
		err = b.handleClose(ctx)
	case "escape":
		b.ctrl.EmergencyExit()
	case "skiptoday":
		err = b.ctrl.DisableForToday(ctx)
	case "status":
		b.handleStatus(ctx)
	default:
		b.reply("Unknown command.\n\n" + helpText)
	}
	return err
}

func (b *Bot) handleReview(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, b.config.FetchTimeout)
	defer cancel()

	err := b.ctrl.Open(fetchCtx)
	switch {
	case errors.Is(err, session.ErrSessionActive):
		b.reply("A session is already running.")
		return nil
	case errors.Is(err, session.ErrSuppressed):
		b.reply("The gate is off for today. Enjoy!")
		return nil
	}
	return err
}

func (b *Bot) handleClose(ctx context.Context) error {
	err := b.ctrl.RequestClose(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		b.reply("No session is running.")
		return nil
	case errors.Is(err, session.ErrGateClosed):
		// the controller already told the user what is left
		return nil
	}
	return err
}

func (b *Bot) handleStatus(ctx context.Context) {
	var text strings.Builder
	fmt.Fprintf(&text, "Today: %d/%d", b.gate.Today(ctx), b.gate.Minimum())
	if left := b.gate.Remaining(ctx); left > 0 {
		fmt.Fprintf(&text, " (%d to go)", left)
	} else {
		text.WriteString(" ✅")
	}
	if b.gate.Suppressed() {
		fmt.Fprintf(&text, "\nGate off until %s", b.gate.Config().DisabledUntil.Format("Jan 2 15:04"))
	}
	if b.ctrl.Active() {
		fmt.Fprintf(&text, "\nSession: %s, %d done, %d queued", b.ctrl.State(), b.ctrl.Completed(), b.ctrl.Remaining())
	}
	b.reply(text.String())
}

// handleAnswer fills the meaning field, then the reading field, and
// submits once every required field has a value.
func (b *Bot) handleAnswer(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if b.ctrl.State() != session.StatePresenting {
		if b.ctrl.Active() {
			// between items
			return nil
		}
		b.reply("No review is waiting. Send /review to start.")
		return nil
	}

	item := b.item
	var reading string
	switch {
	case item.RequiresMeaning() && !b.haveMeaning:
		b.meaning = text
		b.haveMeaning = true
		if item.RequiresReading() {
			b.reply(prompt(item, false))
			return nil
		}
	case item.RequiresReading():
		reading = kana.ToHiragana(text)
	}

	v, err := b.ctrl.Submit(ctx, b.meaning, reading)
	if err != nil {
		return fmt.Errorf("failed to submit answer: %w", err)
	}
	b.reply(verdictText(v))
	return nil
}

func verdictText(v session.Verdict) string {
	if v.Correct() {
		return "✅ Correct!"
	}
	lines := []string{"❌ Not quite."}
	if !v.MeaningCorrect {
		lines = append(lines, "Meaning: "+strings.Join(v.ExpectedMeanings, ", "))
	}
	if !v.ReadingCorrect {
		lines = append(lines, "Reading: "+strings.Join(v.ExpectedReadings, ", "))
	}
	return strings.Join(lines, "\n")
}
