package tui

import (
	"time"

	"github.com/example/kanjigate/internal/session"
	"github.com/example/kanjigate/pkg/models"
	tea "github.com/charmbracelet/bubbletea"
)

const celebrateFor = 2 * time.Second

type timerMsg struct{ fn func() }

type celebrateDoneMsg struct{ seq int }

// Host collects what the session controller asks to show. The model reads
// it after every call into the controller and turns timers into commands.
type Host struct {
	notice       string
	celebrateSeq int
	celebrating  bool
	closeVisible bool
	item         models.ReviewItem
	presentSeq   int
	closed       bool
	final        session.State

	pending []tea.Cmd
	// tick builds the command for a timer; tests swap it for an immediate one
	tick func(d time.Duration, msg tea.Msg) tea.Cmd
}

// NewHost creates a host whose timers are tea.Tick commands
func NewHost() *Host {
	return &Host{
		tick: func(d time.Duration, msg tea.Msg) tea.Cmd {
			return tea.Tick(d, func(time.Time) tea.Msg { return msg })
		},
	}
}

func (h *Host) Notify(message string) {
	h.notice = message
}

func (h *Host) Celebrate() {
	h.celebrateSeq++
	h.celebrating = true
	h.pending = append(h.pending, h.tick(celebrateFor, celebrateDoneMsg{seq: h.celebrateSeq}))
}

func (h *Host) ShowCloseButton(visible bool) {
	h.closeVisible = visible
}

func (h *Host) Present(item models.ReviewItem) {
	h.item = item
	h.presentSeq++
}

func (h *Host) Closed(final session.State) {
	h.closed = true
	h.final = final
}

// After implements session.Timer
func (h *Host) After(d time.Duration, fn func()) {
	h.pending = append(h.pending, h.tick(d, timerMsg{fn: fn}))
}

// Final returns how the session ended, once it has
func (h *Host) Final() (session.State, bool) {
	return h.final, h.closed
}

// Notice returns the last notification
func (h *Host) Notice() string {
	return h.notice
}

// drain returns the commands queued since the last call
func (h *Host) drain() tea.Cmd {
	if len(h.pending) == 0 {
		return nil
	}
	cmds := h.pending
	h.pending = nil
	return tea.Batch(cmds...)
}
