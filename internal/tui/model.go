// Package tui is the terminal host for a review session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/example/kanjigate/internal/gate"
	"github.com/example/kanjigate/internal/kana"
	"github.com/example/kanjigate/internal/session"
	"github.com/example/kanjigate/pkg/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field int

const (
	fieldMeaning field = iota
	fieldReading
)

// Model drives a session.Controller from terminal input
type Model struct {
	ctx  context.Context
	ctrl *session.Controller
	gate *gate.Policy
	host *Host

	meaning    string
	reading    string
	focus      field
	presentSeq int
	verdict    *session.Verdict
	width      int
	quitting   bool
}

// NewModel wraps a controller whose session was opened with host as its Host and Timer
func NewModel(ctx context.Context, ctrl *session.Controller, policy *gate.Policy, host *Host) Model {
	m := Model{ctx: ctx, ctrl: ctrl, gate: policy, host: host}
	m.syncItem()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.host.drain()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case timerMsg:
		msg.fn()
		return m.after()
	case celebrateDoneMsg:
		if msg.seq == m.host.celebrateSeq {
			m.host.celebrating = false
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.host.notice = ""
	if msg.Type == tea.KeyRunes {
		m.insert(string(msg.Runes))
		return m.after()
	}
	switch msg.String() {
	case "esc", "ctrl+c":
		if err := m.ctrl.RequestClose(m.ctx); err != nil && !errors.Is(err, session.ErrGateClosed) {
			log.Printf("Close request failed: %v", err)
		}
	case "ctrl+x":
		m.ctrl.EmergencyExit()
	case "ctrl+t":
		if err := m.ctrl.DisableForToday(m.ctx); err != nil {
			log.Printf("Failed to disable the gate: %v", err)
		}
	case "enter":
		m.submitOrNext()
	case "tab", "shift+tab", "up", "down":
		m.switchField()
	case "backspace":
		m.deleteLast()
	case " ":
		m.insert(" ")
	}
	return m.after()
}

// after picks up what the controller changed and returns its commands
func (m Model) after() (tea.Model, tea.Cmd) {
	m.syncItem()
	cmd := m.host.drain()
	if m.host.closed {
		m.quitting = true
		return m, tea.Batch(cmd, tea.Quit)
	}
	return m, cmd
}

// syncItem resets the inputs when a new item is presented
func (m *Model) syncItem() {
	if m.presentSeq == m.host.presentSeq {
		return
	}
	m.presentSeq = m.host.presentSeq
	m.meaning, m.reading = "", ""
	m.verdict = nil
	m.focus = fieldMeaning
	if !m.host.item.RequiresMeaning() {
		m.focus = fieldReading
	}
}

func (m *Model) submitOrNext() {
	if m.ctrl.State() != session.StatePresenting {
		return
	}
	item := m.host.item
	if item.RequiresMeaning() && strings.TrimSpace(m.meaning) == "" {
		m.focus = fieldMeaning
		return
	}
	if item.RequiresReading() && strings.TrimSpace(m.reading) == "" {
		m.focus = fieldReading
		return
	}

	v, err := m.ctrl.Submit(m.ctx, m.meaning, kana.ToHiragana(m.reading))
	if err != nil {
		log.Printf("Submit failed: %v", err)
		return
	}
	m.verdict = &v
}

func (m *Model) switchField() {
	item := m.host.item
	if !item.RequiresMeaning() || !item.RequiresReading() {
		return
	}
	if m.focus == fieldMeaning {
		m.focus = fieldReading
	} else {
		m.focus = fieldMeaning
	}
}

func (m *Model) insert(s string) {
	if m.ctrl.State() != session.StatePresenting {
		return
	}
	if m.focus == fieldReading {
		m.reading = kana.Live(m.reading + s)
		return
	}
	m.meaning += s
}

func (m *Model) deleteLast() {
	target := &m.meaning
	if m.focus == fieldReading {
		target = &m.reading
	}
	if *target == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(*target)
	*target = (*target)[:len(*target)-size]
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	characterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(1, 4).
			Align(lipgloss.Center)

	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(9)
	focusedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("51")).
			Width(30)
	blurredStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(30)

	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	celebrateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var kindColors = map[models.SubjectKind]lipgloss.Color{
	models.KindRadical:        lipgloss.Color("33"),
	models.KindKanji:          lipgloss.Color("199"),
	models.KindVocabulary:     lipgloss.Color("129"),
	models.KindKanaVocabulary: lipgloss.Color("129"),
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	today := m.gate.Today(m.ctx)
	header := fmt.Sprintf("kanjigate  today %d/%d  queue %d", today, m.gate.Minimum(), m.ctrl.Remaining())
	b.WriteString(titleStyle.Render(header) + "\n\n")

	if m.host.celebrating {
		b.WriteString(celebrateStyle.Render("★ Daily goal reached! ★") + "\n\n")
	}

	item := m.host.item
	if m.presentSeq > 0 && m.ctrl.State() != session.StateComplete {
		bg, ok := kindColors[item.Kind]
		if !ok {
			bg = lipgloss.Color("240")
		}
		b.WriteString(characterStyle.Copy().Background(bg).Render(item.Characters) + "\n")
		b.WriteString(helpStyle.Render(string(item.Kind)) + "\n\n")

		if item.RequiresMeaning() {
			b.WriteString(m.renderField("Meaning", m.meaning, fieldMeaning) + "\n")
		}
		if item.RequiresReading() {
			b.WriteString(m.renderField("Reading", m.reading, fieldReading) + "\n")
		}
	}

	if m.verdict != nil {
		b.WriteString("\n" + renderVerdict(*m.verdict) + "\n")
	}
	if notice := m.host.Notice(); notice != "" {
		b.WriteString("\n" + noticeStyle.Render(notice) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderField(label, value string, f field) string {
	style := blurredStyle
	if m.focus == f {
		style = focusedStyle
		value += "▏"
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, labelStyle.Render(label), style.Render(value))
}

func renderVerdict(v session.Verdict) string {
	if v.Correct() {
		return correctStyle.Render("Correct!")
	}
	var lines []string
	if !v.MeaningCorrect {
		lines = append(lines, incorrectStyle.Render("Meaning: ")+strings.Join(v.ExpectedMeanings, ", "))
	}
	if !v.ReadingCorrect {
		lines = append(lines, incorrectStyle.Render("Reading: ")+strings.Join(v.ExpectedReadings, ", "))
	}
	return strings.Join(lines, "\n")
}

// helpLine hides the close key while the gate keeps the session open
func (m Model) helpLine() string {
	keys := []string{"enter submit", "tab switch field"}
	if m.host.closeVisible {
		keys = append(keys, "esc close")
	}
	keys = append(keys, "ctrl+t skip today", "ctrl+x emergency exit")
	return strings.Join(keys, " • ")
}
