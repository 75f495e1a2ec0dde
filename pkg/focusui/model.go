// Package focusui is the full screen focus timer.
package focusui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/focusflow/pkg/domain"
)

// Timer is the part of the service the view drives.
type Timer interface {
	Timer() domain.Timer
	Start() (domain.Timer, error)
	Pause() domain.Timer
	Reset() (domain.Timer, error)
	SelectMode(i int) (domain.Timer, error)
}

type tickMsg time.Time

// Model renders the countdown and maps keys onto timer operations.
type Model struct {
	svc    Timer
	timer  domain.Timer
	status string
	width  int
	height int
	styles styles
}

type styles struct {
	Title  lipgloss.Style
	Clock  lipgloss.Style
	Mode   lipgloss.Style
	Active lipgloss.Style
	Status lipgloss.Style
	Help   lipgloss.Style
	Error  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Clock:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true),
		Mode:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Active: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Reverse(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
}

// New returns a model showing the current timer.
func New(svc Timer) Model {
	return Model{
		svc:    svc,
		timer:  svc.Timer(),
		styles: defaultStyles(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles ticks, resizes and keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.timer = m.svc.Timer()
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch k := msg.String(); k {
		case " ", "s":
			if m.timer.IsRunning {
				m.timer = m.svc.Pause()
				return m, nil
			}
			t, err := m.svc.Start()
			m.timer = t
			m.fail(err)
		case "r":
			t, err := m.svc.Reset()
			m.timer = t
			m.fail(err)
		case "1", "2", "3", "4":
			t, err := m.svc.SelectMode(int(k[0] - '1'))
			m.timer = t
			m.fail(err)
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) fail(err error) {
	if err != nil {
		m.status = err.Error()
	}
}

// View renders the timer centred in the window.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("focusflow"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Clock.Render(Clock(m.timer.SecondsLeft)))
	b.WriteString("\n\n")
	b.WriteString(m.modes())
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render(m.timer.Status()))
	b.WriteString("\n")
	b.WriteString(m.styles.Mode.Render(fmt.Sprintf("%d min focused today", m.timer.FocusMinutesToday)))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("space start/pause · r reset · 1-4 mode · q quit"))

	if m.width == 0 || m.height == 0 {
		return b.String()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) modes() string {
	parts := make([]string, 0, len(domain.Modes))
	for i, mode := range domain.Modes {
		label := fmt.Sprintf("%d %s", i+1, mode.Label)
		if i == m.timer.ModeIdx {
			parts = append(parts, m.styles.Active.Render(label))
			continue
		}
		parts = append(parts, m.styles.Mode.Render(label))
	}
	return strings.Join(parts, "  ")
}

// Clock formats seconds as MM:SS.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Run shows the timer until the user quits.
func Run(svc Timer) error {
	_, err := tea.NewProgram(New(svc), tea.WithAltScreen()).Run()
	return err
}
