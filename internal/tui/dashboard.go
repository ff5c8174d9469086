package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theCampel/lightspeed/internal/feed"
	"github.com/theCampel/lightspeed/internal/model"
	"github.com/theCampel/lightspeed/internal/questions"
)

// Controller is the session surface the dashboard drives.
type Controller interface {
	Ask(ctx context.Context, text string, category model.QuestionCategory) string
	ClickQuestion(ctx context.Context, id string) string
	Transcribing() bool
}

// TickMsg drives the periodic re-render that keeps countdowns and fresh
// cards on screen.
type TickMsg struct{}

// SpinnerTickMsg triggers a faster re-render while any card is loading.
type SpinnerTickMsg struct{}

// DashboardModel is the live insight feed page: status line, suggested
// questions, the card stack, and the query input.
type DashboardModel struct {
	store     *feed.Store
	sched     *questions.Scheduler
	ctrl      Controller
	liveness  func() model.Liveness
	connState func() model.ConnectionState
	profile   model.ClientProfile

	keys           KeyMap
	width          int
	height         int
	selected       int
	input          textinput.Model
	typing         bool
	updateInterval time.Duration
}

// NewDashboard creates the dashboard page.
func NewDashboard(store *feed.Store, sched *questions.Scheduler, ctrl Controller,
	liveness func() model.Liveness, connState func() model.ConnectionState,
	profile model.ClientProfile) *DashboardModel {
	input := textinput.New()
	input.Placeholder = "Ask about the client, a holding, or the market..."
	input.CharLimit = 200

	return &DashboardModel{
		store:          store,
		sched:          sched,
		ctrl:           ctrl,
		liveness:       liveness,
		connState:      connState,
		profile:        profile,
		keys:           DefaultKeyMap(),
		input:          input,
		updateInterval: model.DefaultUpdateInterval,
	}
}

// SetUpdateInterval overrides the re-render cadence. Zero or negative
// values are ignored.
func (m *DashboardModel) SetUpdateInterval(d time.Duration) {
	if d > 0 {
		m.updateInterval = d
	}
}

func (m *DashboardModel) ID() string { return "dashboard" }

func (m *DashboardModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.updateInterval, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func spinnerCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return nil, nil

	case TickMsg:
		m.clampSelection()
		cmds := []tea.Cmd{m.tickCmd()}
		if m.anyCardLoading() {
			cmds = append(cmds, spinnerCmd())
		}
		return tea.Batch(cmds...), nil

	case SpinnerTickMsg:
		if m.anyCardLoading() {
			return spinnerCmd(), nil
		}
		return nil, nil

	case tea.KeyMsg:
		return m.handleKey(msg), nil
	}
	return nil, nil
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit
	}

	if m.typing {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.typing = false
			m.input.Blur()
			m.input.SetValue("")
			return nil
		case key.Matches(msg, m.keys.Enter):
			text := strings.TrimSpace(m.input.Value())
			m.typing = false
			m.input.Blur()
			m.input.SetValue("")
			if text != "" {
				m.ctrl.Ask(context.Background(), text, model.CategoryGeneral)
				return spinnerCmd()
			}
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < m.store.Len()-1 {
			m.selected++
		}
		return nil

	case key.Matches(msg, m.keys.Pin):
		if c, ok := m.selectedCard(); ok {
			m.store.Pin(c.ID, !c.Pinned)
		}
		return nil

	case key.Matches(msg, m.keys.Delete):
		if c, ok := m.selectedCard(); ok {
			m.store.Delete(c.ID)
			m.clampSelection()
		}
		return nil

	case key.Matches(msg, m.keys.Ask):
		m.typing = true
		return m.input.Focus()

	case key.Matches(msg, m.keys.Question1):
		return m.clickQuestion(0)
	case key.Matches(msg, m.keys.Question2):
		return m.clickQuestion(1)
	case key.Matches(msg, m.keys.Question3):
		return m.clickQuestion(2)
	}
	return nil
}

func (m *DashboardModel) clickQuestion(idx int) tea.Cmd {
	active := m.sched.Snapshot()
	if idx >= len(active) {
		return nil
	}
	m.ctrl.ClickQuestion(context.Background(), active[idx].ID)
	return spinnerCmd()
}

func (m *DashboardModel) selectedCard() (model.Card, bool) {
	cards := m.store.Snapshot()
	if m.selected < 0 || m.selected >= len(cards) {
		return model.Card{}, false
	}
	return cards[m.selected], true
}

func (m *DashboardModel) clampSelection() {
	n := m.store.Len()
	if n == 0 {
		m.selected = 0
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *DashboardModel) anyCardLoading() bool {
	for _, c := range m.store.Snapshot() {
		if c.Loading {
			return true
		}
	}
	return false
}

func (m *DashboardModel) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing dashboard..."
	}
	if width < 60 || height < 20 {
		return "Terminal too small. Resize to at least 60x20."
	}
	m.width = width
	m.height = height

	header := m.renderHeader(width)
	questionBar := m.renderQuestionBar(width)
	inputLine := m.renderInputLine(width)
	helpLine := m.renderHelpLine(width)

	fixed := lipgloss.Height(header) + lipgloss.Height(questionBar) +
		lipgloss.Height(inputLine) + lipgloss.Height(helpLine)
	cardsHeight := height - fixed
	if cardsHeight < 4 {
		cardsHeight = 4
	}
	cards := m.renderCards(width, cardsHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		questionBar,
		cards,
		inputLine,
		helpLine,
	)
}

func (m *DashboardModel) renderHeader(width int) string {
	var status string
	switch {
	case m.connState() == model.StateErrored:
		status = errorStyle.Render("● disconnected")
	case m.connState() == model.StateClosed:
		status = helpStyle.Render("● session over")
	case m.liveness() == model.LivenessDegraded:
		status = statusDegradedStyle.Render("● degraded")
	case m.ctrl.Transcribing():
		status = statusLiveStyle.Render("● live")
	default:
		status = helpStyle.Render("● waiting")
	}

	left := cardTitleStyle.Render("Lightspeed") + "  " +
		helpStyle.Render(fmt.Sprintf("%s · %s", m.profile.Name, m.profile.RiskAppetite))
	spacer := width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if spacer < 1 {
		spacer = 1
	}
	return " " + left + strings.Repeat(" ", spacer) + status
}

func (m *DashboardModel) renderQuestionBar(width int) string {
	active := m.sched.Snapshot()
	if len(active) == 0 {
		return helpStyle.Render(" No suggested questions right now")
	}

	var parts []string
	for i, q := range active {
		label := fmt.Sprintf("[%d] %s (%ds)", i+1, q.Text, q.ExpiresIn)
		parts = append(parts, questionStyle.Render(label))
	}
	bar := " " + strings.Join(parts, "   ")
	if lipgloss.Width(bar) > width {
		bar = bar[:width]
	}
	return bar
}

func (m *DashboardModel) renderCards(width, height int) string {
	cards := m.store.Snapshot()
	if len(cards) == 0 {
		placeholder := helpStyle.Italic(true).
			Render("Insights will appear here once the session starts.")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, placeholder)
	}

	var blocks []string
	used := 0
	for i, c := range cards {
		block := renderCard(c, width-4, i == m.selected)
		h := lipgloss.Height(block)
		if used+h > height && len(blocks) > 0 {
			remaining := len(cards) - i
			blocks = append(blocks, helpStyle.Render(fmt.Sprintf(" … %d more below", remaining)))
			break
		}
		blocks = append(blocks, block)
		used += h
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m *DashboardModel) renderInputLine(width int) string {
	if m.typing {
		m.input.Width = width - 6
		return " > " + m.input.View()
	}
	return helpStyle.Render(" Press / to ask a question")
}

func (m *DashboardModel) renderHelpLine(width int) string {
	help := " ↑/↓ select · p pin · d dismiss · 1-3 suggested · q quit"
	if lipgloss.Width(help) > width {
		help = help[:width]
	}
	return helpStyle.Render(help)
}
