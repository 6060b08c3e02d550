// Package tui renders a game session in the terminal.
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/partycards/internal/game"
	"github.com/lox/partycards/internal/packs"
)

// Model is the Bubble Tea model for one player's session. The model owns
// the session: every mutation happens inside Update.
type Model struct {
	session *game.Session
	logger  *log.Logger
	title   string

	// Bound to the session cells
	prompt packs.BlackCard
	hand   []string

	cursor   int
	selected map[int]bool
	status   string
	gameLog  []string
	quitting bool

	keys        keyMap
	help        help.Model
	logViewport viewport.Model
	unsubscribe []func()

	width  int
	height int
}

// NewModel binds a model to session. title is shown in the header.
func NewModel(session *game.Session, title string, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	m := &Model{
		session:     session,
		logger:      logger.WithPrefix("tui"),
		title:       title,
		prompt:      session.Prompt(),
		hand:        session.Hand(),
		selected:    make(map[int]bool),
		keys:        defaultKeys,
		help:        help.New(),
		logViewport: vp,
	}

	m.unsubscribe = append(m.unsubscribe,
		session.PromptCell().Subscribe(func(p packs.BlackCard) { m.prompt = p }),
		session.HandCell().Subscribe(func(h []string) { m.hand = h }),
		session.Events().Subscribe(game.EventSubscriberFunc(m.onEvent)),
	)
	return m
}

// Close detaches the model from the session
func (m *Model) Close() {
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
	m.unsubscribe = nil
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Right):
			if m.cursor < len(m.hand)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.hand) {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case key.Matches(msg, m.keys.Submit):
			m.submit()
		case key.Matches(msg, m.keys.Advance):
			m.advance()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	var indices []int
	for i, on := range m.selected {
		if on {
			indices = append(indices, i)
		}
	}
	slices.Sort(indices)

	m.status = ""
	if _, err := m.session.SubmitCards(indices...); err != nil {
		m.status = err.Error()
	}
	m.selected = make(map[int]bool)
	if m.cursor >= len(m.hand) {
		m.cursor = max(0, len(m.hand)-1)
	}
}

func (m *Model) advance() {
	m.status = ""
	if err := m.session.AdvancePrompt(); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) onEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.PromptChangedEvent:
		m.addLog(fmt.Sprintf("Prompt %d: %s", e.Drawn, e.Prompt.Text))
	case game.HandChangedEvent:
		if len(e.Submitted) > 0 {
			m.addLog("Played: " + strings.Join(e.Submitted, " / "))
		}
		if len(e.Dealt) > 0 {
			m.addLog(fmt.Sprintf("Drew %d card(s)", len(e.Dealt)))
		}
	}
}

func (m *Model) addLog(line string) {
	m.gameLog = append(m.gameLog, line)
	m.logViewport.SetContent(GameLogStyle.Render(strings.Join(m.gameLog, "\n")))
	m.logViewport.GotoBottom()
}

// Log returns the lines written to the game log
func (m *Model) Log() []string {
	return slices.Clone(m.gameLog)
}

// Selected returns the selected hand positions in order
func (m *Model) Selected() []int {
	var out []int
	for i, on := range m.selected {
		if on {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

// Cursor returns the highlighted hand position
func (m *Model) Cursor() int { return m.cursor }

// Status returns the last error shown to the player, if any
func (m *Model) Status() string { return m.status }

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	d := m.session.Deck()
	header := HeaderStyle.Render(m.title)
	counts := InfoStyle.Render(fmt.Sprintf("%d prompts and %d answers left", d.RemainingBlacks(), d.RemainingWhites()))

	sections := []string{
		lipgloss.JoinHorizontal(lipgloss.Center, header, " ", counts),
		RenderPrompt(m.prompt),
		RenderHand(m.hand, m.cursor, m.selected),
	}
	if m.status != "" {
		sections = append(sections, ErrorStyle.Render(m.status))
	}

	if len(m.gameLog) > 0 {
		logHeight := m.height - lipgloss.Height(strings.Join(sections, "\n")) - 4
		if logHeight < 3 {
			logHeight = 3
		}
		m.logViewport.Height = logHeight
		if m.width > 0 {
			m.logViewport.Width = m.width
		}
		sections = append(sections, m.logViewport.View())
	}

	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
