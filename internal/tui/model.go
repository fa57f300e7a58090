// Package tui renders the room over a Bubble Tea program. All game
// state arrives from the server; the model never simulates locally.
package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/pokerhaus/pokerhaus/internal/client"
	"github.com/pokerhaus/pokerhaus/internal/deck"
	"github.com/pokerhaus/pokerhaus/internal/game"
	"github.com/pokerhaus/pokerhaus/internal/room"
	"github.com/pokerhaus/pokerhaus/internal/server"
)

// ServerMsg delivers one inbound server message to the model
type ServerMsg struct {
	Message *server.Message
}

// DisconnectMsg signals that the socket dropped
type DisconnectMsg struct{}

// Model is the Bubble Tea model for the table view
type Model struct {
	client *client.Client
	logger *log.Logger

	logViewport viewport.Model
	input       textinput.Model

	state   room.State
	private room.PrivateState
	lastErr string

	width       int
	height      int
	initialized bool
	quitting    bool
}

// NewModel creates the table view bound to a connected client
func NewModel(c *client.Client, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "fold | check | call | raise <to> | /ready | /start | /buyin <n> | /say <msg> | /quit"
	ti.Focus()
	ti.CharLimit = 300
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	return &Model{
		client:      c,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		private:     room.PrivateState{},
	}
}

// Init starts the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles one message
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width
		m.logViewport.Height = max(5, msg.Height-16)
		m.input.Width = msg.Width - 4
		m.initialized = true
		m.refreshLog()

	case DisconnectMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case ServerMsg:
		m.applyServer(msg.Message)
		m.refreshLog()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if cmd := m.handleInput(line); cmd != nil {
				return m, cmd
			}
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// applyServer folds one server message into the display state
func (m *Model) applyServer(msg *server.Message) {
	switch msg.Type {
	case server.MessageTypeRoomState:
		var state room.State
		if err := json.Unmarshal(msg.Data, &state); err != nil {
			m.logger.Error("bad room state", "error", err)
			return
		}
		m.state = state
		m.lastErr = ""
	case server.MessageTypePrivateState:
		var private room.PrivateState
		if err := json.Unmarshal(msg.Data, &private); err != nil {
			m.logger.Error("bad private state", "error", err)
			return
		}
		m.private = private
	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			m.lastErr = data.Message
		}
	}
}

// handleInput parses one line from the prompt
func (m *Model) handleInput(line string) tea.Cmd {
	if line == "" {
		return nil
	}
	m.lastErr = ""

	if strings.HasPrefix(line, "/") {
		fields := strings.Fields(line)
		switch fields[0] {
		case "/quit":
			m.quitting = true
			_ = m.client.Leave()
			return tea.Sequence(tea.ClearScreen, tea.Quit)
		case "/leave":
			m.reportErr(m.client.Leave())
		case "/ready":
			m.reportErr(m.client.Ready())
		case "/start":
			m.reportErr(m.client.Start())
		case "/buyin":
			if len(fields) < 2 {
				m.lastErr = "usage: /buyin <amount>"
				return nil
			}
			amount, err := strconv.Atoi(fields[1])
			if err != nil {
				m.lastErr = "usage: /buyin <amount>"
				return nil
			}
			m.reportErr(m.client.Buyin(amount))
		case "/say":
			m.reportErr(m.client.Chat(strings.TrimSpace(strings.TrimPrefix(line, "/say"))))
		default:
			m.lastErr = fmt.Sprintf("unknown command %s", fields[0])
		}
		return nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "fold", "check", "call":
		m.reportErr(m.client.Act(fields[0], 0))
	case "raise":
		if len(fields) < 2 {
			m.lastErr = "usage: raise <to>"
			return nil
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil {
			m.lastErr = "usage: raise <to>"
			return nil
		}
		m.reportErr(m.client.Act("raise", amount))
	default:
		// Anything else is table talk.
		m.reportErr(m.client.Chat(line))
	}
	return nil
}

func (m *Model) reportErr(err error) {
	if err != nil {
		m.lastErr = err.Error()
	}
}

// refreshLog rebuilds the scrollback from the room log and chat
func (m *Model) refreshLog() {
	lines := make([]string, 0, len(m.state.Logs)+len(m.state.Chat))
	for _, entry := range m.state.Logs {
		lines = append(lines, LogStyle.Render(entry.Msg))
	}
	for _, entry := range m.state.Chat {
		lines = append(lines, ChatStyle.Render(fmt.Sprintf("%s: %s", entry.Name, entry.Text)))
	}
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.initialized {
		return "connecting..."
	}

	var b strings.Builder

	header := fmt.Sprintf(" %s | hand #%d | %s ", m.state.Room, m.state.HandNo, m.state.Stage)
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n\n")

	b.WriteString(BoardStyle.Render("Board: "))
	b.WriteString(renderCards(m.state.Board))
	b.WriteString("   ")
	b.WriteString(PotStyle.Render(fmt.Sprintf("Pot: %d", m.state.Pot)))
	if m.state.CurrentBet > 0 {
		b.WriteString(fmt.Sprintf("   Bet: %d (min raise to %d)", m.state.CurrentBet, m.state.CurrentBet+m.state.MinRaise))
	}
	b.WriteString("\n\n")

	for _, p := range m.state.Players {
		b.WriteString(m.renderPlayer(p))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Your hand: ")
	b.WriteString(renderCards(m.private.HoleCards))
	b.WriteString("\n\n")

	b.WriteString(m.logViewport.View())
	b.WriteString("\n")

	if m.lastErr != "" {
		b.WriteString(ErrorStyle.Render(m.lastErr))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

func (m *Model) renderPlayer(p game.PlayerSnapshot) string {
	marker := "  "
	switch p.Seat {
	case m.state.DealerSeat:
		marker = "D "
	case m.state.SBSeat:
		marker = "sb"
	case m.state.BBSeat:
		marker = "bb"
	}

	arrow := "  "
	if p.Seat == m.state.ActionSeat {
		arrow = TurnStyle.Render("->")
	}

	flags := make([]string, 0, 3)
	if p.Folded {
		flags = append(flags, "folded")
	}
	if p.AllIn {
		flags = append(flags, "all-in")
	}
	if p.Ready {
		flags = append(flags, "ready")
	}
	if p.LastAction != "" {
		flags = append(flags, p.LastAction)
	}

	line := fmt.Sprintf("%s %s seat %d %-12s chips %-6d bet %-5d %s",
		arrow, marker, p.Seat, p.Name, p.Chips, p.Bet, strings.Join(flags, " "))

	if cards, ok := m.state.Showdown[p.Seat]; ok {
		line += "  " + renderCards(cards)
	}

	if p.Folded {
		return FoldedStyle.Render(line)
	}
	return PlayerStyle.Render(line)
}

func renderCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return FoldedStyle.Render("--")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit.IsRed() {
			parts[i] = RedCardStyle.Render(c.Pretty())
		} else {
			parts[i] = BlackCardStyle.Render(c.Pretty())
		}
	}
	return strings.Join(parts, " ")
}
