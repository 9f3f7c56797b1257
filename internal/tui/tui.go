package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/doubleout/internal/command"
	"github.com/lox/doubleout/internal/game"
	"github.com/lox/doubleout/internal/history"
)

// TUIModel represents the Bubble Tea model for a darts session
type TUIModel struct {
	engine    *game.Engine
	formatter *game.EventFormatter
	logger    *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// NewTUIModel creates a TUI driving engine
func NewTUIModel(engine *game.Engine, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(engine, logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(engine *game.Engine, logger *log.Logger, testMode bool) *TUIModel {
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "t20, d16, 25, bull, commit, reset, next, help"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &TUIModel{
		engine:      engine,
		formatter:   game.NewEventFormatter(game.FormattingOptions{ShowTimestamps: !testMode}),
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1, // Start with input focused
		testMode:    testMode,
		capturedLog: []string{},
	}
	engine.GetEventBus().Subscribe(m)
	return m
}

// OnEvent appends every engine event to the log pane
func (m *TUIModel) OnEvent(event game.GameEvent) {
	text := m.formatter.Format(event)
	for _, line := range strings.Split(text, "\n") {
		switch event.(type) {
		case game.GameWonEvent, game.GameStartEvent:
			m.AddBoldLogEntry(line)
		default:
			m.AddLogEntry(line)
		}
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updated dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.processAction(input); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Keys only scroll the log when it has focus
	if _, isKey := msg.(tea.KeyMsg); !isKey || m.focusedPane == 0 {
		m.logViewport, cmd = m.logViewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// processAction handles one line of input. It returns tea.Quit for quit.
func (m *TUIModel) processAction(input string) tea.Cmd {
	verb, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "":
		return nil
	case "quit", "exit", "q":
		m.quitting = true
		return tea.Quit
	case "help", "?":
		for _, line := range strings.Split(command.Usage, "\n") {
			m.AddLogEntry(InfoStyle.Render(line))
		}
		return nil
	case "history", "h":
		m.showHistory(rest)
		return nil
	}

	cmd, ok, err := command.Run(m.engine, input)
	switch {
	case errors.Is(err, command.ErrUnknown):
		m.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Unknown command %q, type help for the list", verb)))
	case err != nil:
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
	case !ok:
		m.logger.Debug("Command ignored", "command", cmd.Kind, "input", input)
		m.AddLogEntry(WarningStyle.Render(fmt.Sprintf("Can't %s right now", cmd.Kind)))
	}
	return nil
}

func (m *TUIModel) showHistory(player string) {
	if player == "" {
		if cur := m.engine.Snapshot().Current(); cur != nil {
			player = cur.ID
		}
	}
	report, err := history.Build(m.engine.Setup(), player)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		return
	}
	for _, line := range strings.Split(strings.TrimRight(history.Text(report), "\n"), "\n") {
		m.AddLogEntry(line)
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.engine.Snapshot()

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane(snap)
	actionHeight := lipgloss.Height(actionContent)
	calculatedActionWidth := max(m.width-2, 1)
	calculatedActionHeight := max(actionHeight-2, 1)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(calculatedActionWidth).
		Height(calculatedActionHeight)
	if m.focusedPane == 1 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right side of log pane, same height as log pane)
	sidebarContent := m.renderSidebarPane(snap)
	calculatedSidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	calculatedSidebarHeight := max(m.height-actionHeight-4, 1)

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(calculatedSidebarWidth).
		Height(calculatedSidebarHeight)
	sidebarPane := sidebarStyle.Render(sidebarContent)

	// Log pane (top, fills height minus action pane)
	m.logViewport.SetContent(m.renderLogPane())

	calculatedLogWidth := max(m.width-calculatedSidebarWidth-4, 1)
	calculatedLogHeight := max(m.height-actionHeight-4, 1)
	m.logViewport.Width = calculatedLogWidth
	m.logViewport.Height = calculatedLogHeight

	// On first proper sizing, jump to the latest entries
	if !m.initialized && calculatedLogWidth > 1 && calculatedLogHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(calculatedLogWidth).
		Height(calculatedLogHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane shows the mode, round and every player's score
func (m *TUIModel) renderSidebarPane(snap game.Snapshot) string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(fmt.Sprintf(" %s double-out ", snap.Mode)))
	content.WriteString("\n")
	switch snap.State {
	case game.NotStarted:
		content.WriteString(InfoStyle.Render("Waiting to start"))
	case game.InProgress:
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Round %d", snap.Round)))
	case game.Won:
		if snap.Winner != nil {
			content.WriteString(SuccessStyle.Render(snap.Winner.Name + " wins!"))
		}
	}
	content.WriteString("\n\n")

	if len(snap.Players) == 0 {
		content.WriteString(InfoStyle.Render("No players yet\nadd NAME to join"))
		content.WriteString("\n")
	}
	for i, p := range snap.Players {
		marker := "  "
		style := PlayerInfoStyle
		if snap.State == game.InProgress && i == snap.CurrentIndex {
			marker = "▶ "
			style = CurrentPlayerStyle
		}
		content.WriteString(style.Render(fmt.Sprintf("%s%-12s %4d", marker, p.Name, p.Score)))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("Colors: "))
	for _, mult := range []game.Multiplier{game.Single, game.Double, game.Triple} {
		c := snap.Colors.For(int(mult))
		content.WriteString(MultiplierStyle(c).Render(mult.String()))
		content.WriteString(" ")
	}
	return strings.TrimRight(content.String(), " ")
}

// renderActionPane renders the current round and the input
func (m *TUIModel) renderActionPane(snap game.Snapshot) string {
	var content strings.Builder

	switch cur := snap.Current(); {
	case snap.State == game.InProgress && cur != nil:
		content.WriteString(RoundInfoStyle.Render(fmt.Sprintf("%s to throw • %d left • %d darts", cur.Name, cur.Score, snap.ThrowsRemaining)))
		content.WriteString("  ")
		content.WriteString(m.renderPending(snap))
		content.WriteString("\n")
		content.WriteString(m.renderCommitHint(snap))
		content.WriteString("\n")
	case snap.State == game.Won:
		content.WriteString(SuccessStyle.Render("Game over • restart to play again"))
		content.WriteString("\n")
	default:
		content.WriteString(RoundInfoStyle.Render("add NAME, mode 301|501|701, then start"))
		content.WriteString("\n")
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • help for commands • Ctrl+C to quit"))
	}
	return content.String()
}

// renderPending shows this round's darts in their multiplier colors
func (m *TUIModel) renderPending(snap game.Snapshot) string {
	if len(snap.Pending) == 0 {
		return InfoStyle.Render("[ - - - ]")
	}
	darts := make([]string, 0, 3)
	for _, t := range snap.Pending {
		darts = append(darts, MultiplierStyle(snap.Colors.For(int(t.Multiplier))).Render(t.String()))
	}
	for len(darts) < 3 {
		darts = append(darts, InfoStyle.Render("-"))
	}
	return "[ " + strings.Join(darts, " ") + " ] = " + fmt.Sprint(snap.RoundTotal)
}

// renderCommitHint shows what committing now would do
func (m *TUIModel) renderCommitHint(snap game.Snapshot) string {
	switch {
	case snap.Bust:
		return ErrorStyle.Render("BUST! " + snap.BustReason + " • commit or reset")
	case snap.WouldBust():
		return ErrorStyle.Render("commit: BUST")
	case len(snap.Pending) > 0 && snap.PotentialOutcome.IsFinish():
		return SuccessStyle.Render("commit: checkout!")
	case len(snap.Pending) > 0:
		return ActionsStyle.Render(fmt.Sprintf("commit: %d left", snap.PotentialRemaining))
	default:
		return InfoStyle.Render("next to skip")
	}
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	// Update content and auto-scroll to bottom
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// AddBoldLogEntry adds a bold entry to the game log
func (m *TUIModel) AddBoldLogEntry(entry string) {
	if m.testMode {
		m.gameLog = append(m.gameLog, entry)
		m.capturedLog = append(m.capturedLog, entry)
		return
	}
	m.AddLogEntry(lipgloss.NewStyle().Bold(true).Render(entry))
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	// Return a copy to prevent modification
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectAction programmatically submits a line of input (test mode only)
func (m *TUIModel) InjectAction(input string) error {
	if !m.testMode {
		return fmt.Errorf("action injection only available in test mode")
	}
	m.processAction(strings.TrimSpace(input))
	return nil
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

// Quitting reports whether the user asked to leave
func (m *TUIModel) Quitting() bool {
	return m.quitting
}
