package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/joinemm/quotegame/pkg/game"
	"github.com/joinemm/quotegame/pkg/inventory"
)

const PlaceHolderText = "Type a message, or /status /inv /top /spawn ..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	chatViewport viewport.Model
	textarea     textarea.Model
	lines        []string
	ready        bool
	width        int
	height       int
	loading      bool
}

type resultMsg struct {
	echo   string
	result *game.Result
	err    error
}

type statusMsg struct {
	status *statusResponse
	err    error
}

type inventoryMsg struct {
	items inventory.Inventory
	err   error
}

type leaderboardMsg struct {
	totals []inventory.Total
	err    error
}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(2).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	return ConsoleUI{
		config:       cfg,
		client:       client,
		textarea:     ta,
		chatViewport: chatVp,
		lines: []string{
			titleStyle.Render("quotegame console"),
			promptStyle.Render(fmt.Sprintf("posting as %s in #%s", cfg.UserID, cfg.ChannelID)),
			"",
		},
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
	)
	m.textarea, taCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chatViewport.Width = msg.Width - 4
		m.chatViewport.Height = msg.Height - 5
		m.textarea.SetWidth(msg.Width - 4)
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" || m.loading {
				return m, tea.Batch(taCmd, vpCmd)
			}
			m.loading = true
			return m, tea.Batch(taCmd, vpCmd, m.dispatch(input))
		}

	case resultMsg:
		m.loading = false
		if msg.echo != "" {
			m.append(userStyle.Render(m.config.UserID+": ") + msg.echo)
		}
		if msg.err != nil {
			m.append(errorStyle.Render("error: " + msg.err.Error()))
			break
		}
		if msg.result.Spawned {
			m.append(gameStyle.Render("a challenge appeared! (spawn " + msg.result.SpawnID + ")"))
		}
		if msg.result.Matched {
			m.append(gameStyle.Render("correct! you received " + msg.result.AwardedItem))
		}

	case statusMsg:
		m.loading = false
		if msg.err != nil {
			m.append(errorStyle.Render("error: " + msg.err.Error()))
			break
		}
		m.append(infoStyle.Render(fmt.Sprintf("counter %d / threshold %d", msg.status.Counter, msg.status.Threshold)))

	case inventoryMsg:
		m.loading = false
		if msg.err != nil {
			m.append(errorStyle.Render("error: " + msg.err.Error()))
			break
		}
		if len(msg.items) == 0 {
			m.append(infoStyle.Render("inventory is empty"))
			break
		}
		items := make([]string, 0, len(msg.items))
		for item := range msg.items {
			items = append(items, item)
		}
		sort.Strings(items)
		m.append(infoStyle.Render("inventory:"))
		for _, item := range items {
			m.append(fmt.Sprintf("  %s x%d", item, msg.items[item]))
		}

	case leaderboardMsg:
		m.loading = false
		if msg.err != nil {
			m.append(errorStyle.Render("error: " + msg.err.Error()))
			break
		}
		if len(msg.totals) == 0 {
			m.append(infoStyle.Render("leaderboard is empty"))
			break
		}
		m.append(infoStyle.Render("leaderboard:"))
		for i, total := range msg.totals {
			m.append(fmt.Sprintf("  %d. %s (%d)", i+1, total.UserID, total.Quantity))
		}
	}

	return m, tea.Batch(taCmd, vpCmd)
}

// dispatch turns console input into an API call command. Slash commands
// hit the management endpoints; everything else is a chat message.
func (m *ConsoleUI) dispatch(input string) tea.Cmd {
	cfg := m.config
	client := m.client

	switch input {
	case "/status":
		return func() tea.Msg {
			status, err := getStatus(client, cfg.APIBaseURL)
			return statusMsg{status: status, err: err}
		}
	case "/inv":
		return func() tea.Msg {
			items, err := getInventory(client, cfg.APIBaseURL, cfg.UserID)
			return inventoryMsg{items: items, err: err}
		}
	case "/top":
		return func() tea.Msg {
			totals, err := getLeaderboard(client, cfg.APIBaseURL)
			return leaderboardMsg{totals: totals, err: err}
		}
	case "/spawn":
		return func() tea.Msg {
			result, err := forceSpawn(client, cfg.APIBaseURL, cfg.UserID)
			return resultMsg{result: result, err: err}
		}
	}

	return func() tea.Msg {
		result, err := sendMessage(client, cfg.APIBaseURL, game.Message{
			Text:      input,
			UserID:    cfg.UserID,
			ChannelID: cfg.ChannelID,
		})
		return resultMsg{echo: input, result: result, err: err}
	}
}

func (m *ConsoleUI) append(line string) {
	m.lines = append(m.lines, line)
	m.refresh()
}

func (m *ConsoleUI) refresh() {
	width := m.chatViewport.Width
	if width < 10 {
		width = 10
	}
	m.chatViewport.SetContent(wordwrap.String(strings.Join(m.lines, "\n"), width))
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	status := ""
	if m.loading {
		status = infoStyle.Render(" sending...")
	}

	return chatPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.chatViewport.View(),
		promptStyle.Render(strings.Repeat("─", max(1, m.width-4)))+status,
		m.textarea.View(),
	))
}
