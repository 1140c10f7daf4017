package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appdto "basecli/internal/modules/app/dto"
	clidto "basecli/internal/modules/cli/dto"
	"basecli/internal/ui/components"
	"basecli/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type cliPort interface {
	Run(ctx context.Context, args []string) (clidto.ProcessOutput, error)
	Commands(ctx context.Context) ([]clidto.CommandInfo, error)
}

type appPort interface {
	Snapshot(ctx context.Context) (appdto.Snapshot, error)
	Events(ctx context.Context, limit int) ([]appdto.EventOutput, error)
}

const eventLimit = 12

// ─── async messages ───────────────────────────────────────────────────────────

type commandsLoadedMsg struct {
	names []string
	err   error
}

type stateLoadedMsg struct {
	snapshot appdto.Snapshot
	events   []appdto.EventOutput
	err      error
}

type processedMsg struct {
	input string
	out   clidto.ProcessOutput
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Help    key.Binding
	Palette key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":", "enter"), key.WithHelp(":", "tokens")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Palette, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Palette, k.Refresh},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the token console. Submitted lines go through the application
// dispatcher; the state pane shows the resulting snapshot and recent events.
type Model struct {
	cli cliPort
	app appPort

	snapshot appdto.Snapshot
	events   []appdto.EventOutput
	history  []string

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

func NewModel(cli cliPort, app appPort) Model {
	return Model{
		cli:     cli,
		app:     app,
		keys:    defaultKeys(),
		help:    help.New(),
		palette: components.NewPalette(nil),
		status:  "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCommandsCmd(), m.loadStateCmd())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width

	case commandsLoadedMsg:
		if msg.err != nil {
			m.status = "commands: " + msg.err.Error()
			return m, nil
		}
		m.palette.SetHints(msg.names)

	case stateLoadedMsg:
		if msg.err != nil {
			m.status = "state: " + msg.err.Error()
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.events = msg.events

	case processedMsg:
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			m.history = append(m.history, theme.Fail.Render("✗ "+msg.input))
		} else {
			m.status = describe(msg.out)
			m.history = append(m.history, "✓ "+msg.input)
		}
		return m, m.loadStateCmd()

	case components.PaletteSubmitMsg:
		if msg.Input == "" {
			return m, nil
		}
		m.status = "processing…"
		return m, m.processCmd(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadStateCmd()
		}
	}
	return m, nil
}

// ─── commands ─────────────────────────────────────────────────────────────────

func (m Model) processCmd(input string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.cli.Run(context.Background(), strings.Fields(input))
		return processedMsg{input: input, out: out, err: err}
	}
}

func (m Model) loadCommandsCmd() tea.Cmd {
	return func() tea.Msg {
		commands, err := m.cli.Commands(context.Background())
		if err != nil {
			return commandsLoadedMsg{err: err}
		}
		names := make([]string, 0, len(commands))
		for _, c := range commands {
			names = append(names, c.Name)
			names = append(names, c.Aliases...)
		}
		sort.Strings(names)
		return commandsLoadedMsg{names: names}
	}
}

func (m Model) loadStateCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		snapshot, err := m.app.Snapshot(ctx)
		if err != nil {
			return stateLoadedMsg{err: err}
		}
		events, err := m.app.Events(ctx, eventLimit)
		if err != nil {
			return stateLoadedMsg{err: err}
		}
		return stateLoadedMsg{snapshot: snapshot, events: events}
	}
}

func describe(out clidto.ProcessOutput) string {
	if len(out.Dispatched) == 0 && len(out.Skipped) == 0 {
		return "nothing to do"
	}
	parts := []string{fmt.Sprintf("dispatched %d", len(out.Dispatched))}
	if len(out.Skipped) > 0 {
		parts = append(parts, "skipped "+strings.Join(out.Skipped, ","))
	}
	return strings.Join(parts, ", ")
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).
		Render(theme.Hot.Render(" basecli ")+theme.Muted.Render(" "+m.snapshot.Cwd)) + "\n"
	footer := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		half := max(m.width/2-2, 20)
		state := theme.Pane.Width(half).Height(contentH - 2).Render(m.renderState())
		hist := theme.PaneActive.Width(half).Height(contentH - 2).Render(m.renderHistory())
		content = lipgloss.JoinHorizontal(lipgloss.Top, state, hist)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) renderState() string {
	var sb strings.Builder
	section := func(title string, values map[string]any) {
		sb.WriteString(theme.Title.Render(title) + "\n")
		if len(values) == 0 {
			sb.WriteString(theme.Muted.Render("  (empty)") + "\n")
			return
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s = %v\n", k, values[k])
		}
	}
	section("Cache", m.snapshot.Cache)
	section("Options", m.snapshot.Options)
	section("Data", m.snapshot.Data)
	sb.WriteString(theme.Title.Render("Plugins") + "\n")
	if len(m.snapshot.Plugins) == 0 {
		sb.WriteString(theme.Muted.Render("  (none)") + "\n")
	} else {
		sb.WriteString("  " + strings.Join(m.snapshot.Plugins, ", ") + "\n")
	}
	return sb.String()
}

func (m Model) renderHistory() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("History") + "\n")
	for _, line := range m.history {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n" + theme.Title.Render("Events") + "\n")
	for _, ev := range m.events {
		sb.WriteString(theme.Muted.Render(ev.At.Format("15:04:05")) + " " + ev.Name + " " + strings.Join(ev.Args, " ") + "\n")
	}
	return sb.String()
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render(":tokens  r:refresh  ?:help  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}
