package preview

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/brickc/log"
)

// loadedMsg carries a fresh rendering.
type loadedMsg struct{ res Result }

// loadErrorMsg carries a failed rendering. The previous program stays on
// screen.
type loadErrorMsg struct{ err error }

const (
	defaultWidth  = 80
	defaultHeight = 24

	// chromeLines is the space taken by the title, search and status lines.
	chromeLines = 3

	maxWarningLines = 5
)

// Styles.
var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	lineNoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	matchStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the preview.
type model struct {
	ctxFunc   func() context.Context
	title     string
	load      Loader
	logger    log.Logger
	view      viewport.Model
	search    textinput.Model
	searching bool
	result    Result
	matches   fuzzy.Matches
	err       error
	width     int
	height    int
	quitting  bool
}

// Run starts the preview of the document rendered by load.
func Run(ctx context.Context, title string, load Loader, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "preview start", slog.String("title", title))

	// Fail before entering the alternate screen if the document is broken.
	res, err := load(ctx)
	if err != nil {
		return err
	}

	m := newModel(ctx, title, load, logger)
	m = m.apply(res)

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()

	return err
}

func newModel(ctx context.Context, title string, load Loader, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "task or sub name"
	ti.CharLimit = 64
	ti.Width = defaultWidth - 2

	m := model{
		ctxFunc: func() context.Context { return ctx },
		title:   title,
		load:    load,
		logger:  logger,
		view:    viewport.New(defaultWidth, defaultHeight-chromeLines),
		search:  ti,
		width:   defaultWidth,
		height:  defaultHeight,
	}

	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) reload() tea.Cmd {
	load, ctx := m.load, m.ctxFunc()

	return func() tea.Msg {
		res, err := load(ctx)
		if err != nil {
			return loadErrorMsg{err: err}
		}

		return loadedMsg{res: res}
	}
}

// apply shows res, keeping the scroll position when possible.
func (m model) apply(res Result) model {
	m.result = res
	m.err = nil

	offset := m.view.YOffset
	m.view.SetContent(numbered(res.Text, res.Headers))
	m.view.SetYOffset(offset)
	m.resize()

	return m
}

// resize fits the viewport between the chrome and the warnings pane.
func (m *model) resize() {
	m.view.Width = m.width
	m.view.Height = max(m.height-chromeLines-m.warningLines(), 1)
	m.search.Width = max(m.width-2, 1)
}

func (m model) warningLines() int {
	n := len(m.result.Warnings)
	if m.err != nil {
		n++
	}

	return min(n, maxWarningLines)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

		return m, nil

	case loadedMsg:
		m.logger.TraceContext(m.ctxFunc(), "preview reloaded",
			slog.Int("warnings", len(msg.res.Warnings)),
		)

		return m.apply(msg.res), nil

	case loadErrorMsg:
		m.err = msg.err
		m.resize()

		return m, nil
	}

	var cmd tea.Cmd

	m.view, cmd = m.view.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true

		return m, tea.Quit

	case "r":
		return m, m.reload()

	case "/":
		m.searching = true
		m.search.SetValue("")
		m.matches = nil

		return m, m.search.Focus()
	}

	var cmd tea.Cmd

	m.view, cmd = m.view.Update(msg)

	return m, cmd
}

func (m model) handleSearchKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()

		return m, nil

	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()

		if line, ok := m.jump(); ok {
			m.view.SetYOffset(line)
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.search, cmd = m.search.Update(msg)
	m.matches = fuzzy.Find(m.search.Value(), m.names())

	return m, cmd
}

func (m model) names() []string {
	out := make([]string, len(m.result.Headers))
	for i, h := range m.result.Headers {
		out[i] = h.Name
	}

	return out
}

// jump returns the line of the best match for the search text.
func (m model) jump() (int, bool) {
	if len(m.matches) == 0 {
		return 0, false
	}

	return m.result.Headers[m.matches[0].Index].Line, true
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString(hintStyle.Render(fmt.Sprintf("  %d lines  / search  r reload  q quit",
		strings.Count(m.result.Text, "\n"))))
	b.WriteString("\n")

	b.WriteString(m.view.View())
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(m.candidates())
	}

	return b.String()
}

func (m model) statusLine() string {
	var lines []string

	if m.err != nil {
		lines = append(lines, errorStyle.Render("reload failed: "+m.err.Error()))
	}

	for _, w := range m.result.Warnings {
		lines = append(lines, warningStyle.Render("! "+w))
	}

	if len(lines) == 0 {
		return hintStyle.Render("no warnings")
	}

	if len(lines) > maxWarningLines {
		more := len(lines) - maxWarningLines + 1
		lines = append(lines[:maxWarningLines-1], hintStyle.Render(
			"... "+strconv.Itoa(more)+" more"))
	}

	return strings.Join(lines, "\n")
}

// candidates renders the names matching the last search.
func (m model) candidates() string {
	if len(m.matches) == 0 {
		return ""
	}

	parts := make([]string, 0, len(m.matches))

	for i, match := range m.matches {
		if i == 0 {
			parts = append(parts, matchStyle.Render(match.Str))

			continue
		}

		parts = append(parts, hintStyle.Render(match.Str))
	}

	return strings.Join(parts, " ")
}

// numbered prefixes each line of text with its number and highlights
// subprogram headers.
func numbered(text string, hs []Header) string {
	lines := splitLines(text)
	width := len(strconv.Itoa(len(lines)))

	header := make(map[int]bool, len(hs))
	for _, h := range hs {
		header[h.Line] = true
	}

	var b strings.Builder

	for i, line := range lines {
		b.WriteString(lineNoStyle.Render(fmt.Sprintf("%*d ", width, i+1)))

		if header[i] {
			line = headerStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
