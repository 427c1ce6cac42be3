package chatcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/storylinehq/storyline/pkg/bookapi"
	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/conversation"
	"github.com/storylinehq/storyline/pkg/journal"
	"github.com/storylinehq/storyline/pkg/prompts"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

var (
	tuiTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	tuiHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	tuiUserStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	tuiBookStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	tuiDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tuiErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type chatState int

const (
	statePicking chatState = iota
	stateChatting
)

type chatKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Save  key.Binding
	Books key.Binding
	Quit  key.Binding
}

func (k chatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Save, k.Books, k.Quit}
}

func (k chatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Save, k.Books, k.Quit},
	}
}

var chatKeys = chatKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save answer"),
	),
	Books: key.NewBinding(
		key.WithKeys("ctrl+b"),
		key.WithHelp("ctrl+b", "switch book"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

// Stream lifecycle messages. One in-flight answer at a time; input stays
// disabled until streamDoneMsg or streamErrMsg arrives.
type (
	streamStartedMsg struct{ stream *bookapi.AnswerStream }
	deltaMsg         struct{ delta string }
	streamDoneMsg    struct{}
	streamErrMsg     struct{ err error }
	savedMsg         struct {
		id  string
		err error
	}
)

type chatModel struct {
	ctx    context.Context
	client *bookapi.Client

	state    chatState
	books    []bookapi.Book
	cursor   int
	selected bookapi.Book

	transcript *conversation.Transcript
	openID     string
	streaming  bool
	stream     *bookapi.AnswerStream

	streak   *journal.Streak
	sessions *journal.Sessions
	journal  *journal.Journal

	lastQuestion string
	lastAnswer   string
	streakCount  int
	resumeLine   string
	notice       string
	markdown     bool

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     chatKeyMap

	width  int
	height int
	ready  bool
}

func (c *chatCommander) runTUI(ctx context.Context, client *bookapi.Client, books []bookapi.Book) error {
	input := textinput.New()
	input.Placeholder = "Ask the book anything"
	input.Prompt = tuiUserStyle.Render("> ")
	input.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	streak := journal.NewStreak(c.store, c.logger)
	sessions := journal.NewSessions(c.store, c.logger)

	m := chatModel{
		ctx:        ctx,
		client:     client,
		state:      statePicking,
		books:      books,
		transcript: conversation.New(),
		streak:     streak,
		sessions:   sessions,
		journal:    journal.New(c.store, c.logger),
		markdown:   c.markdown,
		input:      input,
		spinner:    sp,
		help:       help.New(),
		keys:       chatKeys,
	}

	m.streakCount = streak.Current(ctx)
	if last, ok := sessions.Last(ctx); ok {
		title := last.BookTitle
		if title == "" {
			title = last.BookID
		}
		m.resumeLine = fmt.Sprintf("Last time you asked %s: %q", title, last.Question)
	}

	// An explicit book skips the picker, even with an empty catalog.
	if book, ok := c.pickBook(books, c.bookID); ok && c.bookID != "" {
		m.selected = book
		m.state = stateChatting
		m.input.Focus()
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m chatModel) Init() tea.Cmd {
	if m.state == stateChatting {
		return tea.Batch(textinput.Blink, m.spinner.Tick)
	}
	return m.spinner.Tick
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 6
		m.help.Width = msg.Width

		vpHeight := msg.Height - 8
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			// Quitting mid-stream discards any remaining deltas.
			if m.stream != nil {
				_ = m.stream.Close()
			}
			return m, tea.Quit
		}

		if m.state == statePicking {
			return m.updatePicking(msg)
		}
		return m.updateChatting(msg)

	case streamStartedMsg:
		m.stream = msg.stream
		return m, nextDeltaCmd(msg.stream)

	case deltaMsg:
		m.transcript.AppendDelta(m.openID, msg.delta)
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nextDeltaCmd(m.stream)

	case streamDoneMsg:
		m.transcript.CloseBook(m.openID)
		m.lastAnswer = m.stream.Text()
		_ = m.stream.Close()
		m.stream = nil
		m.openID = ""
		m.streaming = false
		m.input.Focus()
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, m.recordSendCmd()

	case streamErrMsg:
		m.transcript.FailBook(m.openID)
		if m.stream != nil {
			_ = m.stream.Close()
			m.stream = nil
		}
		m.openID = ""
		m.streaming = false
		m.lastAnswer = ""
		m.input.Focus()
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, m.recordSendCmd()

	case streakTouchedMsg:
		if msg.count > 0 {
			m.streakCount = msg.count
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.notice = tuiErrStyle.Render("Could not save: " + msg.err.Error())
		} else {
			m.notice = tuiDimStyle.Render("Saved to journal (" + msg.id + ")")
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == stateChatting && !m.streaming {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m chatModel) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.books)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Enter):
		if len(m.books) == 0 {
			return m, nil
		}
		m.selected = m.books[m.cursor]
		m.state = stateChatting
		m.input.Focus()
		m.refreshViewport()
		return m, textinput.Blink
	}
	return m, nil
}

func (m chatModel) updateChatting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Books):
		if m.streaming || len(m.books) == 0 {
			return m, nil
		}
		m.state = statePicking
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if m.streaming || m.lastAnswer == "" {
			return m, nil
		}
		return m, m.saveCmd()

	case key.Matches(msg, m.keys.Enter):
		if m.streaming {
			return m, nil
		}
		question := strings.TrimSpace(m.input.Value())
		if question == "" {
			return m, nil
		}

		m.transcript.AppendUser(question)
		open, err := m.transcript.BeginBook()
		if err != nil {
			return m, nil
		}
		m.openID = open.ID
		m.streaming = true
		m.lastQuestion = question
		m.lastAnswer = ""
		m.notice = ""
		m.input.SetValue("")
		m.input.Blur()
		m.refreshViewport()
		m.viewport.GotoBottom()

		return m, tea.Batch(
			askCmd(m.ctx, m.client, m.selected.ID, question),
			m.spinner.Tick,
		)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	if m.state == statePicking {
		return m.viewPicker()
	}
	return m.viewChat()
}

func (m chatModel) viewPicker() string {
	var b strings.Builder

	b.WriteString("\n  " + tuiTitleStyle.Render("Choose a book") + "\n\n")

	if m.resumeLine != "" {
		b.WriteString("  " + tuiDimStyle.Render(m.resumeLine) + "\n")
	}
	if m.streakCount > 0 {
		b.WriteString("  " + tuiDimStyle.Render(fmt.Sprintf("🔥 %d day streak", m.streakCount)) + "\n")
	}
	b.WriteString("  " + tuiDimStyle.Render("Today's prompt: "+prompts.Today()) + "\n\n")

	if len(m.books) == 0 {
		b.WriteString("  " + tuiDimStyle.Render("The catalog is empty. Try again later.") + "\n")
	}

	for i, book := range m.books {
		cursor := "  "
		line := fmt.Sprintf("%s by %s", book.Title, book.Author)
		if i == m.cursor {
			cursor = tuiCursorStyle.Render("> ")
			line = tuiTitleStyle.Render(line)
		} else {
			line = tuiHeaderStyle.Render(line)
		}
		b.WriteString("  " + cursor + line + "\n")
		if book.Tagline != "" {
			b.WriteString("      " + tuiDimStyle.Render(book.Tagline) + "\n")
		}
	}

	b.WriteString("\n  " + m.help.View(m.keys))
	return b.String()
}

func (m chatModel) viewChat() string {
	var b strings.Builder

	header := tuiTitleStyle.Render(m.selected.Title)
	if m.streakCount > 0 {
		header += tuiDimStyle.Render(fmt.Sprintf("  🔥 %d", m.streakCount))
	}
	b.WriteString("\n  " + header + "\n\n")

	b.WriteString(m.viewport.View() + "\n\n")

	if m.streaming {
		b.WriteString("  " + m.spinner.View() + tuiDimStyle.Render(" thinking…") + "\n")
	} else {
		b.WriteString("  " + m.input.View() + "\n")
	}

	if m.notice != "" {
		b.WriteString("  " + m.notice + "\n")
	}

	b.WriteString("  " + m.help.View(m.keys))
	return b.String()
}

func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.viewport.Width - 4
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for _, msg := range m.transcript.Messages() {
		switch msg.Role {
		case conversation.RoleUser:
			b.WriteString("  " + tuiUserStyle.Render("you") + "\n")
			b.WriteString(indent(wrap.Render(msg.Content)) + "\n\n")
		case conversation.RoleBook:
			b.WriteString("  " + tuiBookStyle.Render(m.selected.Title) + "\n")
			content := msg.Content
			if content == "" && msg.ID == m.openID {
				content = "…"
			}
			if m.markdown && msg.ID != m.openID {
				if rendered, err := cliui.RenderMarkdown(content); err == nil {
					content = strings.TrimRight(rendered, "\n")
				}
			}
			b.WriteString(indent(wrap.Render(content)) + "\n\n")
		}
	}

	m.viewport.SetContent(b.String())
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}

// askCmd opens the answer stream for one question.
func askCmd(ctx context.Context, client *bookapi.Client, bookID, question string) tea.Cmd {
	return func() tea.Msg {
		stream, err := client.Ask(ctx, bookID, question)
		if err != nil {
			return streamErrMsg{err: err}
		}
		return streamStartedMsg{stream: stream}
	}
}

// nextDeltaCmd pulls one delta off the stream. The Update loop re-issues it
// after every deltaMsg until EOF.
func nextDeltaCmd(stream *bookapi.AnswerStream) tea.Cmd {
	return func() tea.Msg {
		delta, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return streamDoneMsg{}
		}
		if err != nil {
			return streamErrMsg{err: err}
		}
		return deltaMsg{delta: delta}
	}
}

type streakTouchedMsg struct{ count int }

// recordSendCmd updates the streak and resume state off the UI loop.
func (m chatModel) recordSendCmd() tea.Cmd {
	ctx := m.ctx
	streak := m.streak
	sessions := m.sessions
	session := journal.Session{
		BookID:    m.selected.ID,
		Question:  m.lastQuestion,
		BookTitle: m.selected.Title,
	}

	return func() tea.Msg {
		count, _ := streak.Touch(ctx, time.Now())
		_ = sessions.Remember(ctx, session)
		return streakTouchedMsg{count: count}
	}
}

func (m chatModel) saveCmd() tea.Cmd {
	ctx := m.ctx
	j := m.journal
	bookID := m.selected.ID
	question := m.lastQuestion
	answer := m.lastAnswer

	return func() tea.Msg {
		entry, err := j.Save(ctx, bookID, question, answer)
		if err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{id: entry.ID}
	}
}
