// Package chatcmder provides the chat command for interactive conversations
// with a book.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/storylinehq/storyline/cmd/storyline/sqlitepath"
	"github.com/storylinehq/storyline/pkg/bookapi"
	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/config"
	"github.com/storylinehq/storyline/pkg/conversation"
	"github.com/storylinehq/storyline/pkg/journal"
	"github.com/storylinehq/storyline/pkg/logger"
	"github.com/storylinehq/storyline/pkg/prompts"
	"github.com/storylinehq/storyline/pkg/storage"
)

var (
	userPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	bookPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const chatLongDesc string = `Start an interactive chat session with a book.

Messages stream back live in the book's voice. The daily streak and resume
state are updated on every send; one answer streams at a time.

If a previous session exists, a resume banner shows the book and question you
left off with. The config file is watched while chatting, so changing
client.api_target takes effect on the next question.

Session commands:
  /books          List the catalog
  /book <id>      Switch to another book
  /save           Save the last answer to the journal
  /prompt         Show today's book-club prompt
  /exit           Leave the session

Examples:
  storyline chat
  storyline chat --book b1
  storyline chat --tui`

const chatShortDesc string = "Interactive chat with a book"

type chatCommander struct {
	apiTarget  string
	bookID     string
	sqlitePath string
	markdown   bool
	tui        bool
	debug      bool

	viper  *viper.Viper
	logger *slog.Logger
	store  storage.Store
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagAPITarget,
				config.FlagDefaultBook,
				config.FlagSQLite,
				config.FlagMarkdown,
			})

			// Pick up config edits between turns.
			v.OnConfigChange(func(e fsnotify.Event) {
				if cmder.logger != nil {
					cmder.logger.Debug("config file changed", "file", e.Name)
				}
			})
			v.WatchConfig()

			cmder.viper = v
			cmder.apiTarget = v.GetString("client.api_target")
			cmder.bookID = v.GetString("chat.default_book")
			cmder.sqlitePath = v.GetString("storage.sqlite_path")
			cmder.markdown = v.GetBool("chat.markdown")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagDefaultBook, &cmder.bookID)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddBoolFlag(cmd, config.Flags, config.FlagMarkdown, &cmder.markdown)
	cmd.Flags().BoolVar(&cmder.tui, "tui", false, "Use the full-screen interface")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	c.logger = logger.New(logger.WithPretty(true), logger.WithDebug(c.debug), logger.WithWriter(os.Stderr))

	c.store = sqlitepath.Open(c.sqlitePath, c.logger)
	defer func() { _ = c.store.Close() }()

	client := bookapi.New(c.apiTarget, bookapi.WithLogger(c.logger))

	var books []bookapi.Book
	err := cliui.Step(os.Stderr, "Fetching catalog", func() error {
		var err error
		books, err = client.Books(ctx)
		return err
	})
	if err != nil {
		// Chatting without a catalog still works when a book id is known.
		c.logger.Warn("fetching catalog", "err", err)
		books = nil
	}

	if c.tui {
		return c.runTUI(ctx, client, books)
	}

	return c.runREPL(ctx, client, books)
}

func (c *chatCommander) runREPL(ctx context.Context, client *bookapi.Client, books []bookapi.Book) error {
	selected, ok := c.pickBook(books, c.bookID)

	fmt.Println()
	c.printResumeBanner(ctx)
	c.printStreakBanner(ctx)
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Today's prompt:"), cliui.DimStyle.Render(prompts.Today()))

	if ok {
		fmt.Printf("  %s %s\n\n",
			cliui.KeyStyle.Render("Talking to:"),
			cliui.NameStyle.Render(selected.Title),
		)
	} else {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("No book selected. Use /books to list and /book <id> to choose."))
	}

	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your question and press Enter. /exit or Ctrl+D to quit."))

	transcript := conversation.New()
	streak := journal.NewStreak(c.store, c.logger)
	sessions := journal.NewSessions(c.store, c.logger)
	j := journal.New(c.store, c.logger)

	var lastQuestion, lastAnswer string

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			done, newBook := c.handleCommand(ctx, input, client, &books, j, lastQuestion, lastAnswer, selected)
			if newBook != nil {
				selected = *newBook
				ok = true
			}
			if done {
				break
			}
			continue
		}

		if !ok {
			fmt.Printf("  %s\n\n", cliui.DimStyle.Render("No book selected yet. Use /books to list and /book <id> to choose."))
			continue
		}

		// The config file may have changed between turns.
		if target := c.viper.GetString("client.api_target"); target != c.apiTarget {
			c.logger.Debug("api target changed", "from", c.apiTarget, "to", target)
			c.apiTarget = target
			client = bookapi.New(c.apiTarget, bookapi.WithLogger(c.logger))
		}

		transcript.AppendUser(input)
		open, err := transcript.BeginBook()
		if err != nil {
			// Sends are serialized; the REPL never leaves a message open.
			return err
		}

		fmt.Print(bookPrompt.Render(selected.Title + "> "))

		answer, streamErr := c.stream(ctx, client, selected.ID, input, transcript, open.ID)
		if streamErr != nil {
			transcript.FailBook(open.ID)
			fmt.Printf("%s\n\n", conversation.FallbackAnswer)
			c.logger.Debug("streaming answer", "book", selected.ID, "err", streamErr)
			lastQuestion, lastAnswer = "", ""
		} else {
			transcript.CloseBook(open.ID)
			fmt.Println()
			fmt.Println()
			lastQuestion, lastAnswer = input, answer
		}

		if _, err := streak.Touch(ctx, time.Now()); err != nil {
			c.logger.Warn("updating streak", "err", err)
		}
		if err := sessions.Remember(ctx, journal.Session{
			BookID:    selected.ID,
			Question:  input,
			BookTitle: selected.Title,
		}); err != nil {
			c.logger.Warn("remembering session", "err", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// handleCommand processes a /command line. It returns whether the session
// should end and, when /book switched successfully, the newly selected book.
func (c *chatCommander) handleCommand(
	ctx context.Context,
	input string,
	client *bookapi.Client,
	books *[]bookapi.Book,
	j *journal.Journal,
	lastQuestion, lastAnswer string,
	selected bookapi.Book,
) (bool, *bookapi.Book) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/exit":
		return true, nil

	case "/books":
		if len(*books) == 0 {
			fetched, err := client.Books(ctx)
			if err != nil {
				fmt.Printf("  %s %v\n\n", cliui.FailMark, err)
				return false, nil
			}
			*books = fetched
		}
		if len(*books) == 0 {
			fmt.Printf("  %s\n\n", cliui.DimStyle.Render("The catalog is empty."))
			return false, nil
		}
		fmt.Println()
		for _, book := range *books {
			fmt.Printf("  %s  %s %s\n",
				cliui.KeyStyle.Render(book.ID),
				cliui.NameStyle.Render(book.Title),
				cliui.DimStyle.Render("by "+book.Author),
			)
		}
		fmt.Println()

	case "/book":
		if arg == "" {
			fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Usage: /book <id>"))
			return false, nil
		}
		book, ok := c.pickBook(*books, arg)
		if !ok {
			fmt.Printf("  %s Unknown book %q\n\n", cliui.FailMark, arg)
			return false, nil
		}
		fmt.Printf("  %s Now talking to %s\n\n", cliui.SuccessMark, cliui.NameStyle.Render(book.Title))
		return false, &book

	case "/save":
		if lastAnswer == "" {
			fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Nothing to save yet."))
			return false, nil
		}
		entry, err := j.Save(ctx, selected.ID, lastQuestion, lastAnswer)
		if err != nil {
			fmt.Printf("  %s %v\n\n", cliui.FailMark, err)
			return false, nil
		}
		fmt.Printf("  %s Saved to journal %s\n\n", cliui.SuccessMark, cliui.DimStyle.Render("("+entry.ID+")"))

	case "/prompt":
		fmt.Printf("  %s\n\n", cliui.NameStyle.Render(prompts.Today()))

	default:
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Unknown command. Try /books, /book <id>, /save, /prompt, /exit."))
	}

	return false, nil
}

// pickBook resolves a book by id, falling back to the first book in the
// catalog when no id is given. ok is false when nothing can be resolved.
func (c *chatCommander) pickBook(books []bookapi.Book, id string) (bookapi.Book, bool) {
	if id != "" {
		for _, book := range books {
			if book.ID == id {
				return book, true
			}
		}
		if len(books) == 0 {
			// The catalog fetch may have failed; trust the explicit id.
			return bookapi.Book{ID: id, Title: id}, true
		}
		return bookapi.Book{}, false
	}

	if len(books) == 0 {
		return bookapi.Book{}, false
	}

	return books[0], true
}

// stream prints deltas as they arrive and returns the full answer text.
func (c *chatCommander) stream(ctx context.Context, client *bookapi.Client, bookID, question string, transcript *conversation.Transcript, messageID string) (string, error) {
	answerStream, err := client.Ask(ctx, bookID, question)
	if err != nil {
		return "", err
	}
	defer func() { _ = answerStream.Close() }()

	for {
		delta, err := answerStream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return answerStream.Text(), err
		}

		transcript.AppendDelta(messageID, delta)
		fmt.Print(delta)
	}

	return answerStream.Text(), nil
}

func (c *chatCommander) printResumeBanner(ctx context.Context) {
	sessions := journal.NewSessions(c.store, c.logger)
	last, ok := sessions.Last(ctx)
	if !ok {
		fmt.Printf("  %s New conversation\n", cliui.DimStyle.Render("●"))
		return
	}

	title := last.BookTitle
	if title == "" {
		title = last.BookID
	}
	fmt.Printf("  %s Last time you asked %s: %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(title),
		cliui.DimStyle.Render(fmt.Sprintf("%q", last.Question)),
	)
}

func (c *chatCommander) printStreakBanner(ctx context.Context) {
	streak := journal.NewStreak(c.store, c.logger)
	if count := streak.Current(ctx); count > 0 {
		fmt.Printf("  %s\n", cliui.DimStyle.Render(fmt.Sprintf("🔥 %d day streak", count)))
	}
}
