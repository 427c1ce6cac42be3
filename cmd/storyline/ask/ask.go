// Package askcmder provides the ask command for one-shot questions with a
// streamed answer.
package askcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/cmd/storyline/sqlitepath"
	"github.com/storylinehq/storyline/pkg/bookapi"
	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/config"
	"github.com/storylinehq/storyline/pkg/conversation"
	"github.com/storylinehq/storyline/pkg/journal"
	"github.com/storylinehq/storyline/pkg/logger"
	"github.com/storylinehq/storyline/pkg/storage"
)

const askLongDesc string = `Ask a book a question and stream the answer.

Sends the question to the configured book service and prints the answer as
it streams. The daily streak and resume state are updated on every send.

The book is chosen with --book, falling back to the chat.default_book config
value. When neither is set, the first book in the catalog is used; an empty
catalog rejects the question before any request is made.

Examples:
  storyline ask --book b1 "What is chapter 1 about?"
  storyline ask "Who is the narrator?" --save`

const askShortDesc string = "Ask a book a one-shot question"

type askCommander struct {
	apiTarget  string
	bookID     string
	sqlitePath string
	save       bool
	debug      bool

	logger *slog.Logger
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
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
			})

			cmder.apiTarget = v.GetString("client.api_target")
			cmder.bookID = v.GetString("chat.default_book")
			cmder.sqlitePath = v.GetString("storage.sqlite_path")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			return cmder.run(cmd.Context(), question)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagDefaultBook, &cmder.bookID)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	cmd.Flags().BoolVarP(&cmder.save, "save", "s", false, "Save the answer to the journal")

	return cmd
}

func (c *askCommander) run(ctx context.Context, question string) error {
	c.logger = logger.New(logger.WithPretty(true), logger.WithDebug(c.debug), logger.WithWriter(os.Stderr))

	if question == "" {
		return errors.New("question is empty")
	}

	client := bookapi.New(c.apiTarget, bookapi.WithLogger(c.logger))

	book, err := c.resolveBook(ctx, client)
	if err != nil {
		return err
	}

	store := sqlitepath.Open(c.sqlitePath, c.logger)
	defer func() { _ = store.Close() }()

	fmt.Printf("\n  %s %s\n\n",
		cliui.KeyStyle.Render("Asking"),
		cliui.NameStyle.Render(book.Title),
	)

	transcript := conversation.New()
	transcript.AppendUser(question)
	open, err := transcript.BeginBook()
	if err != nil {
		return err
	}

	answer, streamErr := c.stream(ctx, client, book.ID, question, transcript, open.ID)
	if streamErr != nil {
		transcript.FailBook(open.ID)
		fmt.Printf("\n\n  %s %s\n\n", cliui.FailMark, conversation.FallbackAnswer)
		c.logger.Error("streaming answer", "book", book.ID, "err", streamErr)
	} else {
		transcript.CloseBook(open.ID)
		fmt.Println()
		fmt.Println()
	}

	// Persistence failures degrade; the answer was already printed.
	c.recordSend(ctx, store, book, question)

	if c.save && streamErr == nil {
		j := journal.New(store, c.logger)
		entry, err := j.Save(ctx, book.ID, question, answer)
		if err != nil {
			c.logger.Warn("saving to journal", "err", err)
		} else {
			fmt.Printf("  %s Saved to journal %s\n\n",
				cliui.SuccessMark,
				cliui.DimStyle.Render("("+entry.ID+")"),
			)
		}
	}

	return nil
}

// resolveBook picks the book to ask: the --book flag or chat.default_book
// when set, otherwise the first book in the catalog. An empty catalog with
// no explicit book rejects the question before any request is made.
func (c *askCommander) resolveBook(ctx context.Context, client *bookapi.Client) (bookapi.Book, error) {
	books, err := client.Books(ctx)
	if err != nil {
		c.logger.Warn("fetching catalog", "err", err)
		books = nil
	}

	if c.bookID != "" {
		for _, book := range books {
			if book.ID == c.bookID {
				return book, nil
			}
		}
		// The configured book may exist even when the catalog fetch failed.
		return bookapi.Book{ID: c.bookID, Title: c.bookID}, nil
	}

	if len(books) == 0 {
		return bookapi.Book{}, errors.New("no books available to ask; pass --book or try again later")
	}

	return books[0], nil
}

// stream prints deltas as they arrive and returns the full answer text.
func (c *askCommander) stream(ctx context.Context, client *bookapi.Client, bookID, question string, transcript *conversation.Transcript, messageID string) (string, error) {
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

// recordSend updates the streak and resume state after a question is sent.
func (c *askCommander) recordSend(ctx context.Context, store storage.Store, book bookapi.Book, question string) {
	streak := journal.NewStreak(store, c.logger)
	count, err := streak.Touch(ctx, time.Now())
	if err != nil {
		c.logger.Warn("updating streak", "err", err)
	} else if count > 1 {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("🔥 %d day streak", count)))
	}

	sessions := journal.NewSessions(store, c.logger)
	if err := sessions.Remember(ctx, journal.Session{
		BookID:    book.ID,
		Question:  question,
		BookTitle: book.Title,
	}); err != nil {
		c.logger.Warn("remembering session", "err", err)
	}
}
