// Package storylinecmder
package storylinecmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/storylinehq/storyline/cmd/storyline/ask"
	bookscmder "github.com/storylinehq/storyline/cmd/storyline/books"
	chatcmder "github.com/storylinehq/storyline/cmd/storyline/chat"
	configcmder "github.com/storylinehq/storyline/cmd/storyline/config"
	initcmder "github.com/storylinehq/storyline/cmd/storyline/init"
	journalcmder "github.com/storylinehq/storyline/cmd/storyline/journal"
	promptcmder "github.com/storylinehq/storyline/cmd/storyline/prompt"
	statuscmder "github.com/storylinehq/storyline/cmd/storyline/status"
	streakcmder "github.com/storylinehq/storyline/cmd/storyline/streak"
	versioncmder "github.com/storylinehq/storyline/cmd/version"
)

const storylineLongDesc string = `Storyline lets you talk to books.

Browse a catalog of books and hold a conversation with an assistant that
answers in each book's voice:
  storyline books              List the catalog
  storyline ask "..."          Ask a one-shot question
  storyline chat               Start an interactive session
  storyline journal            Browse saved answers`

const storylineShortDesc string = "Storyline - conversations with books"

func NewStorylineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storyline",
		Short: storylineShortDesc,
		Long:  storylineLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .storyline/ directory")

	// Add subcommands
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(bookscmder.NewBooksCmd())
	cmd.AddCommand(journalcmder.NewJournalCmd())
	cmd.AddCommand(streakcmder.NewStreakCmd())
	cmd.AddCommand(promptcmder.NewPromptCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
