// Package bookscmder provides the books command for listing the catalog
// served by the book service.
package bookscmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/pkg/bookapi"
	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/config"
	"github.com/storylinehq/storyline/pkg/logger"
)

const booksLongDesc string = `List the books available to talk to.

Fetches the catalog from the configured book service and prints each book's
id, title, and author. Use a book's id with "storyline ask --book" or inside
"storyline chat".

Examples:
  storyline books
  storyline books --api-target http://localhost:8080`

const booksShortDesc string = "List the book catalog"

type booksCommander struct {
	apiTarget string
	debug     bool
}

func NewBooksCmd() *cobra.Command {
	cmder := &booksCommander{}

	cmd := &cobra.Command{
		Use:   "books",
		Short: booksShortDesc,
		Long:  booksLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagAPITarget})
			cmder.apiTarget = v.GetString("client.api_target")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)

	return cmd
}

func (c *booksCommander) run(cmd *cobra.Command) error {
	log := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug), logger.WithWriter(os.Stderr))
	client := bookapi.New(c.apiTarget, bookapi.WithLogger(log))

	var books []bookapi.Book
	err := cliui.Step(os.Stderr, "Fetching catalog", func() error {
		var err error
		books, err = client.Books(cmd.Context())
		return err
	})
	if err != nil {
		return fmt.Errorf("fetching catalog: %w", err)
	}

	if len(books) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("The catalog is empty."))
		return nil
	}

	fmt.Println()
	for _, book := range books {
		fmt.Printf("  %s  %s %s\n",
			cliui.KeyStyle.Render(book.ID),
			cliui.NameStyle.Render(book.Title),
			cliui.DimStyle.Render("by "+book.Author),
		)
		if book.Tagline != "" {
			fmt.Printf("      %s\n", cliui.DimStyle.Render(book.Tagline))
		}
	}
	fmt.Println()

	return nil
}
