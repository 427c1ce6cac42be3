// Package statuscmder provides the status command for displaying where
// storyline state lives and what it holds.
package statuscmder

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/cmd/storyline/sqlitepath"
	"github.com/storylinehq/storyline/pkg/bookapi"
	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/config"
	"github.com/storylinehq/storyline/pkg/journal"
	"github.com/storylinehq/storyline/pkg/logger"
	"github.com/storylinehq/storyline/pkg/utils"
)

const statusLongDesc string = `Show the current storyline state.

Displays the resolved config file, the book service target and whether it is
reachable, where the local database lives, the current streak, the number of
journal entries, and the last conversation to resume.

Examples:
  storyline status`

const statusShortDesc string = "Show current storyline state"

type statusCommander struct {
	apiTarget  string
	sqlitePath string
	debug      bool
}

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagAPITarget,
				config.FlagSQLite,
			})

			cmder.apiTarget = v.GetString("client.api_target")
			cmder.sqlitePath = v.GetString("storage.sqlite_path")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd, configDir)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)

	return cmd
}

func (c *statusCommander) run(cmd *cobra.Command, configDir string) error {
	log := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug), logger.WithWriter(os.Stderr))
	ctx := cmd.Context()

	fmt.Println()

	cfger, err := config.NewConfiger(configDir)
	if err == nil && cfger.GetTarget() != "" {
		fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Config:  "), cliui.DimStyle.Render(cfger.GetTarget()))
	} else {
		fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Config:  "), cliui.DimStyle.Render("<none, using defaults>"))
	}

	client := bookapi.New(c.apiTarget, bookapi.WithLogger(log))
	books, err := client.Books(ctx)
	if err != nil {
		fmt.Printf("  %s  %s %s\n",
			cliui.KeyStyle.Render("Service: "),
			cliui.ValueStyle.Render(c.apiTarget),
			cliui.FailMark,
		)
	} else {
		fmt.Printf("  %s  %s %s %s\n",
			cliui.KeyStyle.Render("Service: "),
			cliui.ValueStyle.Render(c.apiTarget),
			cliui.SuccessMark,
			cliui.DimStyle.Render(fmt.Sprintf("(%d books)", len(books))),
		)
	}

	dbPath := sqlitepath.Resolve(c.sqlitePath)
	if dbPath == "" {
		fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Database:"), cliui.DimStyle.Render("<none, state will not persist>"))
	} else {
		fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Database:"), cliui.DimStyle.Render(dbPath))
	}

	store := sqlitepath.Open(c.sqlitePath, log)
	defer func() { _ = store.Close() }()

	streak := journal.NewStreak(store, log).Current(ctx)
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Streak:  "), cliui.NameStyle.Render(strconv.Itoa(streak)+" days"))

	entries := journal.New(store, log).Entries(ctx)
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Journal: "), cliui.NameStyle.Render(strconv.Itoa(len(entries))+" entries"))

	if last, ok := journal.NewSessions(store, log).Last(ctx); ok {
		title := last.BookTitle
		if title == "" {
			title = last.BookID
		}
		preview := utils.Truncate(last.Question, 72)
		fmt.Printf("  %s  %s %s\n",
			cliui.KeyStyle.Render("Resume:  "),
			cliui.NameStyle.Render(title),
			cliui.DimStyle.Render(fmt.Sprintf("%q", preview)),
		)
	} else {
		fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Resume:  "), cliui.DimStyle.Render("<none, next chat starts fresh>"))
	}

	fmt.Println()
	return nil
}
