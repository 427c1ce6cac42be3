// Package streakcmder provides the streak command for showing the daily
// activity streak.
package streakcmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/cmd/storyline/sqlitepath"
	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/config"
	"github.com/storylinehq/storyline/pkg/journal"
	"github.com/storylinehq/storyline/pkg/logger"
)

const streakLongDesc string = `Show the current daily streak.

The streak counts consecutive days with at least one question sent. Asking
on consecutive days grows it; skipping a day resets it to one on the next
question.

Examples:
  storyline streak`

const streakShortDesc string = "Show the daily streak"

type streakCommander struct {
	sqlitePath string
	debug      bool
}

func NewStreakCmd() *cobra.Command {
	cmder := &streakCommander{}

	cmd := &cobra.Command{
		Use:   "streak",
		Short: streakShortDesc,
		Long:  streakLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagSQLite})
			cmder.sqlitePath = v.GetString("storage.sqlite_path")
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)

	return cmd
}

func (c *streakCommander) run(cmd *cobra.Command) error {
	log := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug), logger.WithWriter(os.Stderr))

	store := sqlitepath.Open(c.sqlitePath, log)
	defer func() { _ = store.Close() }()

	count := journal.NewStreak(store, log).Current(cmd.Context())

	switch count {
	case 0:
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No streak yet. Ask a book something today!"))
	case 1:
		fmt.Printf("\n  🔥 %s %s\n\n",
			cliui.NameStyle.Render("1 day streak"),
			cliui.DimStyle.Render("come back tomorrow to keep it going"),
		)
	default:
		fmt.Printf("\n  🔥 %s\n\n", cliui.NameStyle.Render(fmt.Sprintf("%d day streak", count)))
	}

	return nil
}
