// Package configcmder provides the config command for managing persistent
// storyline configuration stored in the .storyline/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent storyline configuration.

Configuration is stored as config.toml in the .storyline/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  client.api_target, storage.sqlite_path,
  chat.default_book, chat.markdown

Use subcommands to get, set, or list configuration values:
  storyline config set <key> <value>    Set a configuration value
  storyline config get <key>            Get a configuration value
  storyline config list                 List all configuration values

Examples:
  storyline config set client.api_target http://localhost:8080
  storyline config set chat.default_book b1
  storyline config get chat.markdown
  storyline config list`

const configShortDesc string = "Manage persistent storyline configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
