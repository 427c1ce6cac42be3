// Package promptcmder provides the prompt command for showing the daily
// book-club prompt.
package promptcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storylinehq/storyline/pkg/cliui"
	"github.com/storylinehq/storyline/pkg/prompts"
)

const promptLongDesc string = `Show today's book-club prompt.

The prompt rotates once per UTC day through a fixed list, so everyone sees
the same prompt on the same day. Use it as a conversation starter in
"storyline chat".

Examples:
  storyline prompt`

const promptShortDesc string = "Show today's book-club prompt"

func NewPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: promptShortDesc,
		Long:  promptLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Printf("\n  %s\n\n", cliui.NameStyle.Render(prompts.Today()))
			return nil
		},
	}
}
