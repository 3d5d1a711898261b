package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shaun-Gulati/internal-assistant/internal/adapters/driving/tui"
)

// runApp runs the TUI program. Replaced in tests.
var runApp = func(app *tui.App) error {
	return app.Run()
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface for searching the store
and managing uploaded documents as the current role.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Search / Open
  ctrl+u   - Toggle uploaded documents only
  d        - Delete document (documents view)
  Esc      - Back
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, err := tui.NewApp(&tui.Ports{
		Search:   searchService,
		Document: documentService,
		Role:     currentRole(),
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
