package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/campuskit/courseqa/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Type a question and press Enter; answers and their source links
accumulate in a scrollable history.

Controls:
  Enter    - Ask
  ↑/↓      - Scroll history
  Esc, q   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Panic recovery so terminal state and a stack trace survive crashes
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	query, cleanup, err := newQueryService(store)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := tui.Run(query); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
