package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Manage stored forum links",
}

var linksFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Expand short forum URLs to their canonical form",
	Long: `Expands stored short forum URLs (/t/<topic>/<post>) to their
canonical slugged form by following the forum's redirects.

Resolved topics are cached on disk, so re-running only contacts the
forum for topics not seen before.`,
	RunE: runLinksFix,
}

func init() {
	linksCmd.AddCommand(linksFixCmd)
	rootCmd.AddCommand(linksCmd)
}

func runLinksFix(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	fixer, err := newLinkFixer(store)
	if err != nil {
		return err
	}

	updated, err := fixer.FixForumURLs(cmd.Context())
	if err != nil {
		return fmt.Errorf("link fix failed: %w", err)
	}

	cmd.Printf("Updated %d links\n", updated)
	return nil
}
