package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	ingestForumDir  string
	ingestCourseDir string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the knowledge base from source files",
	Long: `Rebuilds the knowledge base from downloaded source files.

Forum topics are read as JSON files (one topic's post list per file)
and course pages as markdown files with an original_url front matter
field. Ingestion is destructive: existing collections are dropped and
re-created.

Examples:
  courseqa ingest --forum-dir ./downloaded_threads --course-dir ./markdown_files
  courseqa ingest --course-dir ./markdown_files`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestForumDir, "forum-dir", "", "directory of forum topic JSON files")
	ingestCmd.Flags().StringVar(&ingestCourseDir, "course-dir", "", "directory of course markdown files")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestForumDir == "" && ingestCourseDir == "" {
		return errors.New("at least one of --forum-dir or --course-dir is required")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ing, cleanup, err := newIngestor(store)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := ing.Run(cmd.Context(), ingestForumDir, ingestCourseDir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d forum documents and %d course documents (%d chunks)\n",
		stats.ForumDocuments, stats.CourseDocuments, stats.Chunks)
	if stats.Failed > 0 {
		cmd.Printf("Skipped %d documents due to errors (see --verbose output)\n", stats.Failed)
	}
	return nil
}
