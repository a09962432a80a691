// Package cli implements the courseqa command-line interface using
// cobra. Commands share a lazily-assembled service graph: the chunk
// store and model adapters are only constructed for commands that
// need them.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/campuskit/courseqa/cgo/tesseract"
	"github.com/campuskit/courseqa/internal/adapters/driven/cache/file"
	embeddingopenai "github.com/campuskit/courseqa/internal/adapters/driven/embedding/openai"
	"github.com/campuskit/courseqa/internal/adapters/driven/links"
	llmopenai "github.com/campuskit/courseqa/internal/adapters/driven/llm/openai"
	"github.com/campuskit/courseqa/internal/adapters/driven/storage/sqlite"
	"github.com/campuskit/courseqa/internal/config"
	"github.com/campuskit/courseqa/internal/core/ports/driven"
	"github.com/campuskit/courseqa/internal/core/services"
	"github.com/campuskit/courseqa/internal/logger"
	"github.com/campuskit/courseqa/internal/segmenter"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	flagVerbose bool
	flagConfig  string
)

// cfg is loaded once in the persistent pre-run.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "courseqa",
	Short: "Virtual TA over course content and forum discussions",
	Long: `courseqa answers student questions from indexed course material and
forum discussions, citing the sources it used.

Typical workflow:
  courseqa auth login                  # store the API key
  courseqa ingest --forum-dir ... --course-dir ...
  courseqa ask "When is the project deadline?"
  courseqa serve                       # HTTP API for front-ends`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default ~/.courseqa/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openStore opens the SQLite chunk store using the configured data
// directory. Callers own the returned store.
func openStore() (*sqlite.Store, error) {
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(dataDir)
}

// newEmbedder builds the embedding adapter from config.
func newEmbedder() (driven.EmbeddingService, error) {
	svc, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.EmbeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding service: %w (run 'courseqa auth login' or set OPENAI_API_KEY)", err)
	}
	return svc, nil
}

// newLLM builds the chat adapter from config.
func newLLM() (driven.LLMService, error) {
	svc, err := llmopenai.NewLLMService(llmopenai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.ChatModel,
	})
	if err != nil {
		return nil, fmt.Errorf("llm service: %w (run 'courseqa auth login' or set OPENAI_API_KEY)", err)
	}
	return svc, nil
}

// newQueryService wires the full answer pipeline over the given store.
func newQueryService(store driven.ChunkStore) (*services.QueryService, func(), error) {
	embedder, err := newEmbedder()
	if err != nil {
		return nil, nil, err
	}
	llm, err := newLLM()
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}

	ocr := tesseract.New(cfg.OCRLanguage)
	retriever := services.NewRetrievalEngine(store, cfg.SimilarityThreshold, cfg.MaxResults)
	synthesizer := services.NewSynthesizer(llm)
	query := services.NewQueryService(embedder, retriever, synthesizer, ocr)

	cleanup := func() {
		embedder.Close()
		llm.Close()
		ocr.Close()
	}
	return query, cleanup, nil
}

// newIngestor wires the ingestion pipeline over the given store.
func newIngestor(store driven.ChunkStore) (*services.Ingestor, func(), error) {
	embedder, err := newEmbedder()
	if err != nil {
		return nil, nil, err
	}

	splitter, err := segmenter.New(
		segmenter.WithWindowSize(cfg.ChunkSize),
		segmenter.WithOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}

	var limiter *rate.Limiter
	if cfg.EmbedRatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.EmbedRatePerMinute)/60.0), 1)
	}

	ing := services.NewIngestor(store, embedder, splitter, cfg.ForumBaseURL, limiter)
	return ing, func() { embedder.Close() }, nil
}

// newLinkFixer wires the URL expansion service over the given store.
func newLinkFixer(store driven.ChunkStore) (*services.LinkFixer, error) {
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	cache, err := file.NewLinkCache(filepath.Join(dataDir, file.DefaultFileName))
	if err != nil {
		return nil, err
	}
	resolver := links.NewHTTPResolver(0)
	return services.NewLinkFixer(store, cache, resolver), nil
}
