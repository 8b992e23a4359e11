package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/services"
	"github.com/custodia-labs/examprep/internal/postprocessors/chunker"
)

var (
	indexInputDir         string
	indexEmbedConcurrency int
	indexChunkSize        int
	indexChunkOverlap     int
)

var indexCmd = &cobra.Command{
	Use:   "index-markdown",
	Short: "Embed vision-processed markdown into the vector collection",
	Long: `Finds every *_vision_processed.md file under --input-dir, splits it into
pages and overlapping chunks, embeds the chunks, and stores them in the
vector collection together with their page metadata.

Files are embedded concurrently. Nothing is written until every file has
finished; a file whose embedding fails is dropped as a whole.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexInputDir, "input-dir", domain.DefaultMarkdownDir,
		"directory containing *_vision_processed.md files")
	indexCmd.Flags().IntVar(&indexEmbedConcurrency, "embed-concurrency", domain.DefaultEmbedConcurrency,
		"maximum concurrent embedding calls")
	indexCmd.Flags().IntVar(&indexChunkSize, "chunk-size", chunker.DefaultChunkSize,
		"characters per chunk")
	indexCmd.Flags().IntVar(&indexChunkOverlap, "chunk-overlap", chunker.DefaultChunkOverlap,
		"characters shared by consecutive chunks")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	embedder, err := deps.Embedder(ctx, &settings.AI)
	if err != nil {
		return err
	}
	defer embedder.Close()

	store, coll, err := openCollection(ctx, settings, embedder.ModelName(), true)
	if err != nil {
		return err
	}
	defer store.Close()
	cmd.Printf("Indexing into collection %q at %s\n", coll.Name(), settings.Store.Path)

	svc := services.NewIndexingService(embedder, coll,
		services.WithEmbedConcurrency(indexEmbedConcurrency),
		services.WithChunker(chunker.New(
			chunker.WithChunkSize(indexChunkSize),
			chunker.WithOverlap(indexChunkOverlap),
		)),
	)
	summary, err := svc.IndexDir(ctx, indexInputDir)
	if err != nil && !errors.Is(err, services.ErrWriteIncomplete) {
		return fmt.Errorf("index %s: %w", indexInputDir, err)
	}

	if summary.FilesFound == 0 {
		cmd.Printf("No %s files found in %s\n", domain.VisionProcessedPattern, indexInputDir)
		return nil
	}

	printIndexSummary(cmd, summary)
	if err != nil {
		cmd.PrintErrln(styleWarning(fmt.Sprintf("Warning: %v", err)))
		return nil
	}

	if total, cerr := coll.Count(ctx); cerr == nil {
		cmd.Printf("Collection %q now holds %d records\n", coll.Name(), total)
	}
	return nil
}

func printIndexSummary(cmd *cobra.Command, s *domain.IndexSummary) {
	cmd.Println(styleHeading("Indexing summary"))
	cmd.Printf("  Files found:      %d\n", s.FilesFound)
	cmd.Printf("  Files indexed:    %d\n", s.FilesIndexed)
	cmd.Printf("  Files dropped:    %d\n", s.FilesDropped)
	cmd.Printf("  Records prepared: %d\n", s.RecordsPrepared)
	cmd.Printf("  Records written:  %d\n", s.RecordsWritten)
}
