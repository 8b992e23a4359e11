package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/examprep/internal/adapters/driven/ai"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/services"
)

var (
	guideTopicsFile string
	guideOutputFile string
	guideConcurrent int
	guideResults    int
)

var guideCmd = &cobra.Command{
	Use:   "build-guide",
	Short: "Generate a study guide from structured topics",
	Long: `For each topic, retrieves the closest chunks from the vector collection and
asks the synthesis model for an explanation augmented with general knowledge.
Sections keep the order of the topics file.

The guide is written as markdown; an output path ending in .html is rendered
to HTML instead.`,
	Args: cobra.NoArgs,
	RunE: runGuide,
}

func init() {
	guideCmd.Flags().StringVar(&guideTopicsFile, "topics-file", domain.DefaultStructuredTopicsFile,
		"structured topics file")
	guideCmd.Flags().StringVar(&guideOutputFile, "output-file", domain.DefaultGuideFile, "guide output file")
	guideCmd.Flags().IntVar(&guideConcurrent, "concurrency", domain.DefaultGenerateConcurrency,
		"maximum concurrent generation calls")
	guideCmd.Flags().IntVarP(&guideResults, "n-results", "n", domain.DefaultResults,
		"number of chunks to retrieve per topic")
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	topics, err := deps.Topics.Load(guideTopicsFile)
	if err != nil {
		return fmt.Errorf("read topics: %w", err)
	}
	if len(topics) == 0 {
		cmd.Printf("No topics found in %s. Nothing to generate.\n", guideTopicsFile)
		return nil
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	embedder, err := deps.Embedder(ctx, &settings.AI)
	if err != nil {
		return err
	}
	defer embedder.Close()

	store, coll, err := openCollection(ctx, settings, embedder.ModelName(), false)
	if err != nil {
		return err
	}
	defer store.Close()

	llm, err := deps.LLM(ctx, &settings.AI, ai.RoleSynthesis)
	if err != nil {
		return err
	}
	defer llm.Close()

	cmd.Printf("Generating %d sections with %s (concurrency %d)\n", len(topics), llm.ModelName(), guideConcurrent)

	retriever := services.NewRetrievalService(embedder, coll)
	svc := services.NewGuideService(llm, deps.Prompts(settings.PromptsDir), retriever, guideConcurrent, guideResults)
	sections, err := svc.Build(ctx, topics)
	if err != nil {
		return fmt.Errorf("build guide: %w", err)
	}

	if err := deps.Writer.WriteGuide(guideOutputFile, sections); err != nil {
		return fmt.Errorf("write guide: %w", err)
	}
	cmd.Println(styleSuccess(fmt.Sprintf("Exam guide with %d sections saved to %s", len(sections), guideOutputFile)))
	return nil
}
