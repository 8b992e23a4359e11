package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/examprep/internal/adapters/driven/ai"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/services"
)

var (
	structureInputFile  string
	structureOutputFile string
)

var structureCmd = &cobra.Command{
	Use:   "structure-topics",
	Short: "Order extracted topics into a study sequence",
	Long: `Sends the topic list to the synthesis model in a single request and
writes the returned learning order as a JSON array.

The input may be a JSON array, a {"topics": [...]} object, or a .txt file
with one topic per line.`,
	Args: cobra.NoArgs,
	RunE: runStructure,
}

func init() {
	structureCmd.Flags().StringVar(&structureInputFile, "input-file", domain.DefaultTopicsFile, "topics file to structure")
	structureCmd.Flags().StringVar(&structureOutputFile, "output-file", domain.DefaultStructuredTopicsFile,
		"structured topics output file")
	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	topics, err := deps.Topics.Load(structureInputFile)
	if err != nil {
		return fmt.Errorf("read topics: %w", err)
	}
	if len(topics) == 0 {
		cmd.Printf("No topics found in %s. Nothing to structure.\n", structureInputFile)
		return nil
	}
	cmd.Printf("Loaded %d topics from %s\n", len(topics), structureInputFile)

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	llm, err := deps.LLM(ctx, &settings.AI, ai.RoleSynthesis)
	if err != nil {
		return err
	}
	defer llm.Close()
	cmd.Printf("Structuring with %s\n", llm.ModelName())

	svc := services.NewTopicStructuringService(llm, deps.Prompts(settings.PromptsDir))
	structured, err := svc.Structure(ctx, topics)
	if err != nil {
		return fmt.Errorf("structure topics: %w", err)
	}

	if structured.CountMismatch() {
		cmd.PrintErrln(styleWarning(fmt.Sprintf(
			"Warning: sent %d topics but received %d; the model may have added or dropped some.",
			structured.InputCount, len(structured.Topics))))
	}

	if err := saveTopics(cmd, structureOutputFile, structured.Topics); err != nil {
		return err
	}
	cmd.Println(styleSuccess(fmt.Sprintf("Saved %d structured topics to %s", len(structured.Topics), structureOutputFile)))
	return nil
}
