package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/examprep/internal/adapters/driven/ai"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/services"
)

var (
	extractExamDir    string
	extractOutputFile string
	extractPattern    string
)

var extractCmd = &cobra.Command{
	Use:   "extract-topics",
	Short: "Extract exam topics from past exam summaries",
	Long: `Reads every exam summary under --exam-dir, asks the extraction model for
the topics each one covers, and writes the deduplicated, sorted list.

The output format follows the file extension: .json writes a JSON array,
.txt writes one topic per line.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractExamDir, "exam-dir", "", "directory containing exam summaries")
	extractCmd.Flags().StringVar(&extractOutputFile, "output-file", "", "output file (.json or .txt)")
	extractCmd.Flags().StringVar(&extractPattern, "pattern", domain.DefaultExamSummaryPattern, "file name pattern of summaries")
	_ = extractCmd.MarkFlagRequired("exam-dir")
	_ = extractCmd.MarkFlagRequired("output-file")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	llm, err := deps.LLM(ctx, &settings.AI, ai.RoleExtraction)
	if err != nil {
		return err
	}
	defer llm.Close()
	cmd.Printf("Using extraction model %s\n", llm.ModelName())

	svc := services.NewTopicExtractionService(llm, deps.Prompts(settings.PromptsDir))
	summary, err := svc.ExtractDir(ctx, extractExamDir, extractPattern)
	if err != nil {
		return fmt.Errorf("extract topics: %w", err)
	}

	if summary.FilesFound == 0 {
		cmd.Printf("No files matching %s found in %s\n", extractPattern, extractExamDir)
		return nil
	}
	cmd.Printf("Processed %d of %d files\n", summary.FilesProcessed, summary.FilesFound)

	if len(summary.Topics) == 0 {
		cmd.Println("No topics were extracted. Nothing written.")
		return nil
	}

	if err := saveTopics(cmd, extractOutputFile, summary.Topics); err != nil {
		return err
	}
	cmd.Println(styleSuccess(fmt.Sprintf("Saved %d unique topics to %s", len(summary.Topics), extractOutputFile)))
	return nil
}
