package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/examprep/internal/adapters/driven/ai"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/services"
)

// previewLength is how much of a saved explanation is echoed.
const previewLength = 500

var (
	solveResults   int
	solveOutputDir string
	solveNoSave    bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [query]",
	Short: "Answer a single exam problem from the study material",
	Long: `Retrieves the chunks closest to the query and asks the synthesis model for
a step-by-step explanation grounded in that context.

The result is saved as JSON under --output-dir unless --no-save is given,
in which case the explanation and the retrieved context are printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().IntVarP(&solveResults, "n-results", "n", domain.DefaultResults, "number of chunks to retrieve")
	solveCmd.Flags().StringVar(&solveOutputDir, "output-dir", domain.DefaultSolutionDir, "directory for JSON output")
	solveCmd.Flags().BoolVar(&solveNoSave, "no-save", false, "print the explanation instead of saving it")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := args[0]

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

	retriever := services.NewRetrievalService(embedder, coll)
	svc := services.NewSolverService(llm, deps.Prompts(settings.PromptsDir), retriever, solveResults)
	solution, err := svc.Solve(ctx, query)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	if solveNoSave {
		cmd.Println()
		cmd.Println(styleHeading("--- Generated Explanation ---"))
		cmd.Println(solution.GeneratedExplanation)
		cmd.Println()
		cmd.Println(styleHeading("--- Retrieved Context ---"))
		cmd.Println(solution.RetrievedContext)
		return nil
	}

	path, err := deps.Writer.WriteSolution(solveOutputDir, *solution)
	if err != nil {
		return fmt.Errorf("save solution: %w", err)
	}
	cmd.Println(styleSuccess("Saved output to " + path))
	cmd.Println()
	cmd.Println(styleHeading("--- Generated Explanation (saved to file) ---"))
	cmd.Println(preview(solution.GeneratedExplanation, previewLength))
	return nil
}

// preview truncates s to n characters, marking the cut with "...".
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
