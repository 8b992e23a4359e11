package driven

import "github.com/custodia-labs/examprep/internal/core/domain"

// GuideWriter persists generated artefacts.
type GuideWriter interface {
	// WriteGuide assembles sections into a study guide at path.
	WriteGuide(path string, sections []domain.GuideSection) error

	// WriteSolution writes a solution as JSON into dir and returns the file path.
	WriteSolution(dir string, solution domain.Solution) (string, error)
}
