// Package vision parses markdown produced by the upstream vision-processing
// step into numbered pages with optional description sections.
package vision

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/examprep/internal/core/domain"
)

// Section headings recognised inside a page.
const (
	HeadingVisual   = "Visual Elements Description"
	HeadingTable    = "Table Content"
	HeadingEquation = "Key Equations"
)

// sectionBreak starts every description heading.
const sectionBreak = "\n#### "

var (
	pageMarker = regexp.MustCompile(`\n\n<!-- Page \d+ -->\n\n`)

	visualSection   = sectionPattern(HeadingVisual)
	tableSection    = sectionPattern(HeadingTable)
	equationSection = sectionPattern(HeadingEquation)
)

func sectionPattern(heading string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)\n#### ` + regexp.QuoteMeta(heading) + `\s*\n(.*?)(?:\n#### |\z)`)
}

// Normaliser turns vision-processed markdown into pages.
type Normaliser struct {
	policy TitlePolicy
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithTitlePolicy replaces the title segment heuristic.
func WithTitlePolicy(policy TitlePolicy) Option {
	return func(n *Normaliser) {
		if policy != nil {
			n.policy = policy
		}
	}
}

// New creates a normaliser using NameInFirstLine unless overridden.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{policy: NameInFirstLine{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalise splits content on page markers and parses every non-blank
// segment. Only the leading segment is offered to the title policy; when
// it is recognised it does not advance the page counter. Page numbers
// never drop below 1. Pages without main text are omitted.
func (n *Normaliser) Normalise(docName, content string) []domain.Page {
	var pages []domain.Page
	counter := 0
	leading := true

	for _, segment := range SplitPages(content) {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		if !(leading && n.policy.IsTitle(docName, segment)) {
			counter++
		}
		leading = false
		number := counter
		if number < 1 {
			number = 1
		}

		page := ParsePage(segment)
		if page.MainText == "" {
			continue
		}
		page.Number = number
		pages = append(pages, page)
	}

	return pages
}

// SplitPages splits content on the page marker comments.
func SplitPages(content string) []string {
	return pageMarker.Split(content, -1)
}

// ParsePage extracts the main text and description sections of one
// page segment. The returned page has no number.
func ParsePage(segment string) domain.Page {
	main := segment
	if idx := strings.Index(segment, sectionBreak); idx >= 0 {
		main = segment[:idx]
	}

	return domain.Page{
		MainText: strings.TrimSpace(main),
		Descriptions: domain.Descriptions{
			Visual:   section(visualSection, segment),
			Table:    section(tableSection, segment),
			Equation: section(equationSection, segment),
		},
	}
}

func section(re *regexp.Regexp, segment string) string {
	m := re.FindStringSubmatch(segment)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// DocumentName infers the source document name from a processed file path.
func DocumentName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(stem, domain.VisionProcessedSuffix, "")
}

// FindFiles returns every vision-processed markdown file under dir,
// recursively, in sorted order.
func FindFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "scan", Path: dir, Err: domain.ErrInvalidInput}
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(domain.VisionProcessedPattern, d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
