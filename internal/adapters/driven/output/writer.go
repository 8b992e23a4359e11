// Package output writes study guides and solutions to disk.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.GuideWriter = (*Writer)(nil)

// GuidePreamble opens every study guide.
const GuidePreamble = "# Exam Study Guide\n\nThis guide covers key topics based on local study materials and augmented with general knowledge.\n\n"

// FallbackSolutionName is used when a query yields no usable file name.
const FallbackSolutionName = "rag_output"

const solutionNameLimit = 50

// Writer writes guides as markdown (or HTML for .html paths) and
// solutions as JSON.
type Writer struct {
	md goldmark.Markdown
}

// NewWriter creates an output writer.
func NewWriter() *Writer {
	return &Writer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// AssembleGuide joins the preamble and sections into one markdown document.
// Each section is followed by a horizontal rule.
func AssembleGuide(sections []domain.GuideSection) string {
	parts := make([]string, 0, len(sections)+1)
	parts = append(parts, GuidePreamble)
	for _, s := range sections {
		parts = append(parts, sectionText(s)+"\n\n---\n")
	}
	return strings.Join(parts, "\n")
}

// sectionText adds a "## topic" heading unless the body already opens
// with a level-2 heading.
func sectionText(s domain.GuideSection) string {
	if strings.HasPrefix(strings.TrimLeft(s.Body, " \t\r\n"), "## ") {
		return s.Body
	}
	return "## " + s.Topic + "\n" + s.Body
}

// WriteGuide assembles sections and writes them to path, creating parent
// directories. A path ending in .html gets the rendered HTML instead.
func (w *Writer) WriteGuide(path string, sections []domain.GuideSection) error {
	content := []byte(AssembleGuide(sections))

	if strings.EqualFold(filepath.Ext(path), ".html") {
		rendered, err := w.renderHTML(content)
		if err != nil {
			return err
		}
		content = rendered
	}

	if err := ensureParent(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write guide %s: %w", path, err)
	}
	return nil
}

// WriteSolution writes solution as four-space indented JSON into dir.
// The file name comes from SolutionFileName.
func (w *Writer) WriteSolution(dir string, solution domain.Solution) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(solution); err != nil {
		return "", fmt.Errorf("encode solution: %w", err)
	}

	path := filepath.Join(dir, SolutionFileName(solution.Query)+".json")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write solution %s: %w", path, err)
	}
	return path, nil
}

// SolutionFileName derives a file name from the first 50 characters of
// a query. Characters other than letters and digits become underscores
// and leading or trailing underscores are dropped.
func SolutionFileName(query string) string {
	runes := []rune(query)
	if len(runes) > solutionNameLimit {
		runes = runes[:solutionNameLimit]
	}

	var b strings.Builder
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	name := strings.Trim(b.String(), "_")
	if name == "" {
		return FallbackSolutionName
	}
	return name
}

func (w *Writer) renderHTML(markdown []byte) ([]byte, error) {
	var body bytes.Buffer
	if err := w.md.Convert(markdown, &body); err != nil {
		return nil, fmt.Errorf("render guide HTML: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Exam Study Guide</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
