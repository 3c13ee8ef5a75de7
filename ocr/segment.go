package ocr

import (
	"fmt"
	"log/slog"
	"strings"
)

// Section is one hand-curated line range over a flat corpus document.
// Lines are 1-indexed and inclusive. Boundaries are approximate, externally
// maintained configuration; mis-segmentation from an off boundary is a known
// limitation of the source table, not something to correct at runtime.
type Section struct {
	Title     string `yaml:"title"`
	StartLine int    `yaml:"start_line"`
	EndLine   int    `yaml:"end_line"`
	Category  string `yaml:"category,omitempty"`
	Author    string `yaml:"author,omitempty"`
	Source    string `yaml:"source,omitempty"`
}

// validate checks the section's invariants against a known document length.
func (s Section) validate(lineCount int) error {
	if s.StartLine < 1 {
		return fmt.Errorf("start_line %d < 1", s.StartLine)
	}
	if s.EndLine < s.StartLine {
		return fmt.Errorf("inverted range %d-%d", s.StartLine, s.EndLine)
	}
	if s.EndLine > lineCount {
		return fmt.Errorf("end_line %d beyond document (%d lines)", s.EndLine, lineCount)
	}
	return nil
}

// Piece is one segmented, cleaned section of the corpus.
type Piece struct {
	Section Section
	Text    string
}

// Segmenter slices a corpus by section boundaries and cleans each slice.
type Segmenter struct {
	cleaner *Cleaner
	logger  *slog.Logger
}

// NewSegmenter creates a Segmenter. A nil logger uses slog.Default.
func NewSegmenter(cleaner *Cleaner, logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Segmenter{cleaner: cleaner, logger: logger}
}

// Segment slices the document's lines at [start-1, end) for each section,
// cleans the slice, and drops sections whose cleaned text is empty after
// trimming — an approximate boundary can legitimately land on a page of pure
// structural noise. Sections are independent: an invalid or empty one is
// logged and skipped, never aborting the rest.
func (sg *Segmenter) Segment(lines []string, sections []Section) []Piece {
	pieces := make([]Piece, 0, len(sections))
	for _, sec := range sections {
		log := sg.logger.With("section", sec.Title)

		if err := sec.validate(len(lines)); err != nil {
			log.Warn("ocr: skipping section with invalid boundaries", "error", err)
			continue
		}

		raw := strings.Join(lines[sec.StartLine-1:sec.EndLine], "\n")
		cleaned := sg.cleaner.Clean(raw)
		if strings.TrimSpace(cleaned) == "" {
			log.Info("ocr: skipping section, empty after cleaning",
				"start_line", sec.StartLine, "end_line", sec.EndLine)
			continue
		}

		pieces = append(pieces, Piece{Section: sec, Text: cleaned})
	}
	return pieces
}
