package ocr

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes one OCR corpus: the flat text file, corpus-specific
// artifact patterns, and the hand-curated section boundary table. Boundaries
// are configuration maintained next to the corpus, never derived at runtime.
type Manifest struct {
	// Input is the path to the OCR'd text file, relative to the manifest
	// unless absolute.
	Input string `yaml:"input"`
	// Artifacts are corpus-specific regular expressions deleted before the
	// builtin cleanup rules run (running headers, logo tokens).
	Artifacts []string `yaml:"artifacts,omitempty"`
	// Sections is the boundary table, in submission order.
	Sections []Section `yaml:"sections"`
}

// LoadManifest reads and validates a corpus manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ocr: read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("ocr: parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("ocr: manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks fields that do not depend on the document itself.
// Line-count bounds are checked at segmentation time.
func (m *Manifest) Validate() error {
	if m.Input == "" {
		return fmt.Errorf("input is required")
	}
	if len(m.Sections) == 0 {
		return fmt.Errorf("at least one section is required")
	}
	for i, s := range m.Sections {
		if s.Title == "" {
			return fmt.Errorf("section[%d]: title is required", i)
		}
		if s.StartLine < 1 {
			return fmt.Errorf("section[%d] %q: start_line must be >= 1", i, s.Title)
		}
		if s.EndLine < s.StartLine {
			return fmt.Errorf("section[%d] %q: inverted range %d-%d", i, s.Title, s.StartLine, s.EndLine)
		}
	}
	return nil
}
