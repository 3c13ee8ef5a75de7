package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorklistEntry is one curated article in a batch manifest.
type WorklistEntry struct {
	URL      string `yaml:"url"`
	Title    string `yaml:"title,omitempty"`
	Author   string `yaml:"author,omitempty"`
	Category string `yaml:"category,omitempty"`
	Source   string `yaml:"source,omitempty"`
}

// LoadWorklist reads a curated article manifest.
func LoadWorklist(path string) ([]WorklistEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read worklist %s: %w", path, err)
	}
	var doc struct {
		Articles []WorklistEntry `yaml:"articles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("batch: parse worklist %s: %w", path, err)
	}
	if len(doc.Articles) == 0 {
		return nil, fmt.Errorf("batch: worklist %s: no articles", path)
	}
	for i, e := range doc.Articles {
		if e.URL == "" {
			return nil, fmt.Errorf("batch: worklist %s: article[%d] has no url", path, i)
		}
	}
	return doc.Articles, nil
}
