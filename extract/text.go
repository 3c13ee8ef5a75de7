package extract

import (
	"context"
	"fmt"
	"os"
)

// Text reads local plain-text articles. The body is the file content
// verbatim; the title derives from the filename.
type Text struct{}

// Extract reads the file at path.
func (Text) Extract(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrExtraction, path, err)
	}
	return &Result{
		Title: titleFromFilename(path),
		Body:  string(data),
	}, nil
}
