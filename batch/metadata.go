package batch

import "github.com/hazyhaar/coupure/sink"

// Metadata is the document description attached to a submission. Extraction
// proposes automatic values (title, source URL); the caller may override any
// field.
type Metadata struct {
	Title     string
	Author    string
	Category  string
	Source    string
	SourceURL string
}

// Resolver finalizes metadata for one document, given the automatically
// derived values. Implementations range from flag-driven overrides to an
// interactive prompt.
type Resolver interface {
	Resolve(auto Metadata) (Metadata, error)
}

// Merge overlays non-empty override fields on top of the automatic values.
func Merge(overrides, auto Metadata) Metadata {
	out := auto
	if overrides.Title != "" {
		out.Title = overrides.Title
	}
	if overrides.Author != "" {
		out.Author = overrides.Author
	}
	if overrides.Category != "" {
		out.Category = overrides.Category
	}
	if overrides.Source != "" {
		out.Source = overrides.Source
	}
	if overrides.SourceURL != "" {
		out.SourceURL = overrides.SourceURL
	}
	return out
}

// Payload combines resolved metadata with extracted content.
func (m Metadata) Payload(content string) *sink.Payload {
	return &sink.Payload{
		Title:     m.Title,
		Author:    m.Author,
		Category:  m.Category,
		Source:    m.Source,
		SourceURL: m.SourceURL,
		Content:   content,
	}
}

// StaticResolver applies fixed overrides without user interaction.
type StaticResolver struct {
	Overrides Metadata
}

// Resolve merges the fixed overrides onto the automatic metadata.
func (s StaticResolver) Resolve(auto Metadata) (Metadata, error) {
	return Merge(s.Overrides, auto), nil
}
