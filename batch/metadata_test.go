package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMergePrecedence(t *testing.T) {
	auto := Metadata{Title: "Derived Title", SourceURL: "https://example.org/x"}
	over := Metadata{Title: "Curated Title", Category: "technique"}

	got := Merge(over, auto)
	if got.Title != "Curated Title" {
		t.Errorf("title = %q, override must win", got.Title)
	}
	if got.Category != "technique" {
		t.Errorf("category = %q", got.Category)
	}
	if got.SourceURL != "https://example.org/x" {
		t.Errorf("source url = %q, automatic value must survive", got.SourceURL)
	}
}

func TestMergeEmptyOverridesKeepAuto(t *testing.T) {
	auto := Metadata{Title: "Derived", Author: "Someone"}
	got := Merge(Metadata{}, auto)
	if got != auto {
		t.Errorf("Merge = %+v, want automatic values untouched", got)
	}
}

func TestMetadataPayload(t *testing.T) {
	m := Metadata{Title: "T", Category: "c", SourceURL: "u"}
	p := m.Payload("body")
	if p.Title != "T" || p.Category != "c" || p.SourceURL != "u" || p.Content != "body" {
		t.Errorf("payload = %+v", p)
	}
}

func TestLoadWorklist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "articles.yaml")
	doc := `articles:
  - url: https://example.org/one
    title: First Article
    category: nutrition
    source: Example Journal
  - url: https://example.org/two.pdf
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadWorklist(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Title != "First Article" || entries[0].Category != "nutrition" {
		t.Errorf("entry[0] = %+v", entries[0])
	}
	if entries[1].URL != "https://example.org/two.pdf" {
		t.Errorf("entry[1] = %+v", entries[1])
	}
}

func TestLoadWorklistRejectsMissingURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("articles:\n  - title: No URL\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWorklist(path); err == nil {
		t.Fatal("expected error for entry without url")
	}
}
