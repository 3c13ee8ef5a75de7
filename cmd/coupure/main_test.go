package main

import (
	"strings"
	"testing"

	"github.com/hazyhaar/coupure/batch"
)

func TestNewResolverTitleOverrideSkipsPrompt(t *testing.T) {
	// An exhausted reader: any stdin read would fail the Resolve call.
	in := strings.NewReader("")

	r := newResolver(false, batch.Metadata{Title: "Curated Title"}, in)
	meta, err := r.Resolve(batch.Metadata{Title: "Derived", SourceURL: "https://example.org/x"})
	if err != nil {
		t.Fatalf("resolver with a title override must not read stdin: %v", err)
	}
	if meta.Title != "Curated Title" {
		t.Errorf("title = %q, want the override", meta.Title)
	}
	if meta.SourceURL != "https://example.org/x" {
		t.Errorf("source url = %q, automatic value must survive", meta.SourceURL)
	}
}

func TestNewResolverAutoSkipsPrompt(t *testing.T) {
	r := newResolver(true, batch.Metadata{}, strings.NewReader(""))
	meta, err := r.Resolve(batch.Metadata{Title: "Derived"})
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "Derived" {
		t.Errorf("title = %q, want the derived value", meta.Title)
	}
}

func TestNewResolverPromptsWithoutTitle(t *testing.T) {
	// Answers for Title, Author, Category, Source in order; blank keeps the
	// offered default.
	in := strings.NewReader("Typed Title\n\nstrength\n\n")

	r := newResolver(false, batch.Metadata{Category: "ignored-by-typed"}, in)
	meta, err := r.Resolve(batch.Metadata{Title: "Derived", Author: "Auto Author"})
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "Typed Title" {
		t.Errorf("title = %q, want typed answer", meta.Title)
	}
	if meta.Author != "Auto Author" {
		t.Errorf("author = %q, blank answer must keep the default", meta.Author)
	}
	if meta.Category != "strength" {
		t.Errorf("category = %q, want typed answer", meta.Category)
	}
}
