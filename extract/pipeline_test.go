package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/coupure/fetch"
	"github.com/hazyhaar/coupure/source"
)

// fakeRenderer counts render calls and returns canned HTML.
type fakeRenderer struct {
	html  string
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.html), nil
}

func longArticle() string {
	return "<html><head><title>Full Title</title></head><body><article>" +
		strings.Repeat("<p>plenty of rendered words here</p>", 20) +
		"</article></body></html>"
}

func TestPipelineStaticSufficient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(longArticle()))
	}))
	defer srv.Close()

	renderer := &fakeRenderer{html: "<html></html>"}
	p := New(fetch.New(fetch.Config{}), WithRenderer(renderer))

	res, err := p.Extract(context.Background(), source.Target{Raw: srv.URL, Kind: source.KindHTMLURL})
	if err != nil {
		t.Fatal(err)
	}
	if renderer.calls != 0 {
		t.Errorf("renderer called %d times for sufficient static content, want 0", renderer.calls)
	}
	if res.Title != "Full Title" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestPipelineEscalatesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// SPA shell: well under the 200-char threshold.
		w.Write([]byte(`<html><body><div id="app"></div></body></html>`))
	}))
	defer srv.Close()

	renderer := &fakeRenderer{html: longArticle()}
	p := New(fetch.New(fetch.Config{}), WithRenderer(renderer))

	res, err := p.Extract(context.Background(), source.Target{Raw: srv.URL, Kind: source.KindHTMLURL})
	if err != nil {
		t.Fatal(err)
	}
	if renderer.calls != 1 {
		t.Fatalf("renderer called %d times, want exactly 1", renderer.calls)
	}
	if !strings.Contains(res.Body, "plenty of rendered words") {
		t.Errorf("body = %q, want rendered content", res.Body)
	}
}

func TestPipelineEscalationFailureIsFinal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>tiny</body></html>`))
	}))
	defer srv.Close()

	renderer := &fakeRenderer{err: errors.New("browser crashed")}
	p := New(fetch.New(fetch.Config{}), WithRenderer(renderer))

	_, err := p.Extract(context.Background(), source.Target{Raw: srv.URL, Kind: source.KindHTMLURL})
	if err == nil {
		t.Fatal("expected render error to surface")
	}
	if renderer.calls != 1 {
		t.Fatalf("renderer called %d times, want exactly 1", renderer.calls)
	}
}

func TestPipelineRenderingUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>tiny</body></html>`))
	}))
	defer srv.Close()

	// No renderer configured at all.
	p := New(fetch.New(fetch.Config{}))

	_, err := p.Extract(context.Background(), source.Target{Raw: srv.URL, Kind: source.KindHTMLURL})
	if !errors.Is(err, ErrRenderingUnavailable) {
		t.Fatalf("expected ErrRenderingUnavailable, got %v", err)
	}
}

func TestPipelineLocalText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my-article.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	p := New(fetch.New(fetch.Config{}))
	res, err := p.Extract(context.Background(), source.Target{Raw: path, Kind: source.KindLocalText})
	if err != nil {
		t.Fatal(err)
	}
	if res.Title != "My Article" {
		t.Errorf("title = %q, want %q", res.Title, "My Article")
	}
	if res.Body != "hello" {
		t.Errorf("body = %q, want verbatim %q", res.Body, "hello")
	}
}

func TestPipelineUnknownKind(t *testing.T) {
	p := New(fetch.New(fetch.Config{}))
	_, err := p.Extract(context.Background(), source.Target{Raw: "data.bin", Kind: source.KindUnknown})
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}
