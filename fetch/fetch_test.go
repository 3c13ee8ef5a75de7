package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("missing User-Agent header")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	c := New(Config{})
	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if resp.ContentType != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", resp.ContentType)
	}
	if string(resp.Body) != "<html><body>hello</body></html>" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestGetNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{})
	_, err := c.Get(context.Background(), srv.URL)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestGetBodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	c := New(Config{MaxBytes: 1024})
	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Body) != 1024 {
		t.Fatalf("body length = %d, want capped at 1024", len(resp.Body))
	}
}

func TestHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer srv.Close()

	c := New(Config{})
	ct, err := c.Head(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if ct != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", ct)
	}
}

func TestHeadUnreachable(t *testing.T) {
	c := New(Config{})
	_, err := c.Head(context.Background(), "http://127.0.0.1:1/nothing")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}
