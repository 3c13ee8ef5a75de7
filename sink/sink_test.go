package sink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSubmit(t *testing.T) {
	var got Payload
	var auth, ct string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		ct = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(Receipt{ChunksIngested: 3, TotalTokens: 1200})
	}))
	defer srv.Close()

	c := New(srv.URL, "s3cret")
	rcpt, err := c.Submit(context.Background(), &Payload{
		Title:     "The Squat",
		Category:  "technique",
		SourceURL: "https://example.org/squat",
		Content:   "full depth discussion",
	})
	if err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer s3cret" {
		t.Errorf("Authorization = %q", auth)
	}
	if ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got.Title != "The Squat" || got.Content != "full depth discussion" {
		t.Errorf("payload = %+v", got)
	}
	if rcpt.ChunksIngested != 3 || rcpt.TotalTokens != 1200 {
		t.Errorf("receipt = %+v", rcpt)
	}
}

func TestSubmitOmitsEmptyOptionalFields(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		json.NewEncoder(w).Encode(Receipt{})
	}))
	defer srv.Close()

	c := New(srv.URL, "s")
	if _, err := c.Submit(context.Background(), &Payload{Title: "T", Content: "body"}); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"author", "category", "source", "source_url"} {
		if _, present := raw[k]; present {
			t.Errorf("empty field %q serialized", k)
		}
	}
}

func TestSubmitRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid bearer token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "wrong")
	_, err := c.Submit(context.Background(), &Payload{Title: "T", Content: "x"})
	if !errors.Is(err, ErrSubmission) {
		t.Fatalf("expected ErrSubmission, got %v", err)
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "invalid bearer token") {
		t.Errorf("error lacks status or reason: %v", err)
	}
}

func TestSubmitTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable

	c := New(srv.URL, "s")
	if _, err := c.Submit(context.Background(), &Payload{Title: "T", Content: "x"}); !errors.Is(err, ErrSubmission) {
		t.Fatalf("expected ErrSubmission, got %v", err)
	}
}

func TestSubmitNoRetry(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, "s")
	c.Submit(context.Background(), &Payload{Title: "T", Content: "x"})
	if hits != 1 {
		t.Errorf("endpoint hit %d times, want exactly 1", hits)
	}
}
