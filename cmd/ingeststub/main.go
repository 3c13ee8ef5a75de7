// Command ingeststub is a local stand-in for the ingest endpoint, for
// development and end-to-end testing without the real sink.
//
// Usage:
//
//	ingeststub                       # listens on :8099
//	ADDR=:9000 STUB_SECRET=s ingeststub
//
// It accepts the same POST contract as the production endpoint and returns a
// deterministic receipt derived from the content length. When STUB_SECRET is
// set, submissions must carry the matching bearer token.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Rough stand-ins for the real sink's chunking and tokenization.
const (
	chunkChars    = 1200
	charsPerToken = 4
)

type payload struct {
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Category  string `json:"category,omitempty"`
	Source    string `json:"source,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	Content   string `json:"content"`
}

type receipt struct {
	ChunksIngested int `json:"chunks_ingested"`
	TotalTokens    int `json:"total_tokens"`
}

func main() {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8099"
	}
	secret := os.Getenv("STUB_SECRET")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/v1/ingest", handleIngest(logger, secret))

	logger.Info("ingeststub: listening", "addr", addr, "auth", secret != "")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("ingeststub: server failed", "error", err)
		os.Exit(1)
	}
}

func handleIngest(logger *slog.Logger, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if secret != "" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != secret {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}
		}

		var p payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "malformed payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		// Content is the only required field.
		if strings.TrimSpace(p.Content) == "" {
			http.Error(w, "content is required", http.StatusBadRequest)
			return
		}

		rcpt := receipt{
			ChunksIngested: len(p.Content)/chunkChars + 1,
			TotalTokens:    len(p.Content) / charsPerToken,
		}
		logger.Info("ingeststub: accepted",
			"title", p.Title, "category", p.Category,
			"chars", len(p.Content), "chunks", rcpt.ChunksIngested)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rcpt)
	}
}
