// Command coupure_corpus segments one large OCR'd text corpus into sections
// and submits each section as its own document.
//
// Usage:
//
//	coupure_corpus -manifest manifests/training_guide.yaml
//	coupure_corpus -manifest training_guide.yaml -dry-run   # preview sections
//
// The manifest names the flat text file, corpus-specific artifact patterns,
// and a hand-curated table of 1-indexed inclusive line ranges. Boundaries are
// approximate by design; sections that clean down to nothing are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"github.com/hazyhaar/coupure/batch"
	"github.com/hazyhaar/coupure/ledger"
	"github.com/hazyhaar/coupure/ocr"
	"github.com/hazyhaar/coupure/sink"
)

// previewChars is how much of each cleaned section a dry run prints.
const previewChars = 200

func main() {
	godotenv.Load()

	manifest := flag.String("manifest", "", "path to the corpus manifest YAML")
	endpoint := flag.String("endpoint", os.Getenv("INGEST_ENDPOINT"), "ingest endpoint URL")
	secret := flag.String("secret", os.Getenv("INGEST_SECRET"), "ingest bearer secret")
	dryRun := flag.Bool("dry-run", false, "preview sections, submit nothing")
	ledgerPath := flag.String("ledger", "", "path to a submission ledger database (optional)")
	pace := flag.Duration("pace", time.Second, "delay between consecutive submissions")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *manifest, *endpoint, *secret, *ledgerPath, *dryRun, *pace); err != nil {
		logger.Error("coupure_corpus: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, manifestPath, endpoint, secret, ledgerPath string, dryRun bool, pace time.Duration) error {
	if manifestPath == "" {
		return fmt.Errorf("no manifest: pass -manifest")
	}
	if !dryRun {
		if endpoint == "" {
			return fmt.Errorf("no endpoint: set -endpoint or INGEST_ENDPOINT")
		}
		if secret == "" {
			return fmt.Errorf("no secret: set -secret or INGEST_SECRET")
		}
	}

	m, err := ocr.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	input := m.Input
	if !filepath.IsAbs(input) {
		input = filepath.Join(filepath.Dir(manifestPath), input)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read corpus %s: %w", input, err)
	}
	lines := strings.Split(string(data), "\n")

	cleaner, err := ocr.NewCleaner(m.Artifacts)
	if err != nil {
		return err
	}
	pieces := ocr.NewSegmenter(cleaner, logger).Segment(lines, m.Sections)
	logger.Info("corpus segmented",
		"sections", len(m.Sections), "usable", len(pieces), "lines", len(lines))

	if dryRun {
		for _, p := range pieces {
			fmt.Printf("== %s (lines %d-%d, %d chars)\n%s\n\n",
				p.Section.Title, p.Section.StartLine, p.Section.EndLine,
				utf8.RuneCountInString(p.Text), preview(p.Text))
		}
	}

	items := make([]batch.Item, 0, len(pieces))
	for _, p := range pieces {
		p := p
		items = append(items, batch.Item{
			ID: p.Section.Title,
			Build: func(ctx context.Context) (*sink.Payload, error) {
				meta := batch.Metadata{
					Title:    p.Section.Title,
					Author:   p.Section.Author,
					Category: p.Section.Category,
					Source:   p.Section.Source,
				}
				return meta.Payload(p.Text), nil
			},
		})
	}

	runnerOpts := []batch.Option{
		batch.WithLogger(logger),
		batch.WithDryRun(dryRun),
		batch.WithPace(pace),
	}
	if ledgerPath != "" {
		led, err := ledger.Open(ledgerPath)
		if err != nil {
			return err
		}
		defer led.Close()
		runnerOpts = append(runnerOpts, batch.WithLedger(led, ledger.ContentHash))
	}

	runner := batch.NewRunner(sink.New(endpoint, secret), runnerOpts...)
	report := runner.Run(ctx, items)

	fmt.Printf("\n%d/%d submitted\n", report.Succeeded, report.Total)
	for _, f := range report.Failures {
		fmt.Printf("  failed: %s: %s\n", f.ID, f.Reason)
	}
	return nil
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewChars]) + "…"
}
