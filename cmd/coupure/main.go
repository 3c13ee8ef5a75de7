// Command coupure extracts one or more documents and submits them to the
// ingest endpoint.
//
// Usage:
//
//	coupure -title "The Squat" https://example.org/squat
//	coupure -category technique ./papers/          # every content file in the dir
//	coupure -auto -dry-run article.pdf             # no prompts, no submission
//
// The endpoint and secret come from -endpoint/-secret or the
// INGEST_ENDPOINT/INGEST_SECRET environment variables (a .env file in the
// working directory is loaded first).
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hazyhaar/coupure/batch"
	"github.com/hazyhaar/coupure/extract"
	"github.com/hazyhaar/coupure/fetch"
	"github.com/hazyhaar/coupure/ledger"
	"github.com/hazyhaar/coupure/sink"
	"github.com/hazyhaar/coupure/source"
)

func main() {
	godotenv.Load()

	title := flag.String("title", "", "document title (prompted for if empty, unless -auto)")
	author := flag.String("author", "", "document author")
	category := flag.String("category", "", "document category")
	src := flag.String("source", "", "publication or collection name")
	sourceURL := flag.String("source-url", "", "canonical source URL override")
	endpoint := flag.String("endpoint", os.Getenv("INGEST_ENDPOINT"), "ingest endpoint URL")
	secret := flag.String("secret", os.Getenv("INGEST_SECRET"), "ingest bearer secret")
	auto := flag.Bool("auto", false, "derive metadata automatically, never prompt")
	dryRun := flag.Bool("dry-run", false, "extract and report, submit nothing")
	ledgerPath := flag.String("ledger", "", "path to a submission ledger database (optional)")
	markdown := flag.Bool("markdown", false, "convert HTML extractions to markdown")
	pace := flag.Duration("pace", time.Second, "delay between consecutive submissions")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, options{
		targets:    flag.Args(),
		endpoint:   *endpoint,
		secret:     *secret,
		auto:       *auto,
		dryRun:     *dryRun,
		ledgerPath: *ledgerPath,
		markdown:   *markdown,
		pace:       *pace,
		overrides: batch.Metadata{
			Title:     *title,
			Author:    *author,
			Category:  *category,
			Source:    *src,
			SourceURL: *sourceURL,
		},
	}); err != nil {
		logger.Error("coupure: fatal", "error", err)
		os.Exit(1)
	}
}

type options struct {
	targets    []string
	endpoint   string
	secret     string
	auto       bool
	dryRun     bool
	ledgerPath string
	markdown   bool
	pace       time.Duration
	overrides  batch.Metadata
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	if len(opts.targets) == 0 {
		return fmt.Errorf("no targets given (URLs, files, or directories)")
	}
	if !opts.dryRun {
		if opts.endpoint == "" {
			return fmt.Errorf("no endpoint: set -endpoint or INGEST_ENDPOINT")
		}
		if opts.secret == "" {
			return fmt.Errorf("no secret: set -secret or INGEST_SECRET")
		}
	}

	targets, err := batch.ExpandTargets(opts.targets)
	if err != nil {
		return err
	}

	fetcher := fetch.New(fetch.Config{})
	pipeline := newPipeline(fetcher, logger, opts.markdown)

	resolver := newResolver(opts.auto, opts.overrides, os.Stdin)

	runnerOpts := []batch.Option{
		batch.WithLogger(logger),
		batch.WithDryRun(opts.dryRun),
		batch.WithPace(opts.pace),
	}
	if opts.ledgerPath != "" {
		led, err := ledger.Open(opts.ledgerPath)
		if err != nil {
			return err
		}
		defer led.Close()
		runnerOpts = append(runnerOpts, batch.WithLedger(led, ledger.ContentHash))
	}

	items := make([]batch.Item, 0, len(targets))
	for _, t := range targets {
		items = append(items, buildItem(pipeline, fetcher, resolver, t))
	}

	runner := batch.NewRunner(sink.New(opts.endpoint, opts.secret), runnerOpts...)
	report := runner.Run(ctx, items)

	printReport(report)

	// A single ad-hoc target failing, or a missing browser for any target,
	// is an operator problem rather than a bad document: exit nonzero.
	for _, f := range report.Failures {
		if errors.Is(f.Err, extract.ErrRenderingUnavailable) {
			return fmt.Errorf("rendering unavailable: %s", f.Reason)
		}
	}
	if report.Total == 1 && report.Failed() == 1 {
		return fmt.Errorf("%s: %s", report.Failures[0].ID, report.Failures[0].Reason)
	}
	return nil
}

// newPipeline wires the extraction tiers. The browser renderer is always
// configured; it only launches when a page actually needs it.
func newPipeline(fetcher *fetch.Client, logger *slog.Logger, markdown bool) *extract.Pipeline {
	renderer := &extract.Browser{Logger: logger}
	opts := []extract.Option{
		extract.WithLogger(logger),
		extract.WithRenderer(renderer),
	}
	if markdown {
		opts = append(opts, extract.WithMarkdown())
	}
	return extract.New(fetcher, opts...)
}

// buildItem defers classification and extraction to run time, so one broken
// target cannot prevent the rest of the batch from being constructed.
func buildItem(pipeline *extract.Pipeline, prober source.Prober, resolver batch.Resolver, target string) batch.Item {
	return batch.Item{
		ID: target,
		Build: func(ctx context.Context) (*sink.Payload, error) {
			tgt := source.Classify(ctx, target, prober)
			res, err := pipeline.Extract(ctx, tgt)
			if err != nil {
				return nil, err
			}
			auto := batch.Metadata{Title: res.Title, SourceURL: res.SourceURL}
			meta, err := resolver.Resolve(auto)
			if err != nil {
				return nil, err
			}
			return meta.Payload(res.Body), nil
		},
	}
}

// newResolver decides how metadata gets finalized. A title override means the
// caller already said everything that matters, so scripted runs with -title
// never touch stdin; prompting happens only when neither -auto nor a title
// was given.
func newResolver(auto bool, overrides batch.Metadata, in io.Reader) batch.Resolver {
	if auto || overrides.Title != "" {
		return batch.StaticResolver{Overrides: overrides}
	}
	return &consolePrompter{overrides: overrides, in: bufio.NewReader(in)}
}

// consolePrompter asks for missing metadata interactively, offering the
// automatically derived values as defaults.
type consolePrompter struct {
	overrides batch.Metadata
	in        *bufio.Reader
}

func (p *consolePrompter) Resolve(auto batch.Metadata) (batch.Metadata, error) {
	meta := batch.Merge(p.overrides, auto)
	var err error
	if meta.Title, err = p.ask("Title", meta.Title); err != nil {
		return meta, err
	}
	if meta.Author, err = p.ask("Author", meta.Author); err != nil {
		return meta, err
	}
	if meta.Category, err = p.ask("Category", meta.Category); err != nil {
		return meta, err
	}
	if meta.Source, err = p.ask("Source", meta.Source); err != nil {
		return meta, err
	}
	if meta.Title == "" {
		return meta, fmt.Errorf("a title is required")
	}
	return meta, nil
}

func (p *consolePrompter) ask(field, def string) (string, error) {
	if def != "" {
		fmt.Printf("%s [%s]: ", field, def)
	} else {
		fmt.Printf("%s: ", field)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(field), err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func printReport(r *batch.Report) {
	fmt.Printf("\n%d/%d submitted\n", r.Succeeded, r.Total)
	for _, f := range r.Failures {
		fmt.Printf("  failed: %s: %s\n", f.ID, f.Reason)
	}
}
