// Package main prints one page of the post listing.
// Usage: postpulse-posts [-page N] [-words N] [-output text|json] [-config path]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"postpulse/internal/config"
	hpost "postpulse/internal/handler/http/post"
	"postpulse/internal/infra/source"
	"postpulse/internal/observability/logging"
	"postpulse/internal/usecase/listing"
	"postpulse/internal/usecase/query"
)

func main() {
	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	if err := run(context.Background(), os.Args[1:], os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, loads the listing and writes the requested page to out.
func run(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("posts", flag.ContinueOnError)
	var (
		configPath   string
		page         int
		words        int
		outputFormat string
		timeout      time.Duration
	)
	fs.StringVar(&configPath, "config", config.Path(""), "Path to the YAML site config (CONFIG_PATH)")
	fs.IntVar(&page, "page", 1, "Page to print (clamped to the available pages)")
	fs.IntVar(&words, "words", 0, "Summary length in words (0 uses the configured value)")
	fs.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	fs.DurationVar(&timeout, "timeout", 30*time.Second, "How long to wait for the content source")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unsupported output format %q (want text or json)", outputFormat)
	}

	cfg, err := config.LoadSiteConfig(configPath, logger)
	if err != nil {
		return err
	}
	if words <= 0 {
		words = cfg.Listing.SummaryWords
	}

	src, err := source.New(cfg.Source, logger)
	if err != nil {
		return err
	}
	cache := query.NewCache(src.Fetcher, query.Config{
		StaleTime:    cfg.Cache.StaleTime,
		FetchTimeout: timeout,
	}, logger)

	view, err := listing.NewView(cache, listing.Options{
		PageSize: cfg.Listing.PageSize,
		Surface:  "cli",
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer view.Close()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	since := time.Now()
	view.Mount(waitCtx)
	st, err := view.Await(waitCtx, since)
	if err != nil {
		return fmt.Errorf("posts still loading after %v", timeout)
	}
	if st.Status == query.StatusError {
		return errors.New(st.ErrorMessage)
	}
	st = view.GoTo(page)
	if st.IsEmpty() {
		logger.Info("source returned no posts", slog.String("endpoint", cfg.Source.Endpoint))
	}

	dto := hpost.FromState(st, words)
	if outputFormat == "json" {
		return outputJSON(out, dto)
	}
	return outputText(out, dto)
}

// outputText prints the page in human-readable format.
func outputText(w io.Writer, l hpost.ListingDTO) error {
	var b strings.Builder
	p := l.Pagination

	if p.Total == 0 {
		b.WriteString("No posts found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Posts: page %d of %d (%d total)\n\n", p.Page, p.TotalPages, p.Total)
	for i, post := range l.Posts {
		fmt.Fprintf(&b, "%d. %s\n", (p.Page-1)*p.PageSize+i+1, post.Title)

		var meta []string
		if post.DisplayDate != "" {
			meta = append(meta, post.DisplayDate)
		}
		if post.Category != "" {
			meta = append(meta, post.Category)
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, "   %s\n", strings.Join(meta, " | "))
		}
		if post.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", post.Summary)
		}
		fmt.Fprintf(&b, "   Link: %s\n", post.Permalink)
		if post.Source != nil {
			if post.Source.IsLink {
				fmt.Fprintf(&b, "   Source: %s (%s)\n", post.Source.Name, post.Source.URL)
			} else {
				fmt.Fprintf(&b, "   Source: %s\n", post.Source.Name)
			}
		}
		b.WriteString("\n")
	}

	pages := make([]string, len(l.PageNumbers))
	for i, n := range l.PageNumbers {
		if n == p.Page {
			pages[i] = fmt.Sprintf("[%d]", n)
		} else {
			pages[i] = fmt.Sprintf("%d", n)
		}
	}
	fmt.Fprintf(&b, "Pages: %s\n", strings.Join(pages, " "))
	if l.RefreshError != "" {
		fmt.Fprintf(&b, "Warning: last refresh failed: %s\n", l.RefreshError)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// outputJSON prints the page in the same shape as GET /posts.
func outputJSON(w io.Writer, l hpost.ListingDTO) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(l); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
