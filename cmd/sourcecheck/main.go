// Package main probes the configured content source once and reports what
// it returned. Usage: postpulse-sourcecheck [-config path] [-timeout 30s] [-output text|json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"postpulse/internal/config"
	"postpulse/internal/handler/http/respond"
	"postpulse/internal/infra/source"
	"postpulse/internal/observability/logging"
	"postpulse/internal/usecase/fetch"
)

// Diagnostic is the result of one probe.
type Diagnostic struct {
	Kind         string `json:"kind"`
	Endpoint     string `json:"endpoint"`
	Status       string `json:"status"` // "OK", "EMPTY", "TRANSPORT_ERROR", "QUERY_ERROR", "EMPTY_RESULT", "TIMEOUT"
	PostCount    int    `json:"post_count"`
	LatestDate   string `json:"latest_date,omitempty"`
	FirstTitle   string `json:"first_title,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
	CircuitState string `json:"circuit_state"`
}

// OK reports whether the source is usable.
func (d Diagnostic) OK() bool {
	return d.Status == "OK" || d.Status == "EMPTY"
}

func main() {
	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	var (
		configPath   string
		timeout      time.Duration
		outputFormat string
	)
	flag.StringVar(&configPath, "config", config.Path(""), "Path to the YAML site config (CONFIG_PATH)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Probe timeout")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	cfg, err := config.LoadSiteConfig(configPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	src, err := source.New(cfg.Source, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	diag := diagnose(ctx, src, cfg.Source.Endpoint)

	if outputFormat == "json" {
		err = writeJSON(os.Stdout, diag)
	} else {
		err = writeText(os.Stdout, diag)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !diag.OK() {
		os.Exit(2)
	}
}

// diagnose fetches once through src and classifies the outcome.
func diagnose(ctx context.Context, src *source.Source, endpoint string) Diagnostic {
	diag := Diagnostic{
		Kind:     src.Kind,
		Endpoint: respond.SanitizeMessage(endpoint),
	}

	start := time.Now()
	posts, err := src.Fetcher.FetchPosts(ctx)
	diag.ResponseTime = time.Since(start).Milliseconds()
	diag.CircuitState = src.Circuit.State().String()

	if err != nil {
		diag.ErrorMessage = respond.SanitizeError(err)
		switch {
		case ctx.Err() != nil:
			diag.Status = "TIMEOUT"
		case fetch.KindOf(err) == fetch.KindQuery:
			diag.Status = "QUERY_ERROR"
		case fetch.KindOf(err) == fetch.KindEmptyResult:
			diag.Status = "EMPTY_RESULT"
		default:
			diag.Status = "TRANSPORT_ERROR"
		}
		return diag
	}

	diag.PostCount = len(posts)
	if len(posts) == 0 {
		diag.Status = "EMPTY"
		return diag
	}
	diag.Status = "OK"
	diag.FirstTitle = posts[0].Title
	if !posts[0].Date.IsZero() {
		diag.LatestDate = posts[0].Date.Format(time.RFC3339)
	}
	return diag
}

func writeText(w io.Writer, d Diagnostic) error {
	_, err := fmt.Fprintf(w, "Source:   %s %s\nStatus:   %s\nPosts:    %d\nLatest:   %s\nFirst:    %s\nTime:     %dms\nCircuit:  %s\n",
		d.Kind, d.Endpoint, d.Status, d.PostCount, d.LatestDate, d.FirstTitle, d.ResponseTime, d.CircuitState)
	if err == nil && d.ErrorMessage != "" {
		_, err = fmt.Fprintf(w, "Error:    %s\n", d.ErrorMessage)
	}
	return err
}

func writeJSON(w io.Writer, d Diagnostic) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}
