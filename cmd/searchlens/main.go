package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	httpserver "github.com/searchlens/searchlens/internal/interfaces/http"
)

const (
	appName = "SearchLens"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	// Initialize metrics system
	httpserver.InitializeMetrics()

	rootCmd := &cobra.Command{
		Use:     "searchlens",
		Short:   "SEO diagnostics from Google Search Console exports",
		Version: version,
		Long: `SearchLens analyzes Google Search Console performance exports and surfaces
keyword cannibalization, content-quality decay, striking-distance
opportunities, device gaps, and Core Web Vitals failures.

Run 'searchlens analyze' against an exported dataset bundle, or
'searchlens serve' to expose the analyzer over HTTP.`,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis against a dataset bundle",
		Long:  "Loads a JSON dataset bundle, runs every detector, and writes the analysis result record",
		RunE:  runAnalyze,
	}

	analyzeCmd.Flags().String("input", "", "Path to the dataset bundle JSON (required)")
	analyzeCmd.Flags().String("config", "", "Path to analysis thresholds YAML (defaults apply when omitted)")
	analyzeCmd.Flags().String("output", "", "Path for the result JSON (stdout when omitted)")
	_ = analyzeCmd.MarkFlagRequired("input")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis HTTP server",
		Long:  "Starts the read-only HTTP server with /health, /metrics, and POST /analyze endpoints",
		RunE:  runServe,
	}

	serveCmd.Flags().String("host", "127.0.0.1", "HTTP server host")
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	serveCmd.Flags().String("config", "", "Path to analysis thresholds YAML (defaults apply when omitted)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Analysis threshold configuration commands",
	}

	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default thresholds to a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}

	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
