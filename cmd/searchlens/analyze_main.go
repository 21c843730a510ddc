package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/searchlens/searchlens/internal/analysis"
	"github.com/searchlens/searchlens/internal/config"
	bundleio "github.com/searchlens/searchlens/internal/io"
)

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	configPath, _ := cmd.Flags().GetString("config")
	outputPath, _ := cmd.Flags().GetString("output")

	analysisConfig, err := loadAnalysisConfig(configPath)
	if err != nil {
		return err
	}

	bundle, err := bundleio.LoadBundle(inputPath)
	if err != nil {
		return err
	}

	runID := uuid.New().String()[:8]
	start := time.Now()
	log.Info().
		Str("run_id", runID).
		Str("input", inputPath).
		Msg("Starting analysis run")

	result := analysis.New(analysisConfig).Run(bundle)

	log.Info().
		Str("run_id", runID).
		Dur("duration", time.Since(start)).
		Int("cannibalization_cases", len(result.Cannibalization)).
		Float64("quality_score", result.ContentQuality.Summary.QualityScore).
		Str("trend", result.Trends.OverallTrend).
		Str("cwv_status", result.CWV.OverallStatus).
		Msg("Analysis run complete")

	if outputPath == "" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if err := bundleio.WriteJSONAtomic(outputPath, result); err != nil {
		return fmt.Errorf("failed to write analysis result: %w", err)
	}
	log.Info().Str("output", outputPath).Msg("Result written")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.GetAnalysisConfigPath()
	if len(args) > 0 {
		path = args[0]
	}

	if err := config.SaveAnalysisConfig(config.DefaultAnalysisConfig(), path); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("Default analysis config written")
	return nil
}

// loadAnalysisConfig resolves thresholds from a file or falls back to
// defaults, failing fast on invalid values.
func loadAnalysisConfig(configPath string) (*config.AnalysisConfig, error) {
	analysisConfig := config.DefaultAnalysisConfig()
	if configPath != "" {
		loaded, err := config.LoadAnalysisConfig(configPath)
		if err != nil {
			return nil, err
		}
		analysisConfig = loaded
	}

	if problems := analysisConfig.Validate(); len(problems) > 0 {
		for _, p := range problems {
			log.Error().Str("problem", p).Msg("Invalid analysis config")
		}
		return nil, fmt.Errorf("analysis config failed validation with %d problem(s)", len(problems))
	}

	return analysisConfig, nil
}
