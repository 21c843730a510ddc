package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// AnalysisConfig holds every threshold the analysis engine consults. All
// values have working defaults; a YAML file only needs to override what it
// changes.
type AnalysisConfig struct {
	Cannibalization  CannibalizationConfig  `yaml:"cannibalization"`
	StrikingDistance StrikingDistanceConfig `yaml:"striking_distance"`
	LowCTR           LowCTRConfig           `yaml:"low_ctr"`
	ZeroClick        ZeroClickConfig        `yaml:"zero_click"`
	Decline          DeclineConfig          `yaml:"decline"`
	Trend            TrendConfig            `yaml:"trend"`
	DeviceGap        DeviceGapConfig        `yaml:"device_gap"`
	CWV              CWVConfig              `yaml:"cwv"`
}

// CannibalizationConfig gates which queries count as cannibalized.
type CannibalizationConfig struct {
	MinPages          int   `yaml:"min_pages"`           // Distinct pages required
	MinImpressions    int64 `yaml:"min_impressions"`     // Total impressions required (inclusive)
	HighPriorityFloor int64 `yaml:"high_priority_floor"` // Strictly above this, priority is "high"
}

// StrikingDistanceConfig bounds the page-2 opportunity band.
type StrikingDistanceConfig struct {
	MinPosition       float64 `yaml:"min_position"`
	MaxPosition       float64 `yaml:"max_position"`
	MinImpressions    int64   `yaml:"min_impressions"`
	ReferencePosition float64 `yaml:"reference_position"` // Projection target for potential clicks
}

// LowCTRConfig flags pages with impressions but almost no clicks.
type LowCTRConfig struct {
	MinImpressions int64   `yaml:"min_impressions"`
	MaxCTR         float64 `yaml:"max_ctr"`
}

// ZeroClickConfig flags pages shown but never clicked.
type ZeroClickConfig struct {
	MinImpressions int64 `yaml:"min_impressions"` // Strictly above this with zero clicks
}

// DeclineConfig controls per-page period-over-period decline detection.
type DeclineConfig struct {
	ThresholdPct float64 `yaml:"threshold_pct"` // Flag pages below this change %
	NoiseFloor   int64   `yaml:"noise_floor"`   // Previous-window clicks required
	WindowDays   int     `yaml:"window_days"`   // Recent/previous split width
}

// TrendConfig controls overall growth and volatility classification.
type TrendConfig struct {
	GrowthThresholdPct float64 `yaml:"growth_threshold_pct"`
	VolatilityHigh     float64 `yaml:"volatility_high"`
	VolatilityMedium   float64 `yaml:"volatility_medium"`
}

// DeviceGapConfig sets the mobile/desktop position gap that gets flagged.
type DeviceGapConfig struct {
	PositionGap float64 `yaml:"position_gap"`
}

// CWVConfig holds the fixed Core Web Vitals bands.
type CWVConfig struct {
	LCP MetricBand `yaml:"lcp"` // milliseconds
	INP MetricBand `yaml:"inp"` // milliseconds
	CLS MetricBand `yaml:"cls"` // unitless score
}

// MetricBand is a good / needs-improvement threshold pair. Values above
// NeedsImprovement fail the metric.
type MetricBand struct {
	Good             float64 `yaml:"good"`
	NeedsImprovement float64 `yaml:"needs_improvement"`
}

// DefaultAnalysisConfig returns the stock thresholds. The striking-distance
// reference position and the impression floors are industry heuristics
// carried as-is, not calibrated values.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Cannibalization: CannibalizationConfig{
			MinPages:          2,
			MinImpressions:    100,
			HighPriorityFloor: 1000,
		},
		StrikingDistance: StrikingDistanceConfig{
			MinPosition:       11,
			MaxPosition:       20,
			MinImpressions:    50,
			ReferencePosition: 7,
		},
		LowCTR: LowCTRConfig{
			MinImpressions: 500,
			MaxCTR:         0.02,
		},
		ZeroClick: ZeroClickConfig{
			MinImpressions: 100,
		},
		Decline: DeclineConfig{
			ThresholdPct: -20,
			NoiseFloor:   10,
			WindowDays:   30,
		},
		Trend: TrendConfig{
			GrowthThresholdPct: 10,
			VolatilityHigh:     0.3,
			VolatilityMedium:   0.15,
		},
		DeviceGap: DeviceGapConfig{
			PositionGap: 5,
		},
		CWV: CWVConfig{
			LCP: MetricBand{Good: 2500, NeedsImprovement: 4000},
			INP: MetricBand{Good: 200, NeedsImprovement: 500},
			CLS: MetricBand{Good: 0.1, NeedsImprovement: 0.25},
		},
	}
}

// LoadAnalysisConfig reads thresholds from a YAML file, starting from the
// defaults so partial files stay valid.
func LoadAnalysisConfig(configPath string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis config: %w", err)
	}

	config := DefaultAnalysisConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse analysis YAML: %w", err)
	}

	return config, nil
}

// SaveAnalysisConfig writes the configuration to a YAML file.
func SaveAnalysisConfig(config *AnalysisConfig, configPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write analysis config: %w", err)
	}

	return nil
}

// Validate checks thresholds for consistency and returns human-readable
// findings. An empty slice means the configuration is usable.
func (ac *AnalysisConfig) Validate() []string {
	var errors []string

	if ac.Cannibalization.MinPages < 2 {
		errors = append(errors, fmt.Sprintf("cannibalization: min pages %d below 2; a single page cannot cannibalize", ac.Cannibalization.MinPages))
	}
	if ac.Cannibalization.MinImpressions < 0 {
		errors = append(errors, fmt.Sprintf("cannibalization: negative min impressions %d", ac.Cannibalization.MinImpressions))
	}

	if ac.StrikingDistance.MinPosition >= ac.StrikingDistance.MaxPosition {
		errors = append(errors, fmt.Sprintf("striking distance: position band [%.0f, %.0f] is empty", ac.StrikingDistance.MinPosition, ac.StrikingDistance.MaxPosition))
	}
	if ac.StrikingDistance.ReferencePosition < 1 {
		errors = append(errors, fmt.Sprintf("striking distance: reference position %.1f above rank 1 is required", ac.StrikingDistance.ReferencePosition))
	}

	if ac.LowCTR.MaxCTR <= 0 || ac.LowCTR.MaxCTR >= 1 {
		errors = append(errors, fmt.Sprintf("low CTR: max CTR %.3f outside (0, 1)", ac.LowCTR.MaxCTR))
	}

	if ac.Decline.ThresholdPct >= 0 {
		errors = append(errors, fmt.Sprintf("decline: threshold %.1f%% must be negative", ac.Decline.ThresholdPct))
	}
	if ac.Decline.WindowDays < 1 {
		errors = append(errors, fmt.Sprintf("decline: window %d days below 1", ac.Decline.WindowDays))
	}

	if ac.Trend.VolatilityMedium >= ac.Trend.VolatilityHigh {
		errors = append(errors, fmt.Sprintf("trend: medium volatility band %.2f not below high band %.2f", ac.Trend.VolatilityMedium, ac.Trend.VolatilityHigh))
	}

	if ac.DeviceGap.PositionGap <= 0 {
		errors = append(errors, fmt.Sprintf("device gap: threshold %.1f must be positive", ac.DeviceGap.PositionGap))
	}

	bands := []struct {
		name string
		band MetricBand
	}{
		{"LCP", ac.CWV.LCP},
		{"INP", ac.CWV.INP},
		{"CLS", ac.CWV.CLS},
	}
	for _, b := range bands {
		if b.band.Good >= b.band.NeedsImprovement {
			errors = append(errors, fmt.Sprintf("CWV %s: good bound %.2f not below needs-improvement bound %.2f", b.name, b.band.Good, b.band.NeedsImprovement))
		}
	}

	return errors
}

// GetAnalysisConfigPath returns the default path for the analysis config.
func GetAnalysisConfigPath() string {
	return filepath.Join("config", "analysis.yaml")
}
