// Package config holds the runtime configuration of the particle analysis
// server. Values come from Default, may be replaced from a JSON file with
// Load, and are finally overridden by PARTICLE_MCP_* environment variables
// with ApplyEnv.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ironsheep/particle-tools-mcp/internal/imaging"
	"github.com/ironsheep/particle-tools-mcp/internal/roi"
)

// EnvPrefix prefixes every environment variable ApplyEnv reads.
const EnvPrefix = "PARTICLE_MCP_"

// ErrInvalid is wrapped by every error Validate reports.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every tunable of the pipeline and the server.
type Config struct {
	// Boundary location
	ThresholdBlockSize int     `json:"threshold_block_size"`
	ThresholdC         int     `json:"threshold_c"`
	MinQuadArea        float64 `json:"min_quad_area"`
	EpsilonRatio       float64 `json:"epsilon_ratio"`
	CandidateIndex     int     `json:"candidate_index"`
	AnnotationColor    string  `json:"annotation_color"`
	AnnotationWidth    int     `json:"annotation_width"`

	// Rectification
	CornerWindow     int     `json:"corner_window"`
	CornerIterations int     `json:"corner_iterations"`
	CornerEpsilon    float64 `json:"corner_epsilon"`
	InsetMargin      float64 `json:"inset_margin"`

	// Segmentation
	BlurSize        int     `json:"blur_size"`
	OpenSize        int     `json:"open_size"`
	CanonicalPixels float64 `json:"canonical_pixels"`
	Interpolation   string  `json:"interpolation"`

	// Classification
	AssumedAreaUm2 float64 `json:"assumed_area_um2"`
	DensityDivisor float64 `json:"density_divisor"`

	// Runtime
	Backend          string `json:"backend"`
	RequestTimeoutMS int    `json:"request_timeout_ms"`
	BatchWorkers     int    `json:"batch_workers"`
	OCRLanguage      string `json:"ocr_language"`
	LogLevel         string `json:"log_level"`
}

// Default returns the configuration the pipeline was calibrated with.
func Default() Config {
	return Config{
		ThresholdBlockSize: 11,
		ThresholdC:         2,
		MinQuadArea:        1000,
		EpsilonRatio:       0.1,
		CandidateIndex:     1,
		AnnotationColor:    "#00FF00",
		AnnotationWidth:    2,

		CornerWindow:     5,
		CornerIterations: 40,
		CornerEpsilon:    0.001,
		InsetMargin:      5,

		BlurSize:        5,
		OpenSize:        3,
		CanonicalPixels: 36e6,
		Interpolation:   imaging.Bicubic.String(),

		AssumedAreaUm2: 36e6,
		DensityDivisor: 36,

		Backend:          roi.Native.String(),
		RequestTimeoutMS: 0,
		BatchWorkers:     4,
		OCRLanguage:      "eng",
		LogLevel:         "info",
	}
}

// Load reads a JSON configuration file on top of Default. A missing file is
// not an error and yields the defaults. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ApplyEnv overrides fields from PARTICLE_MCP_* environment variables. Unset
// or empty variables leave the field alone.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"LOG_LEVEL":        &c.LogLevel,
		"BACKEND":          &c.Backend,
		"INTERPOLATION":    &c.Interpolation,
		"OCR_LANGUAGE":     &c.OCRLanguage,
		"ANNOTATION_COLOR": &c.AnnotationColor,
	}
	for key, dst := range strs {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"BATCH_WORKERS":        &c.BatchWorkers,
		"REQUEST_TIMEOUT_MS":   &c.RequestTimeoutMS,
		"CANDIDATE_INDEX":      &c.CandidateIndex,
		"THRESHOLD_BLOCK_SIZE": &c.ThresholdBlockSize,
	}
	for key, dst := range ints {
		v := os.Getenv(EnvPrefix + key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	floats := map[string]*float64{
		"CANONICAL_PIXELS": &c.CanonicalPixels,
		"ASSUMED_AREA_UM2": &c.AssumedAreaUm2,
		"DENSITY_DIVISOR":  &c.DensityDivisor,
	}
	for key, dst := range floats {
		v := os.Getenv(EnvPrefix + key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = f
	}
	return nil
}

// Validate reports every invalid field. Each reported error wraps ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.ThresholdBlockSize < 3 || c.ThresholdBlockSize%2 == 0 {
		bad("threshold_block_size %d must be odd and >= 3", c.ThresholdBlockSize)
	}
	if c.MinQuadArea < 0 {
		bad("min_quad_area %v must not be negative", c.MinQuadArea)
	}
	if c.EpsilonRatio <= 0 || c.EpsilonRatio >= 1 {
		bad("epsilon_ratio %v must be in (0, 1)", c.EpsilonRatio)
	}
	if c.CandidateIndex < 0 {
		bad("candidate_index %d must not be negative", c.CandidateIndex)
	}
	if _, err := imaging.ParseColor(c.AnnotationColor); err != nil {
		bad("annotation_color: %v", err)
	}
	if c.AnnotationWidth < 1 {
		bad("annotation_width %d must be positive", c.AnnotationWidth)
	}
	if c.CornerWindow < 0 {
		bad("corner_window %d must not be negative", c.CornerWindow)
	}
	if c.CornerIterations < 1 {
		bad("corner_iterations %d must be positive", c.CornerIterations)
	}
	if c.CornerEpsilon < 0 {
		bad("corner_epsilon %v must not be negative", c.CornerEpsilon)
	}
	if c.InsetMargin < 0 {
		bad("inset_margin %v must not be negative", c.InsetMargin)
	}
	if c.BlurSize != 0 && c.BlurSize != 5 {
		bad("blur_size %d must be 0 or 5", c.BlurSize)
	}
	if c.OpenSize < 0 {
		bad("open_size %d must not be negative", c.OpenSize)
	}
	if c.CanonicalPixels <= 0 {
		bad("canonical_pixels %v must be positive", c.CanonicalPixels)
	}
	if _, err := imaging.ParseInterpolation(c.Interpolation); err != nil {
		bad("interpolation: %v", err)
	}
	if c.AssumedAreaUm2 <= 0 {
		bad("assumed_area_um2 %v must be positive", c.AssumedAreaUm2)
	}
	if c.DensityDivisor <= 0 {
		bad("density_divisor %v must be positive", c.DensityDivisor)
	}
	if _, err := roi.ParseBackend(c.Backend); err != nil {
		bad("backend: %v", err)
	}
	if c.RequestTimeoutMS < 0 {
		bad("request_timeout_ms %d must not be negative", c.RequestTimeoutMS)
	}
	if c.BatchWorkers < 1 {
		bad("batch_workers %d must be positive", c.BatchWorkers)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		bad("log_level: %v", err)
	}
	return errors.Join(errs...)
}

// RequestTimeout returns the per-request deadline, or 0 for none.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
