package pipeline

import (
	"fmt"

	"github.com/ironsheep/particle-tools-mcp/internal/config"
	"github.com/ironsheep/particle-tools-mcp/internal/imaging"
	"github.com/ironsheep/particle-tools-mcp/internal/particles"
	"github.com/ironsheep/particle-tools-mcp/internal/roi"
)

// Overrides replaces selected configuration values for one request. Empty
// fields keep the configured value.
type Overrides struct {
	Interpolation string `json:"interpolation,omitempty"`
	Backend       string `json:"backend,omitempty"`
}

// Options is the fully resolved per-stage configuration of one request.
type Options struct {
	Backend  roi.Backend
	Locate   roi.LocateOptions
	Rectify  roi.RectifyOptions
	Segment  particles.SegmentOptions
	Classify particles.ClassifyOptions
}

// ResolveOptions maps cfg and the request overrides onto stage options.
func ResolveOptions(cfg config.Config, o Overrides) (Options, error) {
	backendName := cfg.Backend
	if o.Backend != "" {
		backendName = o.Backend
	}
	backend, err := roi.ParseBackend(backendName)
	if err != nil {
		return Options{}, err
	}

	interpName := cfg.Interpolation
	if o.Interpolation != "" {
		interpName = o.Interpolation
	}
	interp, err := imaging.ParseInterpolation(interpName)
	if err != nil {
		return Options{}, err
	}

	stroke, err := imaging.ParseColor(cfg.AnnotationColor)
	if err != nil {
		return Options{}, fmt.Errorf("annotation colour: %w", err)
	}

	return Options{
		Backend: backend,
		Locate: roi.LocateOptions{
			BlockSize: cfg.ThresholdBlockSize,
			C:         cfg.ThresholdC,
			Candidates: roi.CandidateOptions{
				MinArea:      cfg.MinQuadArea,
				EpsilonRatio: cfg.EpsilonRatio,
			},
			CandidateIndex: cfg.CandidateIndex,
			ContourColor:   stroke,
			Thickness:      cfg.AnnotationWidth,
			Labels:         true,
		},
		Rectify: roi.RectifyOptions{
			SubPix: roi.SubPixOptions{
				HalfWindow:    cfg.CornerWindow,
				MaxIterations: cfg.CornerIterations,
				Epsilon:       cfg.CornerEpsilon,
			},
			Margin: cfg.InsetMargin,
		},
		Segment: particles.SegmentOptions{
			BlockSize:       cfg.ThresholdBlockSize,
			C:               cfg.ThresholdC,
			BlurSize:        cfg.BlurSize,
			OpenSize:        cfg.OpenSize,
			CanonicalPixels: cfg.CanonicalPixels,
			Interpolation:   interp,
		},
		Classify: particles.ClassifyOptions{
			AssumedAreaUm2: cfg.AssumedAreaUm2,
			DensityDivisor: cfg.DensityDivisor,
		},
	}, nil
}
