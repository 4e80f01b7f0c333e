// Package pipeline runs a sampling-card photo through window location,
// rectification, particle segmentation and size classification.
//
// Every request carries its own image and overrides; an Analyzer holds only
// immutable configuration, so one Analyzer may serve concurrent requests.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/ironsheep/particle-tools-mcp/internal/config"
	"github.com/ironsheep/particle-tools-mcp/internal/particles"
	"github.com/ironsheep/particle-tools-mcp/internal/roi"
)

// NotFoundMessage is reported when a photo has no sampling window.
const NotFoundMessage = "no region of interest detected"

// ErrNoImage is returned for a request without an image.
var ErrNoImage = errors.New("pipeline: request has no image")

// Request is one photo to analyze.
type Request struct {
	// Image is the photo of the sampling card.
	Image image.Image

	// Name identifies the request in results and logs, typically the file
	// path.
	Name string

	Options Overrides
}

// Result is the outcome of analyzing one photo.
type Result struct {
	Name string `json:"name,omitempty"`

	// Found is false when no sampling window was located; Message then
	// says so and the later stages are absent.
	Found   bool   `json:"found"`
	Message string `json:"message,omitempty"`

	// Annotated is the photo with the located window outlined.
	Annotated  *image.NRGBA   `json:"-"`
	Corners    *roi.Corners   `json:"corners,omitempty"`
	Candidates int            `json:"candidates"`
	ROI        *roi.Rectified `json:"roi,omitempty"`

	Mask     *particles.Mask     `json:"-"`
	Analysis *particles.Analysis `json:"analysis,omitempty"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// Analyzer runs the pipeline with a fixed configuration.
type Analyzer struct {
	cfg    config.Config
	logger *slog.Logger
}

// New returns an Analyzer. A nil logger discards log output.
func New(cfg config.Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Config returns the configuration the Analyzer was built with.
func (a *Analyzer) Config() config.Config {
	return a.cfg
}

// Analyze runs every stage on req.Image.
//
// A photo without a sampling window is not an error: the result has Found
// false and NotFoundMessage. The context is checked between stages and, when
// the configuration sets a request timeout, bounded by it.
func (a *Analyzer) Analyze(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Image == nil || req.Image.Bounds().Empty() {
		return nil, ErrNoImage
	}
	opts, err := ResolveOptions(a.cfg, req.Options)
	if err != nil {
		return nil, err
	}
	if d := a.cfg.RequestTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := time.Now()
	log := a.logger.With("name", req.Name)
	res := &Result{Name: req.Name}

	extractor, err := roi.NewExtractor(opts.Backend)
	if err != nil {
		return nil, err
	}

	var loc *roi.Location
	if err := a.stage(ctx, log, "locate", func() (err error) {
		loc, err = extractor.Locate(req.Image, opts.Locate)
		return err
	}); err != nil {
		return nil, err
	}
	res.Annotated = loc.Annotated
	res.Candidates = loc.Candidates
	log.Debug("window candidates", "count", loc.Candidates)

	if !loc.Found() {
		log.Info(NotFoundMessage, "candidates", loc.Candidates)
		res.Message = NotFoundMessage
		res.Elapsed = time.Since(start)
		return res, nil
	}
	res.Found = true
	res.Corners = loc.Corners

	if err := a.stage(ctx, log, "rectify", func() (err error) {
		res.ROI, err = extractor.Rectify(req.Image, loc.Corners, opts.Rectify)
		return err
	}); err != nil {
		return nil, err
	}

	if err := a.stage(ctx, log, "segment", func() (err error) {
		res.Mask, err = particles.Segment(res.ROI.Image, opts.Segment)
		return err
	}); err != nil {
		return nil, err
	}

	if err := a.stage(ctx, log, "classify", func() (err error) {
		res.Analysis, err = particles.Classify(res.Mask.Image, opts.Classify)
		return err
	}); err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(start)
	log.Info("analysis complete",
		"total", res.Analysis.Report.Total,
		"level", res.Analysis.Report.Level,
		"elapsed", res.Elapsed)
	return res, nil
}

// stage runs fn unless ctx is already done and logs how long it took.
func (a *Analyzer) stage(ctx context.Context, log *slog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := time.Now()
	err := fn()
	log.Debug("stage finished", "stage", name, "elapsed", time.Since(start), "error", err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// PollutionTable returns the reference description of each pollution level.
func PollutionTable() []particles.LevelInfo {
	return particles.Levels()
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
