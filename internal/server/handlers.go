package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/particle-tools-mcp/internal/imaging"
	"github.com/ironsheep/particle-tools-mcp/internal/ocr"
	"github.com/ironsheep/particle-tools-mcp/internal/particles"
	"github.com/ironsheep/particle-tools-mcp/internal/pipeline"
	"github.com/ironsheep/particle-tools-mcp/internal/roi"
)

// defaultPreviewSide bounds the longer side of images returned by tools.
const defaultPreviewSide = 1024

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "card_locate", "particle_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool finished", "tool", params.Name, "elapsed", time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Card Inspection
	case "card_load":
		return s.handleCardLoad(args)
	case "card_locate":
		return s.handleCardLocate(args)
	case "card_rectify":
		return s.handleCardRectify(args)
	case "card_read_label":
		return s.handleCardReadLabel(args)

	// Particle Analysis
	case "particle_segment":
		return s.handleParticleSegment(args)
	case "particle_analyze":
		return s.handleParticleAnalyze(ctx, args)
	case "particle_analyze_batch":
		return s.handleParticleAnalyzeBatch(ctx, args)
	case "pollution_levels":
		return s.handlePollutionLevels()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string without
// HTML escaping, so report keys such as "<=1um" survive intact.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := particles.EncodeJSON(v, "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating absent arguments as an
// empty object.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

// extraction runs window location, and rectification when asked, for one
// photo with the server configuration.
type extraction struct {
	photo     *image.NRGBA
	opts      pipeline.Options
	location  *roi.Location
	rectified *roi.Rectified
}

func (s *Server) extract(path string, overrides pipeline.Overrides, rectify bool) (*extraction, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	photo, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	opts, err := pipeline.ResolveOptions(s.analyzer.Config(), overrides)
	if err != nil {
		return nil, err
	}
	extractor, err := roi.NewExtractor(opts.Backend)
	if err != nil {
		return nil, err
	}

	loc, err := extractor.Locate(photo, opts.Locate)
	if err != nil {
		return nil, err
	}
	ex := &extraction{photo: photo, opts: opts, location: loc}
	if !rectify || !loc.Found() {
		return ex, nil
	}
	ex.rectified, err = extractor.Rectify(photo, loc.Corners, opts.Rectify)
	if err != nil {
		return nil, err
	}
	return ex, nil
}

func previewSide(n int) int {
	if n <= 0 {
		return defaultPreviewSide
	}
	return n
}

// === Card Inspection Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleCardLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadPhotoInfo(s.cache, a.Path)
}

type cardArgs struct {
	Path        string `json:"path"`
	Backend     string `json:"backend"`
	PreviewSide int    `json:"preview_side"`
}

type cardLocateResult struct {
	Found      bool                  `json:"found"`
	Message    string                `json:"message,omitempty"`
	Candidates int                   `json:"candidates"`
	Corners    *roi.Corners          `json:"corners,omitempty"`
	Annotated  *imaging.EncodedImage `json:"annotated"`
}

func (s *Server) handleCardLocate(args json.RawMessage) (interface{}, error) {
	var a cardArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	ex, err := s.extract(a.Path, pipeline.Overrides{Backend: a.Backend}, false)
	if err != nil {
		return nil, err
	}
	annotated, err := imaging.Preview(ex.location.Annotated, previewSide(a.PreviewSide))
	if err != nil {
		return nil, err
	}

	res := &cardLocateResult{
		Found:      ex.location.Found(),
		Candidates: ex.location.Candidates,
		Corners:    ex.location.Corners,
		Annotated:  annotated,
	}
	if !res.Found {
		res.Message = pipeline.NotFoundMessage
	}
	return res, nil
}

type cardRectifyResult struct {
	Found      bool                  `json:"found"`
	Message    string                `json:"message,omitempty"`
	Width      int                   `json:"width,omitempty"`
	Height     int                   `json:"height,omitempty"`
	Corners    *roi.Corners          `json:"corners,omitempty"`
	Homography *roi.Homography       `json:"homography,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleCardRectify(args json.RawMessage) (interface{}, error) {
	var a cardArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	ex, err := s.extract(a.Path, pipeline.Overrides{Backend: a.Backend}, true)
	if err != nil {
		return nil, err
	}
	if ex.rectified == nil {
		return &cardRectifyResult{Message: pipeline.NotFoundMessage}, nil
	}

	r := ex.rectified
	encoded, err := imaging.Preview(r.Image, previewSide(a.PreviewSide))
	if err != nil {
		return nil, err
	}
	return &cardRectifyResult{
		Found:      true,
		Width:      r.Width,
		Height:     r.Height,
		Corners:    &r.Corners,
		Homography: &r.Homography,
		Image:      encoded,
	}, nil
}

type cardReadLabelArgs struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	X1       *int   `json:"x1"`
	Y1       *int   `json:"y1"`
	X2       *int   `json:"x2"`
	Y2       *int   `json:"y2"`
}

func (a cardReadLabelArgs) region() (image.Rectangle, bool) {
	if a.X1 == nil || a.Y1 == nil || a.X2 == nil || a.Y2 == nil {
		return image.Rectangle{}, false
	}
	return image.Rect(*a.X1, *a.Y1, *a.X2, *a.Y2), true
}

func (s *Server) handleCardReadLabel(args json.RawMessage) (interface{}, error) {
	var a cardReadLabelArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.analyzer.Config().OCRLanguage
	}

	region, ok := a.region()
	if !ok {
		// Without an explicit region read the band above the window.
		ex, err := s.extract(a.Path, pipeline.Overrides{}, false)
		if err != nil {
			return nil, err
		}
		top := 0
		if c := ex.location.Corners; c != nil {
			top = int(min(c.TopLeft.Y, c.TopRight.Y, c.BottomLeft.Y, c.BottomRight.Y))
		}
		region = imaging.LabelBand(ex.photo.Bounds(), top)
		return ocr.ReadLabel(ex.photo, region, a.Language)
	}

	photo, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return ocr.ReadLabel(photo, region, a.Language)
}

// === Particle Analysis Handlers ===

type particleArgs struct {
	Path             string `json:"path"`
	Backend          string `json:"backend"`
	Interpolation    string `json:"interpolation"`
	PreviewSide      int    `json:"preview_side"`
	IncludeParticles bool   `json:"include_particles"`
}

func (a particleArgs) overrides() pipeline.Overrides {
	return pipeline.Overrides{Backend: a.Backend, Interpolation: a.Interpolation}
}

type particleSegmentResult struct {
	Found            bool                  `json:"found"`
	Message          string                `json:"message,omitempty"`
	Width            int                   `json:"width,omitempty"`
	Height           int                   `json:"height,omitempty"`
	ScaleFactor      float64               `json:"scale_factor,omitempty"`
	SourceWidth      int                   `json:"source_width,omitempty"`
	SourceHeight     int                   `json:"source_height,omitempty"`
	ForegroundPixels int                   `json:"foreground_pixels"`
	Preview          *imaging.EncodedImage `json:"preview,omitempty"`
}

func (s *Server) handleParticleSegment(args json.RawMessage) (interface{}, error) {
	var a particleArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	ex, err := s.extract(a.Path, a.overrides(), true)
	if err != nil {
		return nil, err
	}
	if ex.rectified == nil {
		return &particleSegmentResult{Message: pipeline.NotFoundMessage}, nil
	}

	mask, err := particles.Segment(ex.rectified.Image, ex.opts.Segment)
	if err != nil {
		return nil, err
	}
	preview, err := imaging.Preview(mask.Image, previewSide(a.PreviewSide))
	if err != nil {
		return nil, err
	}
	return &particleSegmentResult{
		Found:            true,
		Width:            mask.Width(),
		Height:           mask.Height(),
		ScaleFactor:      mask.ScaleFactor,
		SourceWidth:      mask.SourceWidth,
		SourceHeight:     mask.SourceHeight,
		ForegroundPixels: imaging.CountForeground(mask.Image),
		Preview:          preview,
	}, nil
}

type particleAnalyzeResult struct {
	Path      string               `json:"path,omitempty"`
	Found     bool                 `json:"found"`
	Message   string               `json:"message,omitempty"`
	Error     string               `json:"error,omitempty"`
	Report    *particles.Report    `json:"report,omitempty"`
	Stats     *particles.Stats     `json:"stats,omitempty"`
	Scale     *particles.Scale     `json:"scale,omitempty"`
	Density   float64              `json:"density,omitempty"`
	Corners   *roi.Corners         `json:"corners,omitempty"`
	Window    *image.Point         `json:"window_size,omitempty"`
	Particles []particles.Particle `json:"particles,omitempty"`
	ElapsedMS int64                `json:"elapsed_ms"`
}

func newParticleAnalyzeResult(res *pipeline.Result, includeParticles bool) *particleAnalyzeResult {
	out := &particleAnalyzeResult{
		Path:      res.Name,
		Found:     res.Found,
		Message:   res.Message,
		Corners:   res.Corners,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if res.ROI != nil {
		out.Window = &image.Point{X: res.ROI.Width, Y: res.ROI.Height}
	}
	if a := res.Analysis; a != nil {
		out.Report = &a.Report
		out.Stats = &a.Stats
		out.Scale = &a.Scale
		out.Density = a.Density
		if includeParticles {
			out.Particles = a.Particles
		}
	}
	return out
}

func (s *Server) handleParticleAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a particleArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	photo, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := s.analyzer.Analyze(ctx, &pipeline.Request{Image: photo, Name: a.Path, Options: a.overrides()})
	if err != nil {
		return nil, err
	}
	return newParticleAnalyzeResult(res, a.IncludeParticles), nil
}

type particleAnalyzeBatchArgs struct {
	Paths         []string `json:"paths"`
	Backend       string   `json:"backend"`
	Interpolation string   `json:"interpolation"`
	Workers       int      `json:"workers"`
}

type particleAnalyzeBatchResult struct {
	Results []*particleAnalyzeResult `json:"results"`
	Count   int                      `json:"count"`
	Failed  int                      `json:"failed"`
}

func (s *Server) handleParticleAnalyzeBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a particleAnalyzeBatchArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must list at least one image")
	}

	overrides := pipeline.Overrides{Backend: a.Backend, Interpolation: a.Interpolation}
	out := &particleAnalyzeBatchResult{
		Results: make([]*particleAnalyzeResult, len(a.Paths)),
		Count:   len(a.Paths),
	}

	// Photos that fail to load are reported in place; the rest are analyzed
	// together.
	var reqs []*pipeline.Request
	var slots []int
	for i, path := range a.Paths {
		photo, err := s.cache.Load(path)
		if err != nil {
			out.Results[i] = &particleAnalyzeResult{Path: path, Error: err.Error()}
			out.Failed++
			continue
		}
		reqs = append(reqs, &pipeline.Request{Image: photo, Name: path, Options: overrides})
		slots = append(slots, i)
	}

	for j, item := range s.analyzer.AnalyzeBatch(ctx, reqs, a.Workers) {
		i := slots[j]
		if item.Err != nil {
			out.Results[i] = &particleAnalyzeResult{Path: a.Paths[i], Error: item.Err.Error()}
			out.Failed++
			continue
		}
		out.Results[i] = newParticleAnalyzeResult(item.Result, false)
	}
	return out, nil
}

type pollutionLevelsResult struct {
	Levels []particles.LevelInfo `json:"levels"`
}

func (s *Server) handlePollutionLevels() (interface{}, error) {
	return &pollutionLevelsResult{Levels: pipeline.PollutionTable()}, nil
}
