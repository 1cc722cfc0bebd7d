package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/plot-digitizer/internal/detection"
	"github.com/ironsheep/plot-digitizer/internal/imaging"
	"github.com/ironsheep/plot-digitizer/internal/logger"
	"github.com/ironsheep/plot-digitizer/internal/plotspace"
	"github.com/ironsheep/plot-digitizer/internal/raster"
)

// Scans decoded in parallel by plot_extract_batch.
const batchWorkers = 4

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "plot_extract_markers").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errBadArguments marks failures to decode or validate tool arguments. They
// are reported as invalid params rather than tool failures.
var errBadArguments = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	log := logger.Entry(ctx)

	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	log = log.WithField("tool", params.Name)
	out, err := s.executeTool(logger.WithLogEntry(ctx, log), params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).Info("tool call failed")
		if errors.Is(err, errBadArguments) || errors.Is(err, detection.ErrInvalidParams) {
			return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return result(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(out)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_unload":
		return s.handleImageUnload(args)

	// Marker Extraction
	case "plot_extract_markers":
		return s.handlePlotExtractMarkers(ctx, args)
	case "plot_extract_batch":
		return s.handlePlotExtractBatch(ctx, args)

	// Pipeline Stages
	case "plot_segment":
		return s.handlePlotSegment(args)
	case "plot_edge_detect":
		return s.handlePlotEdgeDetect(args)
	case "plot_marker_overlay":
		return s.handlePlotMarkerOverlay(ctx, args)
	case "plot_render":
		return s.handlePlotRender(ctx, args)

	default:
		return nil, errors.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return errors.Wrap(errBadArguments, err.Error())
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageUnloadResult struct {
	Cached int `json:"cached"`
}

func (s *Server) handleImageUnload(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		s.cache.Clear()
	} else {
		s.cache.Evict(a.Path)
	}
	return &imageUnloadResult{Cached: s.cache.Len()}, nil
}

// === Detection argument handling ===

// detectionArgs are the arguments shared by every detector tool. Pointer
// fields distinguish "not given" from an explicit zero.
type detectionArgs struct {
	Path        string          `json:"path"`
	Radius      *float64        `json:"radius"`
	Cutoff      *int            `json:"cutoff"`
	PeakRatio   *float64        `json:"peak_ratio"`
	Region      *imaging.Region `json:"region"`
	NamedRegion string          `json:"named_region"`
	Scale       float64         `json:"scale"`
}

type axesArgs struct {
	XLow  *float64 `json:"x_low"`
	XHigh *float64 `json:"x_high"`
	YLow  *float64 `json:"y_low"`
	YHigh *float64 `json:"y_high"`
}

func (a axesArgs) axes() plotspace.Axes {
	axes := plotspace.DefaultAxes()
	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{a.XLow, &axes.XLow},
		{a.XHigh, &axes.XHigh},
		{a.YLow, &axes.YLow},
		{a.YHigh, &axes.YHigh},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return axes
}

// params merges a's detector settings over the server defaults.
func (s *Server) params(a detectionArgs) (detection.Params, error) {
	p := s.config.Defaults
	if a.Radius != nil {
		p.Radius = *a.Radius
	}
	if a.Cutoff != nil {
		if *a.Cutoff < 0 || *a.Cutoff > 255 {
			return p, errors.Wrapf(errBadArguments, "cutoff %d outside 0-255", *a.Cutoff)
		}
		p.Cutoff = uint8(*a.Cutoff)
	}
	if a.PeakRatio != nil {
		p.PeakRatio = *a.PeakRatio
	}
	return p, p.Validate()
}

// loadScan loads a.Path through the cache and applies the requested crop and
// scale. It returns the image (origin at (0, 0)) and a raster of it that the
// caller owns. Uncropped scans reuse the cache's raster conversion.
func (s *Server) loadScan(a detectionArgs) (image.Image, *raster.Raster, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}

	var region imaging.Region
	switch {
	case a.Region != nil:
		region = *a.Region
	case a.NamedRegion != "":
		if region, err = imaging.NamedRegion(img.Bounds(), a.NamedRegion); err != nil {
			return nil, nil, errors.Wrap(errBadArguments, err.Error())
		}
	default:
		if a.Scale == 0 || a.Scale == 1 {
			r, err := s.cache.LoadRaster(a.Path)
			if err != nil {
				return nil, nil, err
			}
			return img, r, nil
		}
		b := img.Bounds()
		region = imaging.Region{X1: b.Min.X, Y1: b.Min.Y, X2: b.Max.X, Y2: b.Max.Y}
	}

	cropped, err := imaging.CropRegion(img, region, a.Scale)
	if err != nil {
		return nil, nil, errors.Wrap(errBadArguments, err.Error())
	}
	return cropped, raster.FromImage(cropped), nil
}

// scan is one detector run over a loaded (and possibly cropped) image.
type scan struct {
	img    image.Image
	raster *raster.Raster
	params detection.Params
	res    *detection.Result
}

// detect loads the scan and runs the full pipeline on it.
func (s *Server) detect(ctx context.Context, a detectionArgs) (*scan, error) {
	p, err := s.params(a)
	if err != nil {
		return nil, err
	}
	img, r, err := s.loadScan(a)
	if err != nil {
		return nil, err
	}

	res, err := detection.Detect(r, p)
	if err != nil {
		return nil, err
	}
	logger.Entry(ctx).WithFields(logrus.Fields{
		"path":    a.Path,
		"width":   r.Width,
		"height":  r.Height,
		"radius":  p.Radius,
		"markers": len(res.Centers),
	}).Debug("markers detected")
	return &scan{img: img, raster: r, params: p, res: res}, nil
}

// === Marker Extraction Handlers ===

type extractArgs struct {
	detectionArgs
	axesArgs
	IncludeVotes bool `json:"include_votes"`
}

// ExtractResult is the result of plot_extract_markers.
type ExtractResult struct {
	Path     string                   `json:"path"`
	Width    int                      `json:"width"`
	Height   int                      `json:"height"`
	Params   detection.Params         `json:"params"`
	Axes     plotspace.Axes           `json:"axes"`
	Count    int                      `json:"count"`
	Centers  []detection.MarkerCenter `json:"centers"`
	Points   []plotspace.Point        `json:"points"`
	MaxVote  int                      `json:"max_vote"`
	Fit      *plotspace.Fit           `json:"fit,omitempty"`
	Votes    *imaging.ImageResult     `json:"votes,omitempty"`
	PeakMask *imaging.ImageResult     `json:"peak_mask,omitempty"`
}

func (s *Server) extract(ctx context.Context, a extractArgs) (*ExtractResult, error) {
	sc, err := s.detect(ctx, a.detectionArgs)
	if err != nil {
		return nil, err
	}
	r, res := sc.raster, sc.res

	axes := a.axes()
	out := &ExtractResult{
		Path:    a.Path,
		Width:   r.Width,
		Height:  r.Height,
		Params:  sc.params,
		Axes:    axes,
		Count:   len(res.Centers),
		Centers: res.Centers,
		Points:  plotspace.MapAll(res.Centers, r.Width, r.Height, axes),
		MaxVote: maxVote(res.Votes),
	}
	if f, err := plotspace.LinearFit(out.Points); err == nil {
		out.Fit = &f
	}
	if a.IncludeVotes {
		if out.Votes, err = imaging.EncodePNG(res.Votes.ToImage()); err != nil {
			return nil, err
		}
		mask := detection.PeakMask(res.Votes, res.Centers)
		if out.PeakMask, err = imaging.EncodePNG(mask.ToImage()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// maxVote is the strongest interior vote, the value peak thresholds are
// taken against.
func maxVote(votes *raster.Raster) int {
	top := 0
	start, end := votes.Interior()
	for _, v := range votes.R[start:end] {
		if int(v) > top {
			top = int(v)
		}
	}
	return top
}

func (s *Server) handlePlotExtractMarkers(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a extractArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.extract(ctx, a)
}

type extractBatchArgs struct {
	detectionArgs
	axesArgs
	Paths []string `json:"paths"`
}

// BatchItem is one scan's outcome in plot_extract_batch.
type BatchItem struct {
	Path   string         `json:"path"`
	Result *ExtractResult `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (s *Server) handlePlotExtractBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a extractBatchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, errors.Wrap(errBadArguments, "paths is empty")
	}
	if _, err := s.params(a.detectionArgs); err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(a.Paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, path := range a.Paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			one := extractArgs{detectionArgs: a.detectionArgs, axesArgs: a.axesArgs}
			one.Path = path
			items[i].Path = path
			res, err := s.extract(gctx, one)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// === Pipeline Stage Handlers ===

// StageResult is the result of plot_segment and plot_edge_detect: the stage
// image plus what the detector would find with the same settings, so a
// cutoff can be tuned in one call.
type StageResult struct {
	*imaging.ImageResult
	Markers int `json:"markers"`
	MaxVote int `json:"max_vote"`
}

// stage runs the pipeline stage by stage and encodes the raster pick selects.
func (s *Server) stage(args json.RawMessage, pick func(segmented, edges *raster.Raster) *raster.Raster) (*StageResult, error) {
	var a detectionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	p, err := s.params(a)
	if err != nil {
		return nil, err
	}
	_, r, err := s.loadScan(a)
	if err != nil {
		return nil, err
	}

	segmented, edges, res, err := detection.Stages(r, p)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(pick(segmented, edges).ToImage())
	if err != nil {
		return nil, err
	}
	return &StageResult{
		ImageResult: encoded,
		Markers:     len(res.Centers),
		MaxVote:     maxVote(res.Votes),
	}, nil
}

func (s *Server) handlePlotSegment(args json.RawMessage) (interface{}, error) {
	return s.stage(args, func(segmented, _ *raster.Raster) *raster.Raster { return segmented })
}

func (s *Server) handlePlotEdgeDetect(args json.RawMessage) (interface{}, error) {
	return s.stage(args, func(_, edges *raster.Raster) *raster.Raster { return edges })
}

type overlayArgs struct {
	detectionArgs
	Color    string `json:"color"`
	Numbered *bool  `json:"numbered"`
}

// OverlayResult is the result of plot_marker_overlay.
type OverlayResult struct {
	*imaging.ImageResult
	Centers []detection.MarkerCenter `json:"centers"`
}

func (s *Server) handlePlotMarkerOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a overlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = imaging.DefaultMarkColor
	}
	numbered := a.Numbered == nil || *a.Numbered

	sc, err := s.detect(ctx, a.detectionArgs)
	if err != nil {
		return nil, err
	}

	marked := imaging.MarkerOverlay(sc.img, sc.res.Centers, sc.params.Radius, a.Color, numbered)
	encoded, err := imaging.EncodePNG(marked)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{ImageResult: encoded, Centers: sc.res.Centers}, nil
}

type renderArgs struct {
	detectionArgs
	axesArgs
}

// RenderResult is the result of plot_render.
type RenderResult struct {
	imaging.ImageResult
	Points []plotspace.Point `json:"points"`
}

func (s *Server) handlePlotRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	sc, err := s.detect(ctx, a.detectionArgs)
	if err != nil {
		return nil, err
	}
	axes := a.axes()
	points := plotspace.MapAll(sc.res.Centers, sc.raster.Width, sc.raster.Height, axes)

	var buf bytes.Buffer
	if err := plotspace.Render(points, axes, &buf); err != nil {
		return nil, err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, errors.Wrap(err, "read rendered plot")
	}
	return &RenderResult{
		ImageResult: imaging.ImageResult{
			Width:       cfg.Width,
			Height:      cfg.Height,
			ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
			MimeType:    "image/png",
		},
		Points: points,
	}, nil
}
