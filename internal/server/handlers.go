package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/segment-reader/internal/classifier"
	"github.com/ironsheep/segment-reader/internal/detection"
	"github.com/ironsheep/segment-reader/internal/imaging"
	"github.com/ironsheep/segment-reader/internal/reader"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "meter_read").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs one tool. A result travels as pretty JSON inside a
// single text content block; a tool that fails answers with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return fail(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.WithField("tool", params.Name).WithError(err).Info("tool failed")
		return fail(req.ID, -32000, "Tool execution failed", err.Error())
	}
	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{{"type": "text", "text": mustMarshalJSON(result)}},
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

	// Digit Extraction
	case "image_trim":
		return s.handleImageTrim(args)
	case "line_detect":
		return s.handleLineDetect(args)

	// Digit Classification
	case "digit_classify":
		return s.handleDigitClassify(args)
	case "digit_features":
		return s.handleDigitFeatures(args)

	// Meter Reading
	case "meter_read":
		return s.handleMeterRead(ctx, args)
	case "layout_preview":
		return s.handleLayoutPreview(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON yields "" for a value that cannot be encoded.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Digit Extraction Handlers ===

type imageTrimArgs struct {
	Path string                 `json:"path"`
	Quad *imaging.Quadrilateral `json:"quad"`
}

func (s *Server) handleImageTrim(args json.RawMessage) (interface{}, error) {
	var a imageTrimArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Quad == nil {
		return nil, fmt.Errorf("quad is required")
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	trimmed, err := imaging.Trim(img, *a.Quad)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(trimmed)
}

type lineDetectArgs struct {
	Path        string          `json:"path"`
	Region      *imaging.Region `json:"region"`
	Orientation string          `json:"orientation"`
}

type lineDetectResult struct {
	Orientation string         `json:"orientation"`
	Region      imaging.Region `json:"region"`
	Lines       []int          `json:"lines"`
	HasLine     bool           `json:"has_line"`
	TooSmall    bool           `json:"too_small"`

	// Foreground is the number of on pixels after binarization. Zero on a
	// region holding ink usually means the threshold is too high.
	Foreground int `json:"foreground"`
}

func (s *Server) handleLineDetect(args json.RawMessage) (interface{}, error) {
	var a lineDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	o, err := detection.ParseOrientation(a.Orientation)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	sub, region, err := selectRegion(img, a.Region)
	if err != nil {
		return nil, err
	}

	result := &lineDetectResult{
		Orientation: o.String(),
		Region:      region,
		Lines:       []int{},
		TooSmall:    detection.TooSmall(region.X2-region.X1, region.Y2-region.Y1, o),
	}
	if result.TooSmall {
		return result, nil
	}

	mask := s.model.Detector().Binarize(sub)
	result.Lines = detection.ScanMask(mask, o)
	result.HasLine = len(result.Lines) > 0
	result.Foreground = mask.Count()
	return result, nil
}

// === Digit Classification Handlers ===

type digitArgs struct {
	Path   string                 `json:"path"`
	Quad   *imaging.Quadrilateral `json:"quad"`
	Region *imaging.Region        `json:"region"`
}

type digitClassifyResult struct {
	Digit    int                      `json:"digit"`
	Features classifier.FeatureVector `json:"features"`
}

type digitFeaturesResult struct {
	Width    int                      `json:"width"`
	Height   int                      `json:"height"`
	Features classifier.FeatureVector `json:"features"`
	Bits     uint8                    `json:"bits"`
	Digit    *int                     `json:"digit,omitempty"`
	Zones    []classifier.ZoneResult  `json:"zones"`
}

// loadDigit loads the image named by a and cuts out the digit it describes.
// A quad wins over a region; with neither, the whole image is the digit.
func (s *Server) loadDigit(a digitArgs) (image.Image, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Quad != nil {
		return imaging.Trim(img, *a.Quad)
	}
	sub, _, err := selectRegion(img, a.Region)
	return sub, err
}

func (s *Server) handleDigitClassify(args json.RawMessage) (interface{}, error) {
	var a digitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadDigit(a)
	if err != nil {
		return nil, err
	}

	v := s.model.Features(img)
	digit, err := s.model.Classify(v)
	if err != nil {
		return nil, err
	}
	return &digitClassifyResult{
		Digit:    digit,
		Features: v,
	}, nil
}

func (s *Server) handleDigitFeatures(args json.RawMessage) (interface{}, error) {
	var a digitArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadDigit(a)
	if err != nil {
		return nil, err
	}

	zones, v := s.model.Analyze(img)

	result := &digitFeaturesResult{
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Features: v,
		Bits:     v.Bits(),
		Zones:    zones,
	}
	if d, err := s.model.Classify(v); err == nil {
		result.Digit = &d
	}
	return result, nil
}

// === Meter Reading Handlers ===

type meterArgs struct {
	Path       string `json:"path"`
	LayoutPath string `json:"layout_path"`
	Color      string `json:"color"`
}

type meterReadResult struct {
	Reading   string  `json:"reading"`
	Value     float64 `json:"value"`
	Digits    []int   `json:"digits"`
	Formatted string  `json:"formatted"`
}

// readerFor builds a Reader over the layout file at path, or over the
// server's layout when path is empty.
func (s *Server) readerFor(path string) (*reader.Reader, error) {
	layout := s.layout
	if path != "" {
		var err error
		layout, err = reader.LoadLayout(path)
		if err != nil {
			return nil, err
		}
	}
	return reader.New(s.model, layout, nil)
}

func (s *Server) handleMeterRead(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a meterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.readerFor(a.LayoutPath)
	if err != nil {
		return nil, err
	}

	reading, err := r.ReadFile(ctx, s.cache, a.Path)
	if err != nil {
		var slotErr *reader.SlotError
		if errors.As(err, &slotErr) && slotErr.Stats != nil {
			return nil, fmt.Errorf("%w (lightness %.1f, ink %.2f)",
				err, slotErr.Stats.Lightness, slotErr.Stats.InkFraction)
		}
		return nil, err
	}

	return &meterReadResult{
		Reading:   reading.String(),
		Value:     reading.Value(),
		Digits:    reading.Digits,
		Formatted: reading.Format(),
	}, nil
}

func (s *Server) handleLayoutPreview(args json.RawMessage) (interface{}, error) {
	var a meterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.readerFor(a.LayoutPath)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	outlines := r.Layout().Outlines(r.Labels(img))
	return imaging.DrawOutlines(img, outlines, a.Color)
}

// selectRegion cuts region out of img, or returns all of img when region is
// nil. The returned Region is relative to img's top-left corner.
func selectRegion(img image.Image, region *imaging.Region) (image.Image, imaging.Region, error) {
	bounds := img.Bounds()
	full := imaging.Region{X2: bounds.Dx(), Y2: bounds.Dy()}
	if region == nil {
		return imaging.SubImage(img, full.Rect()), full, nil
	}
	if err := region.Validate(); err != nil {
		return nil, imaging.Region{}, err
	}
	if region.X1 < 0 || region.Y1 < 0 || region.X2 > full.X2 || region.Y2 > full.Y2 {
		return nil, imaging.Region{}, fmt.Errorf("region (%d,%d)-(%d,%d) exceeds image bounds %dx%d",
			region.X1, region.Y1, region.X2, region.Y2, full.X2, full.Y2)
	}
	return imaging.SubImage(img, region.Rect()), *region, nil
}
