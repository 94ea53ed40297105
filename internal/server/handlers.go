package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/photo-telemetry/internal/container"
	"github.com/ironsheep/photo-telemetry/internal/diagnose"
	"github.com/ironsheep/photo-telemetry/internal/imaging"
	"github.com/ironsheep/photo-telemetry/internal/telemetry"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "photo_load", "photo_analyze").
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
	logger := log.WithField("tool", params.Name).WithField("elapsed", time.Since(start))
	if err != nil {
		logger.WithError(err).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	logger.Debug("tool done")

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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images through the loader cache as needed
//  4. Calls the appropriate imaging/telemetry function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Ingestion
	case "photo_load":
		return s.handlePhotoLoad(args)
	case "photo_extract_preview":
		return s.handlePhotoExtractPreview(args)

	// Analysis
	case "photo_analyze":
		return s.handlePhotoAnalyze(args)
	case "photo_compare":
		return s.handlePhotoCompare(ctx, args)
	case "photo_clipping_map":
		return s.handlePhotoClippingMap(args)
	case "photo_camera_info":
		return s.handlePhotoCameraInfo(args)
	case "photo_sample_color":
		return s.handlePhotoSampleColor(args)

	// History
	case "photo_history":
		return s.handlePhotoHistory(args)

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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Ingestion Handlers ===

type photoPathArgs struct {
	Path string `json:"path"`
}

func (a photoPathArgs) validate() error {
	if a.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

func (s *Server) handlePhotoLoad(args json.RawMessage) (interface{}, error) {
	var a photoPathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.loader, a.Path)
}

type photoExtractArgs struct {
	Path         string `json:"path"`
	OutputPath   string `json:"output_path"`
	IncludeImage bool   `json:"include_image"`
}

type extractResult struct {
	Found      bool                  `json:"found"`
	Preview    *container.Candidate  `json:"preview,omitempty"`
	Format     string                `json:"format,omitempty"`
	Width      int                   `json:"width,omitempty"`
	Height     int                   `json:"height,omitempty"`
	Decodable  bool                  `json:"decodable"`
	OutputPath string                `json:"output_path,omitempty"`
	Image      *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handlePhotoExtractPreview(args json.RawMessage) (interface{}, error) {
	var a photoExtractArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	preview, ok := container.FindPreview(data, s.opts.Loader.Container)
	if !ok {
		return &extractResult{Found: false}, nil
	}

	res := &extractResult{Found: true, Preview: &preview.Candidate}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(preview.Data)); err == nil {
		res.Decodable = true
		res.Format = format
		res.Width, res.Height = cfg.Width, cfg.Height
	}

	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, preview.Data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write preview: %w", err)
		}
		res.OutputPath = a.OutputPath
	}
	if a.IncludeImage {
		res.Image = imaging.EncodeJPEGBytes(preview.Data, res.Width, res.Height)
	}
	return res, nil
}

// === Analysis Handlers ===

type photoAnalyzeArgs struct {
	Path    string `json:"path"`
	Label   string `json:"label"`
	Buckets int    `json:"buckets"`
}

type analyzeResult struct {
	ID        string               `json:"id"`
	Seq       int                  `json:"seq"`
	Label     string               `json:"label"`
	Source    *imaging.Source      `json:"source"`
	Telemetry *telemetry.Telemetry `json:"telemetry"`
}

func (s *Server) handlePhotoAnalyze(args json.RawMessage) (interface{}, error) {
	var a photoAnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if a.Buckets < 0 || a.Buckets > 256 {
		return nil, fmt.Errorf("buckets must be within 1-256, got %d", a.Buckets)
	}

	src, err := s.loader.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := s.opts.Telemetry
	if a.Buckets > 0 {
		opts.Buckets = a.Buckets
	}
	tel, err := telemetry.Analyze(src.Image, opts)
	if err != nil {
		return nil, err
	}

	e := s.history.Append(a.Label, a.Path, tel)
	return &analyzeResult{ID: e.ID, Seq: e.Seq, Label: e.Label, Source: src, Telemetry: tel}, nil
}

type photoCompareArgs struct {
	Original  string `json:"original"`
	Processed string `json:"processed"`
}

type compareResult struct {
	OriginalID  string `json:"original_id"`
	ProcessedID string `json:"processed_id"`
	*telemetry.Comparison
}

func (s *Server) handlePhotoCompare(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a photoCompareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Original == "" || a.Processed == "" {
		return nil, fmt.Errorf("original and processed are required")
	}

	orig, err := s.loader.Load(a.Original)
	if err != nil {
		return nil, fmt.Errorf("original: %w", err)
	}
	proc, err := s.loader.Load(a.Processed)
	if err != nil {
		return nil, fmt.Errorf("processed: %w", err)
	}

	cmp, err := telemetry.Compare(ctx, orig.Image, proc.Image, s.opts.Telemetry)
	if err != nil {
		return nil, err
	}

	eo := s.history.Append(telemetry.LabelOriginal, a.Original, cmp.Original)
	ep := s.history.Append(telemetry.LabelProcessed, a.Processed, cmp.Processed)
	return &compareResult{OriginalID: eo.ID, ProcessedID: ep.ID, Comparison: cmp}, nil
}

type photoClippingArgs struct {
	Path      string `json:"path"`
	Threshold int    `json:"threshold"`
}

func (s *Server) handlePhotoClippingMap(args json.RawMessage) (interface{}, error) {
	var a photoClippingArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if a.Threshold == 0 {
		a.Threshold = s.opts.ClipThreshold
	}
	if a.Threshold < 1 || a.Threshold > 255 {
		return nil, fmt.Errorf("threshold must be within 1-255, got %d", a.Threshold)
	}

	src, err := s.loader.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.RenderClippingMap(src.Image, a.Threshold)
}

func (s *Server) handlePhotoCameraInfo(args json.RawMessage) (interface{}, error) {
	var a photoPathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	info := imaging.CameraSummary(data)
	if !info.Empty() {
		return info, nil
	}

	// Some containers only carry EXIF inside the embedded preview.
	src, err := s.loader.Load(a.Path)
	if err != nil || src.Preview == nil {
		return info, nil
	}
	return imaging.CameraSummary(src.Encoded), nil
}

type photoSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handlePhotoSampleColor(args json.RawMessage) (interface{}, error) {
	var a photoSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	src, err := s.loader.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(src.Image, a.X, a.Y)
}

// === History Handlers ===

type photoHistoryArgs struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

type historySummary struct {
	ID           string          `json:"id"`
	Seq          int             `json:"seq"`
	Label        string          `json:"label"`
	Source       string          `json:"source"`
	RecordedAt   time.Time       `json:"recorded_at"`
	GradingScore int             `json:"grading_score"`
	Exposure     string          `json:"exposure"`
	Codes        []diagnose.Code `json:"codes"`
}

func (s *Server) handlePhotoHistory(args json.RawMessage) (interface{}, error) {
	var a photoHistoryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	if a.ID != "" {
		e, ok := s.history.Get(a.ID)
		if !ok {
			return nil, fmt.Errorf("no history entry with id %s", a.ID)
		}
		return e, nil
	}

	out := []historySummary{}
	for _, e := range s.history.Entries() {
		if a.Label != "" && e.Label != a.Label {
			continue
		}
		sum := historySummary{
			ID:         e.ID,
			Seq:        e.Seq,
			Label:      e.Label,
			Source:     e.Source,
			RecordedAt: e.RecordedAt,
			Codes:      []diagnose.Code{},
		}
		if e.Telemetry != nil {
			sum.GradingScore = e.Telemetry.GradingScore
			sum.Exposure = e.Telemetry.Exposure
			for _, f := range e.Telemetry.Findings {
				sum.Codes = append(sum.Codes, f.Code)
			}
		}
		out = append(out, sum)
	}
	return map[string]interface{}{"entries": out, "count": len(out)}, nil
}
