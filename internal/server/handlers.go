package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-dither/internal/codec"
	"github.com/ironsheep/image-dither/internal/dither"
	"github.com/ironsheep/image-dither/internal/filter"
	"github.com/ironsheep/image-dither/internal/raster"
	"github.com/ironsheep/image-dither/internal/sink"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_dither").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if s.debug {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
//  2. Loads the source buffer from cache, applying crop and fit
//  3. Runs the raster, dither or filter operation
//  4. Encodes the result as PNG and optionally saves it
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_kernels":
		return s.handleImageKernels(args)
	case "image_sample_colors":
		return s.handleImageSampleColors(args)

	// Dithering
	case "image_dither":
		return s.handleImageDither(args)
	case "image_quantise":
		return s.handleImageQuantise(args)
	case "image_raw":
		return s.handleImageRaw(args)

	// Buffer Operations
	case "image_greyscale":
		return s.handleImageGreyscale(args)
	case "image_flip":
		return s.handleImageFlip(args)
	case "image_normalize":
		return s.handleImageNormalize(args)
	case "image_box_blur":
		return s.handleImageBoxBlur(args)
	case "image_draw":
		return s.handleImageDraw(args)

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

// === Shared Argument Handling ===

type cropRect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// sourceArgs selects the input image and the part of it to work on.
type sourceArgs struct {
	Path       string    `json:"path"`
	Region     string    `json:"region"`
	Crop       *cropRect `json:"crop"`
	MaxWidth   int       `json:"max_width"`
	MaxHeight  int       `json:"max_height"`
	OutputPath string    `json:"output_path"`
}

// quantiseArgs picks at most one quantiser. With none set the 0.5
// threshold is used.
type quantiseArgs struct {
	Threshold *float64 `json:"threshold"`
	Levels    int      `json:"levels"`
	Palette   []string `json:"palette"`
	Greyscale bool     `json:"greyscale"`
}

// ImageResult is returned by every tool that produces an image.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Channels    int    `json:"channels"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	OutputPath  string `json:"output_path,omitempty"`
}

// loadSource fetches a private buffer for a.Path and applies the crop and
// size limits in that order.
func (s *Server) loadSource(a sourceArgs) (*raster.Buffer, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	b, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	switch {
	case a.Crop != nil && a.Region != "":
		return nil, fmt.Errorf("crop and region are mutually exclusive")
	case a.Crop != nil:
		b, err = codec.Crop(b, a.Crop.X1, a.Crop.Y1, a.Crop.X2, a.Crop.Y2)
	case a.Region != "":
		b, err = codec.CropQuadrant(b, a.Region)
	}
	if err != nil {
		return nil, err
	}

	if a.MaxWidth != 0 || a.MaxHeight != 0 {
		return codec.Fit(b, a.MaxWidth, a.MaxHeight)
	}
	return b, nil
}

// imageResult encodes b as PNG and, when outputPath is set, also saves it
// in the format implied by the extension.
func imageResult(b *raster.Buffer, outputPath string) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := codec.EncodePNG(&buf, b); err != nil {
		return nil, err
	}
	if outputPath != "" {
		if err := codec.Save(outputPath, b); err != nil {
			return nil, err
		}
	}
	return &ImageResult{
		Width:       b.Width(),
		Height:      b.Height(),
		Channels:    b.Channels(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		OutputPath:  outputPath,
	}, nil
}

// quantiser builds the quantiser described by a and a short description
// of it for results.
func (a quantiseArgs) quantiser() (dither.QuantiseFunc, string, error) {
	set := 0
	if a.Threshold != nil {
		set++
	}
	if a.Levels != 0 {
		set++
	}
	if len(a.Palette) > 0 {
		set++
	}
	if set > 1 {
		return nil, "", fmt.Errorf("threshold, levels and palette are mutually exclusive")
	}

	switch {
	case len(a.Palette) > 0:
		pal, err := dither.ParsePalette(a.Palette)
		if err != nil {
			return nil, "", err
		}
		return pal.Quantiser(), fmt.Sprintf("palette(%d)", len(pal)), nil
	case a.Levels != 0:
		q, err := dither.Levels(a.Levels)
		if err != nil {
			return nil, "", err
		}
		return q, fmt.Sprintf("levels(%d)", a.Levels), nil
	case a.Threshold != nil:
		if *a.Threshold < 0 || *a.Threshold > 1 {
			return nil, "", fmt.Errorf("threshold must be between 0 and 1, got %v", *a.Threshold)
		}
		return dither.Threshold(*a.Threshold), fmt.Sprintf("threshold(%g)", *a.Threshold), nil
	default:
		return dither.Threshold(dither.DefaultThreshold), fmt.Sprintf("threshold(%g)", dither.DefaultThreshold), nil
	}
}

func kernelArg(name string) (dither.Kernel, error) {
	k, ok := dither.KernelByName(name)
	if !ok {
		return dither.Kernel{}, fmt.Errorf("unknown kernel: %s", name)
	}
	return k, nil
}

// === Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return codec.LoadImageInfo(s.cache, a.Path)
}

// KernelInfo describes one diffusion kernel.
type KernelInfo struct {
	Name    string       `json:"name"`
	Divisor float64      `json:"divisor"`
	Total   float64      `json:"total"`
	Taps    []dither.Tap `json:"taps"`
}

// KernelsResult lists the registered kernels.
type KernelsResult struct {
	Default string       `json:"default"`
	Kernels []KernelInfo `json:"kernels"`
}

func (s *Server) handleImageKernels(_ json.RawMessage) (interface{}, error) {
	result := &KernelsResult{Default: dither.DefaultKernel.Name}
	for _, name := range dither.KernelNames() {
		k, _ := dither.KernelByName(name)
		result.Kernels = append(result.Kernels, KernelInfo{
			Name:    name,
			Divisor: k.Divisor,
			Total:   k.Total,
			Taps:    k.Taps,
		})
	}
	return result, nil
}

type imageSampleColorsArgs struct {
	sourceArgs
	Points []codec.SamplePoint `json:"points"`
}

// SampleColorsResult holds one sample per requested point, in order.
type SampleColorsResult struct {
	Samples []codec.ColorSample `json:"samples"`
}

func (s *Server) handleImageSampleColors(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("at least one point is required")
	}
	b, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	samples, err := codec.SampleMany(b, a.Points)
	if err != nil {
		return nil, err
	}
	return &SampleColorsResult{Samples: samples}, nil
}

// === Dithering Handlers ===

type imageDitherArgs struct {
	sourceArgs
	quantiseArgs
	Kernel string `json:"kernel"`
}

// DitherResult adds the diffusion details to the image.
type DitherResult struct {
	ImageResult
	Kernel    string          `json:"kernel"`
	Quantiser string          `json:"quantiser"`
	Residual  dither.Residual `json:"residual"`
}

func (s *Server) handleImageDither(args json.RawMessage) (interface{}, error) {
	var a imageDitherArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	k, err := kernelArg(a.Kernel)
	if err != nil {
		return nil, err
	}
	q, desc, err := a.quantiser()
	if err != nil {
		return nil, err
	}
	src, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	if a.Greyscale {
		dither.Greyscale(src)
	}

	dst, err := raster.New(src.Width(), src.Height(), src.Channels())
	if err != nil {
		return nil, err
	}
	res, err := dither.Diffuse(src, dst, q, k)
	if err != nil {
		return nil, err
	}

	img, err := imageResult(dst, a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &DitherResult{
		ImageResult: *img,
		Kernel:      k.Name,
		Quantiser:   desc,
		Residual:    res,
	}, nil
}

type imageQuantiseArgs struct {
	sourceArgs
	quantiseArgs
}

func (s *Server) handleImageQuantise(args json.RawMessage) (interface{}, error) {
	var a imageQuantiseArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	q, _, err := a.quantiser()
	if err != nil {
		return nil, err
	}
	src, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	if a.Greyscale {
		dither.Greyscale(src)
	}

	d := &dither.Ditherer{Kernel: dither.DefaultKernel, Quantise: q}
	dst, err := d.QuantiseOnly(src)
	if err != nil {
		return nil, err
	}
	return imageResult(dst, a.OutputPath)
}

type imageRawArgs struct {
	sourceArgs
	quantiseArgs
	Dither      bool   `json:"dither"`
	Kernel      string `json:"kernel"`
	Compression string `json:"compression"`
}

// RawResult carries the single-channel byte stream.
type RawResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Compression string `json:"compression"`
	Bytes       int    `json:"bytes"`
	DataBase64  string `json:"data_base64"`
	OutputPath  string `json:"output_path,omitempty"`
}

func (s *Server) handleImageRaw(args json.RawMessage) (interface{}, error) {
	var a imageRawArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	comp, err := sink.ParseCompression(a.Compression)
	if err != nil {
		return nil, err
	}
	b, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	if a.Greyscale {
		dither.Greyscale(b)
	}

	if a.Dither {
		k, err := kernelArg(a.Kernel)
		if err != nil {
			return nil, err
		}
		q, _, err := a.quantiser()
		if err != nil {
			return nil, err
		}
		d := &dither.Ditherer{Kernel: k, Quantise: q}
		if b, err = d.Dither(b); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := sink.Write(&buf, b, comp); err != nil {
		return nil, err
	}
	if a.OutputPath != "" {
		if err := sink.WriteFile(a.OutputPath, b, comp); err != nil {
			return nil, err
		}
	}
	return &RawResult{
		Width:       b.Width(),
		Height:      b.Height(),
		Compression: comp.String(),
		Bytes:       buf.Len(),
		DataBase64:  base64.StdEncoding.EncodeToString(buf.Bytes()),
		OutputPath:  a.OutputPath,
	}, nil
}

// === Buffer Operation Handlers ===

func (s *Server) handleImageGreyscale(args json.RawMessage) (interface{}, error) {
	var a sourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	b, err := s.loadSource(a)
	if err != nil {
		return nil, err
	}
	dither.Greyscale(b)
	return imageResult(b, a.OutputPath)
}

type imageFlipArgs struct {
	sourceArgs
	Direction string `json:"direction"`
}

func (s *Server) handleImageFlip(args json.RawMessage) (interface{}, error) {
	var a imageFlipArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Direction == "" {
		a.Direction = "vertical"
	}
	b, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	switch a.Direction {
	case "vertical":
		b.FlipVertical()
	case "horizontal":
		b.FlipHorizontal()
	case "both":
		b.FlipVertical()
		b.FlipHorizontal()
	default:
		return nil, fmt.Errorf("unknown direction: %s", a.Direction)
	}
	return imageResult(b, a.OutputPath)
}

// NormalizeResult reports the scale that was applied.
type NormalizeResult struct {
	ImageResult
	Max float64 `json:"max"`
}

func (s *Server) handleImageNormalize(args json.RawMessage) (interface{}, error) {
	var a sourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	b, err := s.loadSource(a)
	if err != nil {
		return nil, err
	}
	peak := b.Max()
	if err := b.Normalize(); err != nil {
		return nil, err
	}
	img, err := imageResult(b, a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &NormalizeResult{ImageResult: *img, Max: peak}, nil
}

type imageBoxBlurArgs struct {
	sourceArgs
	Radius int `json:"radius"`
}

func (s *Server) handleImageBoxBlur(args json.RawMessage) (interface{}, error) {
	var a imageBoxBlurArgs
	a.Radius = 1
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	b, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	out, err := filter.BoxBlur(b, a.Radius)
	if err != nil {
		return nil, err
	}
	return imageResult(out, a.OutputPath)
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p point) pos() raster.Pos { return raster.Pos{X: p.X, Y: p.Y} }

type lineArgs struct {
	From point `json:"from"`
	To   point `json:"to"`
}

type imageDrawArgs struct {
	sourceArgs
	Color     string     `json:"color"`
	Lines     []lineArgs `json:"lines"`
	Triangles [][]point  `json:"triangles"`
}

func (s *Server) handleImageDraw(args json.RawMessage) (interface{}, error) {
	var a imageDrawArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#ffffff"
	}
	c, err := colorful.Hex(a.Color)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", a.Color, err)
	}
	for i, tri := range a.Triangles {
		if len(tri) != 3 {
			return nil, fmt.Errorf("triangle %d has %d points, want 3", i, len(tri))
		}
	}

	b, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	ink := raster.Pixel{R: c.R, G: c.G, B: c.B, A: 1}
	for _, tri := range a.Triangles {
		filter.Triangle(b, tri[0].pos(), tri[1].pos(), tri[2].pos(), ink)
	}
	for _, l := range a.Lines {
		filter.Line(b, l.From.pos(), l.To.pos(), ink)
	}
	return imageResult(b, a.OutputPath)
}
