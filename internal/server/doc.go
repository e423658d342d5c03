// Package server implements the MCP (Model Context Protocol) server for
// error diffusion dithering.
//
// This package provides a JSON-RPC 2.0 server that exposes the raster,
// dither and filter packages through the MCP protocol, so MCP-compatible
// clients can dither images and inspect the results.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Information:
//   - image_load: Load image and get metadata
//   - image_kernels: List diffusion kernels
//   - image_sample_colors: Read pixel colors at given points
//
// Dithering:
//   - image_dither: Error diffusion with a kernel and quantiser
//   - image_quantise: Quantise without diffusion
//   - image_raw: Headerless single-channel byte stream, optionally zstd
//
// Buffer Operations:
//   - image_greyscale: Rec. 709 luminance
//   - image_flip: Vertical, horizontal or both
//   - image_normalize: Scale so the maximum sample is 1
//   - image_box_blur: Mean over a square window
//   - image_draw: Lines and filled triangles
//
// Every image tool accepts the same source selection: path, then an optional
// crop rectangle or named region, then optional max_width/max_height. Results
// come back as base64 PNG and can also be saved through output_path.
//
// # Image Caching
//
// Decoded buffers are cached by path for the lifetime of the server. Each
// tool call works on its own copy, so operations never leak into the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
