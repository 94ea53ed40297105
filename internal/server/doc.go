// Package server implements the MCP (Model Context Protocol) server that
// exposes photo telemetry to an orchestration client.
//
// The server is the outer surface over the analysis core: it loads files,
// runs the telemetry pipeline, and keeps the append-only analysis history that
// lets a client reason about an original, a processed rendition and each edit
// revision.
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
// Ingestion:
//   - photo_load: Load a photo or RAW file and report how it was decoded
//   - photo_extract_preview: Pull the largest embedded JPEG out of a RAW file
//
// Analysis:
//   - photo_analyze: Full telemetry record, recorded in history
//   - photo_compare: Original vs processed telemetry and pixel diff
//   - photo_clipping_map: Highlight/shadow clipping overlay
//   - photo_camera_info: EXIF capture settings
//   - photo_sample_color: Color at a pixel
//
// History:
//   - photo_history: List or fetch recorded analyses
//
// # Image Caching
//
// Loaded images are cached by path for the lifetime of the process, so
// repeated tools on the same file decode it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed params) or
//     -32601 (unknown method)
//   - message: Human-readable error description
//   - data: The Go error string
//
// A RAW file without an embedded preview is not an error: photo_load reports
// a placeholder and photo_extract_preview reports found=false.
//
// # Usage
//
//	srv := server.New(server.Options{Version: version})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
