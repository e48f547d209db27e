// Package server implements the MCP (Model Context Protocol) server for the
// seven-segment reader.
//
// This package provides a JSON-RPC 2.0 server that exposes digit extraction,
// classification and whole-display reading through the MCP protocol, so an
// MCP client can read a meter photograph and debug a layout that does not
// read cleanly.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Digit Extraction:
//   - image_trim: Perspective-correct a quadrilateral into a rectangle
//   - line_detect: List the long strokes in a region
//
// Digit Classification:
//   - digit_classify: Classify one digit as 0-9
//   - digit_features: Show the segment flags and per-zone scans of a digit
//
// Meter Reading:
//   - meter_read: Read every slot of a layout as one number
//   - layout_preview: Draw the layout's slots and their digits on the image
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string. For an unreadable digit it lists the
//     segment flags that were seen.
//
// # Usage
//
//	srv := server.New(detection.DefaultOptions(), reader.DefaultLayout())
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
