// Package server implements the MCP (Model Context Protocol) server for plot
// digitizing.
//
// This package provides a JSON-RPC 2.0 server that exposes the marker
// detector through the MCP protocol, so an assistant can pull data points out
// of a scanned chart, check the result against the scan, and tune the
// detector when it misses.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - notifications/initialized: Client acknowledgment (no response)
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_unload: Drop one image, or all, from the cache
//
// Marker Extraction:
//   - plot_extract_markers: Pixel centres and plot coordinates of every marker
//   - plot_extract_batch: The same over several scans, four at a time
//
// Pipeline Stages:
//   - plot_segment: Binary ink mask the detector starts from
//   - plot_edge_detect: Edge map the circle votes are cast from
//   - plot_marker_overlay: Scan with detected markers circled
//   - plot_render: Scatter re-plot of the extracted points
//
// Every detector tool accepts radius, cutoff and peak_ratio, plus an optional
// region or named_region crop and a scale factor. Settings left out fall back
// to the server Config, which LoadConfig reads from the PLOT_DIGITIZER_*
// environment variables or a .env file.
//
// # Image Caching
//
// Images are cached by path and reused across tool calls. The cache persists
// for the lifetime of the server process unless image_unload is called.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses:
//   - -32700: a request line that is not JSON (answered with a null id)
//   - -32601: unknown method
//   - -32602: unparsable or out-of-range tool arguments
//   - -32000: tool execution failure (unreadable file, unknown tool, ...)
//
// The data field carries the Go error string.
//
// # Usage
//
//	cfg, err := server.LoadConfig(".env")
//	...
//	srv := server.New(cfg)
//	err = srv.Run(ctx, os.Stdin, os.Stdout)
package server
