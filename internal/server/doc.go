// Package server implements the MCP (Model Context Protocol) server that
// exposes the sampling-card pipeline as tools.
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
// Card Inspection:
//   - card_load: Photo dimensions and format
//   - card_locate: Find the sampling window and its corners
//   - card_rectify: Perspective-correct the window
//   - card_read_label: OCR of the card label
//
// Particle Analysis:
//   - particle_segment: Canonical particle mask
//   - particle_analyze: Size-bin counts and pollution level
//   - particle_analyze_batch: Several photos in parallel
//   - pollution_levels: Reference table of levels
//
// # Error Handling
//
// Malformed tools/call parameters are answered with code -32602. Tool
// failures are answered with code -32000 and the Go error string as data.
// A photo without a sampling window is not a failure; the result carries
// found=false and "no region of interest detected".
//
// Photos are cached by path for the lifetime of the process. Logging goes to
// stderr because stdout carries the protocol.
package server
