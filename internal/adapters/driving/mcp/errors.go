// Package mcp provides an MCP (Model Context Protocol) server adapter for topicgap.
// It lets AI assistants run coverage analyses and read stored reports.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

// ErrReportsUnavailable is returned by report tools when no report service is configured.
var ErrReportsUnavailable = errors.New("mcp: report storage is not configured")
