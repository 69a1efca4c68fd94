package mcp

import (
	"github.com/custodia-labs/topicgap/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis runs coverage analyses.
	Analysis driving.AnalysisService

	// Topic detects the primary topic of a page.
	Topic driving.TopicService

	// Reports reads stored analysis results.
	Reports driving.ReportService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	// Topic and Reports are optional
	return nil
}
