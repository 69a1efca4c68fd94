// Package tui provides an interactive terminal browser for saved analysis
// reports. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/topicgap/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Reports lists, loads and deletes saved analyses.
	Reports driving.ReportService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Reports == nil {
		return ErrMissingReportService
	}
	return nil
}
