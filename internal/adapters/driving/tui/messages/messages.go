// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/topicgap/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewReports lists saved reports.
	ViewReports ViewType = iota
	// ViewDetail shows one report.
	ViewDetail
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ReportsLoaded carries the report listing.
type ReportsLoaded struct {
	Reports []domain.ReportSummary
	Err     error
}

// ReportSelected asks for a report to be opened.
type ReportSelected struct {
	ID string
}

// ReportLoaded carries a full report.
type ReportLoaded struct {
	Report *domain.AnalysisResult
	Err    error
}

// ReportDeleted is sent after a delete attempt.
type ReportDeleted struct {
	ID  string
	Err error
}
