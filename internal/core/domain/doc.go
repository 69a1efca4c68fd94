// Package domain defines the core entities for topicgap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ScrapedDocument: A page as returned by a scraper
//   - ContentChunk: A bounded slice of a document's body text
//   - QueryMatch: How well one document answers one query
//   - CategoryScore: Per-category aggregate of query matches
//   - CoverageGap: A category where competitors outperform the target
//   - PrimaryTopic: The dominant subject of a page
//   - AnalysisResult: The terminal report of one analysis run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
