// Package scoring holds the pure numeric and rule-table parts of an
// analysis: cosine similarity, query categorisation, per-category score
// aggregation and coverage gap identification.
//
// Nothing in this package performs I/O.
package scoring
