// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The analysis pipeline lives here: the Embedder and SimilarityAnalyzer
// score a page against queries, QueryGenerator and CompetitorFinder fill
// in missing inputs, and AnalysisService ties them together.
package services
