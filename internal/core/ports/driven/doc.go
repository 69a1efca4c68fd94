// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for an analysis to run:
//
//   - Scraper: Fetches a page and returns a ScrapedDocument
//   - EmbeddingService: Generates vector embeddings
//   - PostProcessorPipeline: Splits document text into chunks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Without it, topic detection, query generation and
//     recommendations use heuristics only.
//   - SearchProvider: Without it, competitor discovery is disabled.
//   - Cache: Without it, every read is a miss.
//   - ReportStore: Without it, results are not persisted.
//   - PromptStore: Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
