// Package topic detects the primary subject of a scraped page.
//
// Detection has two phases. When an LLM is configured it is asked for the
// entity first, and its answer is kept unless it names an organisation
// while a stronger concept or service was found locally. The heuristic
// phase always runs: candidates are extracted from the title, meta
// description, headings, URL and body, scored by source weight, and the
// best structural candidate wins.
package topic
