// Package html turns raw HTML pages into ScrapedDocuments.
// It parses the page with golang.org/x/net/html to pull out the title,
// meta description and headings, and extracts readable body text with
// scripts, styles and page chrome removed.
package html
