// Package file provides file-backed configuration adapters: a TOML
// ConfigStore at ~/.topicgap/config.toml and a PromptStore of editable
// templates in ~/.topicgap/prompts.
package file
