package postprocessors

import (
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/postprocessors/chunker"
	"github.com/custodia-labs/topicgap/internal/postprocessors/dedupe"
)

// Built-in processor names.
const (
	ChunkerName = "chunker"
	DedupeName  = "dedupe"
)

// RegisterDefaults adds the built-in stages. Names already present are kept.
func RegisterDefaults(r *Registry) {
	defaults := map[string]Stage{
		ChunkerName: {Build: buildChunker, Produces: true},
		DedupeName:  {Build: buildDedupe},
	}
	for name, stage := range defaults {
		if !r.Has(name) {
			_ = r.Register(name, stage)
		}
	}
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Maximum characters per chunk (default: 1000)
//   - min_size (int): Chunks shorter than this are dropped (default: 50)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg["min_size"]; ok {
			opts = append(opts, chunker.WithMinSize(getIntFromConfig(cfg, "min_size")))
		}
	}

	return chunker.New(opts...), nil
}

func buildDedupe(_ map[string]any) (driven.PostProcessor, error) {
	return dedupe.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
