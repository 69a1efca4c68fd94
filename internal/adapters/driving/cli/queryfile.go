package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// queryFile is the --queries-file format:
//
//	queries:
//	  - best crm for startups
//	competitors:
//	  - https://example.com/crm
type queryFile struct {
	Queries     []string `yaml:"queries"`
	Competitors []string `yaml:"competitors"`
}

func loadQueryFile(path string) (*queryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read queries file: %w", err)
	}
	var qf queryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parse queries file %s: %w", path, err)
	}
	return &qf, nil
}
