// Package config loads the publications query configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// PubMed is the publications pipeline configuration, a JSON document with a
// list of search terms and an optional per-term result limit.
type PubMed struct {
	Queries []Query `json:"queries"`
	RetMax  int     `json:"retmax,omitempty"`
}

// Query is one configured search term.
type Query struct {
	Term string `json:"term"`
}

// LoadPubMed reads and parses the configuration at the given path.
func LoadPubMed(path string) (*PubMed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg PubMed
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Terms returns the non-blank query terms in configuration order.
func (c *PubMed) Terms() []string {
	terms := make([]string, 0, len(c.Queries))
	for _, q := range c.Queries {
		if term := strings.TrimSpace(q.Term); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}
