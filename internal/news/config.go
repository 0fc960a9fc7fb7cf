// Package news aggregates lab press coverage from RSS feeds into the
// news.json consumed by the site.
package news

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultMaxItems caps the serialized news list.
const DefaultMaxItems = 40

// Config is the news aggregation configuration (news.yaml).
type Config struct {
	Feeds    []string `yaml:"feeds"`
	Subject  string   `yaml:"subject"`  // regex an item must match (e.g. the PI's name)
	Keywords []string `yaml:"keywords"` // at least one must appear in the item text
	MaxItems int      `yaml:"max_items"`
	Output   string   `yaml:"output"`

	subjectRe *regexp.Regexp
}

// LoadConfig reads and validates the news configuration at the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Feeds) == 0 {
		return fmt.Errorf("must define at least one feed")
	}
	if c.Subject == "" {
		return fmt.Errorf("must define a subject pattern")
	}

	re, err := regexp.Compile("(?i)" + c.Subject)
	if err != nil {
		return fmt.Errorf("invalid subject pattern: %w", err)
	}
	c.subjectRe = re

	if c.MaxItems <= 0 {
		c.MaxItems = DefaultMaxItems
	}

	return nil
}
