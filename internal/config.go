package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCurrency is used when neither the flag nor the config names a currency
const DefaultCurrency = "USD"

type Config struct {
	// Currency is the ISO 4217 code used to format revenue amounts
	Currency string `yaml:"currency,omitempty"`

	// Descriptions maps subscriber ids to custom descriptions
	Descriptions map[int64]string `yaml:"descriptions,omitempty"`

	// Tags maps subscriber ids to a list of tags (e.g., "enterprise", "trial")
	Tags map[int64][]string `yaml:"tags,omitempty"`
}

// DefaultConfigPath returns the default config file path (~/.subscription-report/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".subscription-report", "config.yaml")
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Currency != "" {
		cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	}

	return &cfg, nil
}

// LoadConfigOrDefault loads the config at path. A missing file at the default
// location yields an empty config; a missing explicitly requested file is an error
// unless allowMissing is set.
func LoadConfigOrDefault(path string, allowMissing bool) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path == "" {
		return &Config{}, nil
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		if (!explicit || allowMissing) && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CurrencyCode returns the configured currency, or DefaultCurrency
func (c *Config) CurrencyCode() string {
	if c == nil || c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}

// GetDescription returns the custom description for a subscriber, or empty string
func (c *Config) GetDescription(id int64) string {
	if c == nil || c.Descriptions == nil {
		return ""
	}
	return c.Descriptions[id]
}

// GetTags returns the tags for a subscriber, or nil if none
func (c *Config) GetTags(id int64) []string {
	if c == nil || c.Tags == nil {
		return nil
	}
	return c.Tags[id]
}

// GenerateConfigTemplate creates a config template listing every classified subscriber.
// Existing descriptions and tags from base are kept.
func GenerateConfigTemplate(categories []Category, base *Config) *Config {
	cfg := &Config{
		Currency:     base.CurrencyCode(),
		Descriptions: make(map[int64]string),
	}

	for _, cat := range categories {
		cfg.Descriptions[cat.ID] = base.GetDescription(cat.ID)
		if tags := base.GetTags(cat.ID); len(tags) > 0 {
			if cfg.Tags == nil {
				cfg.Tags = make(map[int64][]string)
			}
			cfg.Tags[cat.ID] = tags
		}
	}

	return cfg
}
