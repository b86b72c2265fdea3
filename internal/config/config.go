// Package config provides site configuration loading, validation, and slot
// normalization for the build pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// PageConfig describes how to fetch and sanitize one borrowed template page
// before any binding runs against it.
type PageConfig struct {
	// SourceURL is the page whose layout the output mimics.
	SourceURL string `json:"source_url" validate:"required,url"`
	// Strip lists selectors removed from the template wholesale (ads,
	// trackers, comment widgets).
	Strip []string `json:"strip,omitempty"`
	// InjectScript and InjectStyle are raw snippets appended to the
	// sanitized template.
	InjectScript string `json:"inject_script,omitempty"`
	InjectStyle  string `json:"inject_style,omitempty"`
}

// FrontpageConfig configures the index page template and its article slots.
type FrontpageConfig struct {
	PageConfig
	// Articles maps template selectors to slot specs, in priority order.
	Articles SlotConfig `json:"articles"`
}

// ArticlePageConfig configures the per-article page template. The top-level
// selectors locate where the article's own fields land in the template; Links
// recycles the front-page slot mechanism for cross-article navigation.
type ArticlePageConfig struct {
	PageConfig
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image,omitempty"`
	Author   string `json:"author,omitempty"`

	Links       SlotConfig `json:"links"`
	TitleSuffix string     `json:"title_suffix,omitempty"`
}

// Config is the full site configuration, parsed once per run.
type Config struct {
	Frontpage FrontpageConfig   `json:"frontpage" validate:"required"`
	Article   ArticlePageConfig `json:"article" validate:"required"`

	// FallbackLink, when set, replaces the target of every template anchor
	// the binder did not point at a generated page.
	FallbackLink string `json:"fallback_link,omitempty" validate:"omitempty,url"`
	// Authors is the ordered byline pool cycled across article slots.
	Authors []string `json:"authors,omitempty"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, &Error{Message: "config path is empty"}
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, &Error{Message: "failed to get current directory", Cause: err}
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read config file %s", path), Cause: err}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{Message: "failed to parse config JSON", Cause: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration using struct tags. Both template source
// URLs are required; everything else degrades to defaults.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return &Error{Message: "invalid configuration", Cause: err}
	}
	return nil
}
