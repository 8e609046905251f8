// Package config handles project configuration and the .inkwell directory
// structure. Every content project gets an .inkwell/ folder holding the
// config file, logs, and build cache.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hollowpine/inkwell/internal/store"
)

const (
	// InkwellDir is the name of the directory created in each project.
	InkwellDir = ".inkwell"

	defaultContentDir   = "content/posts"
	defaultOutputDir    = "public"
	defaultServeAddr    = "127.0.0.1:8321"
	defaultRelatedCount = 3
)

const defaultProjectConfigYAML = `# inkwell project configuration
version: 1

site:
  title: My Blog
  base_url: ""

# Where the Markdown posts live, relative to the project root.
content_dir: content/posts

# Where builds are written.
output_dir: public

# What to do when two documents resolve to the same slug:
# reject (fail the scan) or prefer-latest (keep the newer date).
duplicate_policy: reject

# Authors stamped into scaffolded posts.
default_authors: []

# How many related posts to link under each rendered post.
related_count: 3

serve:
  addr: 127.0.0.1:8321
  log_path: .inkwell/logs/serve.log
`

// SiteConfig describes the published site.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// ServeConfig captures preview server preferences.
type ServeConfig struct {
	Addr    string `yaml:"addr"`
	LogPath string `yaml:"log_path,omitempty"`
}

// ProjectConfig models .inkwell/config.yaml.
type ProjectConfig struct {
	Version         int         `yaml:"version"`
	Site            SiteConfig  `yaml:"site"`
	ContentDir      string      `yaml:"content_dir"`
	OutputDir       string      `yaml:"output_dir"`
	DuplicatePolicy string      `yaml:"duplicate_policy"`
	DefaultAuthors  []string    `yaml:"default_authors,omitempty"`
	RelatedCount    int         `yaml:"related_count"`
	Serve           ServeConfig `yaml:"serve"`
}

// Config holds the runtime configuration for inkwell.
type Config struct {
	// ProjectDir is the directory where the user ran `inkwell` from.
	ProjectDir string

	// InkwellProjectDir is ProjectDir/.inkwell.
	InkwellProjectDir string

	Project ProjectConfig
}

// InitProjectDir creates the .inkwell directory structure in the given
// project directory. Called on every startup; existing files are kept.
//
// Structure created:
// .inkwell/
// ├── config.yaml   <- project configuration
// ├── logs/         <- journey + server logs
// └── cache/        <- reserved for incremental build state
func InitProjectDir(projectDir string) error {
	inkwellDir := filepath.Join(projectDir, InkwellDir)
	dirs := []string{
		filepath.Join(inkwellDir, "logs"),
		filepath.Join(inkwellDir, "cache"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(inkwellDir, "config.yaml"))
}

// NewConfig loads project settings for the given directory, applying
// defaults when .inkwell/config.yaml is absent.
func NewConfig(projectDir string) (*Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve project dir: %w", err)
	}
	cfg := &Config{
		ProjectDir:        abs,
		InkwellProjectDir: filepath.Join(abs, InkwellDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ContentDir returns the absolute content root.
func (c *Config) ContentDir() string {
	return resolvePath(c.ProjectDir, c.Project.ContentDir)
}

// OutputDir returns the absolute build output directory.
func (c *Config) OutputDir() string {
	return resolvePath(c.ProjectDir, c.Project.OutputDir)
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.InkwellProjectDir, "logs")
}

// JourneyLogPath returns the file backing the TUI log panel.
func (c *Config) JourneyLogPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// ServeLogPath returns the preview server's log file.
func (c *Config) ServeLogPath() string {
	if strings.TrimSpace(c.Project.Serve.LogPath) == "" {
		return filepath.Join(c.LogsDir(), "serve.log")
	}
	return resolvePath(c.ProjectDir, c.Project.Serve.LogPath)
}

// ServeAddr returns the preview server listen address.
func (c *Config) ServeAddr() string {
	return c.Project.Serve.Addr
}

// DuplicatePolicy returns the configured slug collision policy.
func (c *Config) DuplicatePolicy() store.DuplicatePolicy {
	return store.DuplicatePolicy(c.Project.DuplicatePolicy)
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.InkwellProjectDir, "config.yaml")
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:         1,
		Site:            SiteConfig{Title: "My Blog"},
		ContentDir:      defaultContentDir,
		OutputDir:       defaultOutputDir,
		DuplicatePolicy: string(store.DuplicateReject),
		RelatedCount:    defaultRelatedCount,
		Serve:           ServeConfig{Addr: defaultServeAddr},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Site.Title) == "" {
		pc.Site.Title = "My Blog"
	}
	if strings.TrimSpace(pc.ContentDir) == "" {
		pc.ContentDir = defaultContentDir
	}
	if strings.TrimSpace(pc.OutputDir) == "" {
		pc.OutputDir = defaultOutputDir
	}
	if strings.TrimSpace(pc.DuplicatePolicy) == "" {
		pc.DuplicatePolicy = string(store.DuplicateReject)
	}
	if pc.RelatedCount == 0 {
		pc.RelatedCount = defaultRelatedCount
	}
	if strings.TrimSpace(pc.Serve.Addr) == "" {
		pc.Serve.Addr = defaultServeAddr
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Site.Title = strings.TrimSpace(pc.Site.Title)
	pc.Site.BaseURL = strings.TrimRight(strings.TrimSpace(pc.Site.BaseURL), "/")
	pc.ContentDir = filepath.FromSlash(strings.TrimSpace(pc.ContentDir))
	pc.OutputDir = filepath.FromSlash(strings.TrimSpace(pc.OutputDir))
	pc.DuplicatePolicy = strings.ToLower(strings.TrimSpace(pc.DuplicatePolicy))
	pc.Serve.Addr = strings.TrimSpace(pc.Serve.Addr)
	authors := pc.DefaultAuthors[:0]
	for _, author := range pc.DefaultAuthors {
		if trimmed := strings.TrimSpace(author); trimmed != "" {
			authors = append(authors, trimmed)
		}
	}
	pc.DefaultAuthors = authors
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	switch store.DuplicatePolicy(pc.DuplicatePolicy) {
	case store.DuplicateReject, store.DuplicatePreferLatest:
	default:
		return fmt.Errorf("duplicate_policy must be %q or %q", store.DuplicateReject, store.DuplicatePreferLatest)
	}
	if pc.RelatedCount < 0 {
		return fmt.Errorf("related_count must not be negative")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return base
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
