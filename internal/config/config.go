package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// DefaultFile is the configuration file looked up when --config is not given.
const DefaultFile = "docsnap.yaml"

// Config represents the docsnap configuration file.
type Config struct {
	Version      string             `yaml:"version"`
	Paths        PathsConfig        `yaml:"paths"`
	Snapshot     SnapshotConfig     `yaml:"snapshot"`
	ReleaseNotes ReleaseNotesConfig `yaml:"release_notes"`
	History      HistoryConfig      `yaml:"history"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Notify       NotifyConfig       `yaml:"notify"`
	Watch        WatchConfig        `yaml:"watch"`
	Logging      LoggingConfig      `yaml:"logging"`

	root string
}

// PathsConfig describes the on-disk layout the site generator consumes.
// Relative paths are resolved against the project root.
type PathsConfig struct {
	Docs              string `yaml:"docs"`               // Live documentation pages
	Sidebar           string `yaml:"sidebar"`            // Live navigation manifest
	VersionedDocs     string `yaml:"versioned_docs"`     // Parent of version-<label>/ snapshot dirs
	VersionedSidebars string `yaml:"versioned_sidebars"` // Parent of version-<label>-sidebars.* files
	Versions          string `yaml:"versions"`           // JSON version manifest
}

// SnapshotConfig controls the cut operation.
type SnapshotConfig struct {
	// QuietLabelWarnings suppresses the advisory warning for labels that are
	// not semantic versions.
	QuietLabelWarnings bool      `yaml:"quiet_label_warnings"`
	Tag                TagConfig `yaml:"tag"`
}

// TagConfig configures the optional git tag created after a successful cut.
type TagConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Prefix      string `yaml:"prefix"`
	TaggerName  string `yaml:"tagger_name"`
	TaggerEmail string `yaml:"tagger_email"`
}

// ReleaseNotesConfig locates the release notes log and its rendered page.
type ReleaseNotesConfig struct {
	File  string `yaml:"file"`
	Page  string `yaml:"page"`
	Title string `yaml:"title"`
}

// HistoryConfig configures the SQLite audit history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MetricsConfig configures Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// NotifyConfig configures release event publication.
type NotifyConfig struct {
	NATSURL string        `yaml:"nats_url"`
	Subject string        `yaml:"subject"`
	Timeout time.Duration `yaml:"timeout"`
}

// WatchConfig configures `docsnap watch`.
type WatchConfig struct {
	Debounce       time.Duration `yaml:"debounce"`
	VerifyInterval time.Duration `yaml:"verify_interval"`
}

// LoggingConfig configures the default slog logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads the configuration file at path. A missing file is an error.
// When root is non-empty it overrides the project root, which otherwise is
// the directory holding the configuration file.
func Load(path, root string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", path).
			WithContext("hint", "run: docsnap init").
			Build()
	}
	return load(path, root)
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist.
func LoadOrDefault(path, root string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		loadEnvFiles(filepath.Dir(path))
		cfg := Default()
		if err := cfg.setRoot(path, root); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return load(path, root)
}

func load(path, root string) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	// #nosec G304 -- the configuration path is operator supplied
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	if err := cfg.setRoot(path, root); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, normalizes and validates the result.
// The project root of the returned config is the current directory.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode configuration").Build()
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setRoot(configPath, override string) error {
	root := override
	if root == "" {
		root = filepath.Dir(configPath)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "resolve project root").
			WithContext("root", root).
			Build()
	}
	c.root = abs
	return nil
}

// Root returns the absolute project root. It is "." until the config has been
// loaded from a file.
func (c *Config) Root() string {
	if c.root == "" {
		return "."
	}
	return c.root
}

// Resolve joins a configured relative path onto the project root.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root(), p)
}

// WithRoot returns a copy of c rooted at dir.
func (c *Config) WithRoot(dir string) *Config {
	cp := *c
	cp.root = dir
	return &cp
}

func (c *Config) String() string {
	return fmt.Sprintf("docsnap config (root=%s docs=%s versions=%s)", c.Root(), c.Paths.Docs, c.Paths.Versions)
}
