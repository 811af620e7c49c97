package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routedefs/internal/errors"
	"github.com/vango-dev/routedefs/pkg/manifest"
	"github.com/vango-dev/routedefs/pkg/routekind"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routedefs.json"

	// ConfigFileNameYAML is the YAML form of the configuration file. It is
	// only read when routedefs.json is absent.
	ConfigFileNameYAML = "routedefs.yaml"

	// DefaultDistDir is the default build output directory.
	DefaultDistDir = ".next"

	// DefaultPort is the default inspection server port.
	DefaultPort = 3030

	// DefaultHost is the default inspection server host.
	DefaultHost = "localhost"

	// DefaultWatchInterval is the default manifest poll interval.
	DefaultWatchInterval = "500ms"

	// SourceFile reads manifests from the local build output.
	SourceFile = "file"

	// SourceS3 reads manifests from an S3 bucket.
	SourceS3 = "s3"
)

// DefaultBundleExtensions are the artifact extensions recognized by default.
var DefaultBundleExtensions = []string{".js"}

// DefaultPageExtensions are the source page extensions of the application.
var DefaultPageExtensions = []string{"tsx", "ts", "jsx", "js"}

// Config represents routedefs.json.
type Config struct {
	// DistDir is the build output directory containing server/.
	DistDir string `json:"distDir,omitempty" yaml:"distDir,omitempty"`

	// BundleExtensions are the compiled artifact extensions.
	BundleExtensions []string `json:"bundleExtensions,omitempty" yaml:"bundleExtensions,omitempty"`

	// PageExtensions are the source page extensions.
	PageExtensions []string `json:"pageExtensions,omitempty" yaml:"pageExtensions,omitempty"`

	// Kinds lists the enabled route kinds by name or slug.
	Kinds []string `json:"kinds,omitempty" yaml:"kinds,omitempty"`

	// Manifests overrides the manifest keys.
	Manifests ManifestsConfig `json:"manifests,omitempty" yaml:"manifests,omitempty"`

	// Source selects where manifests are read from: "file" or "s3".
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// S3 configures the S3 manifest source.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`

	// Server configures the inspection server.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Watch configures manifest watching.
	Watch WatchConfig `json:"watch,omitempty" yaml:"watch,omitempty"`

	configPath string
}

// ManifestsConfig names the manifest keys.
type ManifestsConfig struct {
	// Pages is the pages-router manifest key.
	Pages string `json:"pages,omitempty" yaml:"pages,omitempty"`

	// App is the app-router manifest key.
	App string `json:"app,omitempty" yaml:"app,omitempty"`
}

// S3Config locates manifests in S3.
type S3Config struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// ServerConfig contains inspection server settings.
type ServerConfig struct {
	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
}

// WatchConfig contains manifest watcher settings.
type WatchConfig struct {
	// Enabled turns on manifest watching for the inspection server.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Interval is the poll interval (e.g., "500ms").
	Interval string `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		DistDir:          DefaultDistDir,
		BundleExtensions: append([]string(nil), DefaultBundleExtensions...),
		PageExtensions:   append([]string(nil), DefaultPageExtensions...),
		Kinds:            routekind.Names(),
		Manifests: ManifestsConfig{
			Pages: manifest.PagesManifest,
			App:   manifest.AppPathsManifest,
		},
		Source: SourceFile,
		Server: ServerConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Interval: DefaultWatchInterval,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for routedefs.json, then routedefs.yaml, in the directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if yamlPath := filepath.Join(dir, ConfigFileNameYAML); fileExists(yamlPath) {
			path = yamlPath
		}
	}
	return LoadFile(path)
}

// isYAML reports whether path names a YAML file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R100").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass --dist")
		}
		return nil, errors.New("R101").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		name := filepath.Base(path)
		return nil, errors.New("R101").
			WithDetail("Failed to parse " + name + ": " + err.Error()).
			WithSuggestion("Check that " + name + " is well formed")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path. Paths ending in
// .yaml or .yml are written as YAML.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("R101").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.DistDir == "" {
		c.DistDir = DefaultDistDir
	}
	if len(c.BundleExtensions) == 0 {
		c.BundleExtensions = append([]string(nil), DefaultBundleExtensions...)
	}
	if len(c.PageExtensions) == 0 {
		c.PageExtensions = append([]string(nil), DefaultPageExtensions...)
	}
	if len(c.Kinds) == 0 {
		c.Kinds = routekind.Names()
	}

	if c.Manifests.Pages == "" {
		c.Manifests.Pages = manifest.PagesManifest
	}
	if c.Manifests.App == "" {
		c.Manifests.App = manifest.AppPathsManifest
	}

	if c.Source == "" {
		c.Source = SourceFile
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}

	if c.Watch.Interval == "" {
		c.Watch.Interval = DefaultWatchInterval
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("R101").
			WithDetail("server.port must be between 0 and 65535")
	}

	for _, ext := range c.BundleExtensions {
		if strings.Trim(ext, ".") == "" {
			return errors.New("R101").
				WithDetailf("bundleExtensions contains an empty extension %q", ext)
		}
	}

	if _, err := c.RouteKinds(); err != nil {
		return errors.New("R101").Wrap(err).
			WithDetail("kinds contains an unknown route kind").
			WithSuggestion("Valid kinds: " + strings.Join(routekind.Names(), ", "))
	}

	switch c.Source {
	case SourceFile:
	case SourceS3:
		if c.S3.Bucket == "" {
			return errors.New("R101").
				WithDetail("source is \"s3\" but s3.bucket is empty")
		}
	default:
		return errors.New("R101").
			WithDetailf("source must be %q or %q, got %q", SourceFile, SourceS3, c.Source)
	}

	if d, err := time.ParseDuration(c.Watch.Interval); err != nil || d <= 0 {
		return errors.New("R101").
			WithDetailf("watch.interval %q is not a positive duration", c.Watch.Interval)
	}

	return nil
}

// RouteKinds parses the enabled kinds, dropping repeats.
func (c *Config) RouteKinds() ([]routekind.Kind, error) {
	seen := make(map[routekind.Kind]bool, len(c.Kinds))
	kinds := make([]routekind.Kind, 0, len(c.Kinds))
	for _, name := range c.Kinds {
		kind, err := routekind.Parse(name)
		if err != nil {
			return nil, err
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// ManifestKey returns the manifest key read by kind.
func (c *Config) ManifestKey(kind routekind.Kind) string {
	switch kind {
	case routekind.AppPage, routekind.AppRoute:
		return c.Manifests.App
	default:
		return c.Manifests.Pages
	}
}

// DistPath returns the absolute path to the build output directory.
func (c *Config) DistPath() string {
	if filepath.IsAbs(c.DistDir) {
		return c.DistDir
	}
	return filepath.Join(c.Dir(), c.DistDir)
}

// ServerAddress returns the listen address of the inspection server.
func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// WatchInterval returns the parsed poll interval, falling back to the default.
func (c *Config) WatchInterval() time.Duration {
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultWatchInterval)
	}
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	return fileExists(filepath.Join(dir, ConfigFileName)) ||
		fileExists(filepath.Join(dir, ConfigFileNameYAML))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing routedefs.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R100").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Create " + ConfigFileName + " or pass --dist")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
