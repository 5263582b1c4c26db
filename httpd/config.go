package httpd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nvoss/sitemount/webmetrics"
)

// Configuration defaults.
const (
	DefaultPort      = 8888
	DefaultHost      = "127.0.0.1"
	DefaultTimeout   = 5 * time.Second
	DefaultIndexFile = "index.html"
)

// Duration wraps time.Duration so timeouts in YAML config files can be
// written as human-readable strings ("5s", "1m30s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// MountConfig declares one static mount in a config file.
type MountConfig struct {
	// URI is the mount's URI path.
	URI string `yaml:"uri"`

	// Path is the filesystem file or directory to serve.
	Path string `yaml:"path"`

	// Wildcard overrides the directory-defaults-to-wildcard rule.
	Wildcard *bool `yaml:"wildcard"`
}

// Config holds the construction-time server configuration. The zero
// value is usable: every field has a default.
type Config struct {
	// Port is the TCP listen port. Defaults to DefaultPort.
	Port int `yaml:"port"`

	// Host is the bind address. Defaults to DefaultHost.
	Host string `yaml:"host"`

	// Timeout bounds each accept wait and each connection's read and
	// write deadlines. Defaults to DefaultTimeout.
	Timeout Duration `yaml:"timeout"`

	// DirectoryIndexFile is served when a static match lands on a
	// directory. Defaults to DefaultIndexFile.
	DirectoryIndexFile string `yaml:"directory_index_file"`

	// DirectoryIndexing enables the auto-generated directory listing.
	// Defaults to true when nil.
	DirectoryIndexing *bool `yaml:"directory_indexing"`

	// Mounts are static mounts registered when the server is built.
	Mounts []MountConfig `yaml:"mounts"`

	// AccessLog and ErrorLog are the line-oriented outcome sinks.
	// Defaults: os.Stdout and os.Stderr.
	AccessLog io.Writer `yaml:"-"`
	ErrorLog  io.Writer `yaml:"-"`

	// Diag receives structured server-side diagnostics. Nil disables
	// them.
	Diag *zap.Logger `yaml:"-"`

	// Metrics, when set, records dispatched requests and the mount
	// count.
	Metrics *webmetrics.Collector `yaml:"-"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("httpd: config file path is empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("httpd: config file does not exist: %s", path)
		}
		return nil, fmt.Errorf("httpd: stat config file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("httpd: config path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("httpd: read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("httpd: parse config file: %w", err)
	}

	return &cfg, nil
}

func (c Config) port() int {
	if c.Port == 0 {
		return DefaultPort
	}
	return c.Port
}

func (c Config) host() string {
	if c.Host == "" {
		return DefaultHost
	}
	return c.Host
}

func (c Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Timeout)
}

func (c Config) indexFile() string {
	if c.DirectoryIndexFile == "" {
		return DefaultIndexFile
	}
	return c.DirectoryIndexFile
}

func (c Config) indexing() bool {
	if c.DirectoryIndexing == nil {
		return true
	}
	return *c.DirectoryIndexing
}

func (c Config) accessLog() io.Writer {
	if c.AccessLog == nil {
		return os.Stdout
	}
	return c.AccessLog
}

func (c Config) errorLog() io.Writer {
	if c.ErrorLog == nil {
		return os.Stderr
	}
	return c.ErrorLog
}
