package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "stressband"

	// DefaultListenAddress matches the port the dashboards are served on.
	DefaultListenAddress = ":3000"

	// DefaultLogoPath is the path of the logo asset, joined to the base URL.
	DefaultLogoPath = "/logo-SB.png"

	// DefaultLogoTimeout bounds the logo fetch done for every report.
	DefaultLogoTimeout = 10 * time.Second

	// DefaultShutdownTimeout bounds the graceful shutdown of the server.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultUserAgent identifies StressBand in asset requests.
	DefaultUserAgent = "StressBand-QVT/1.0 (+https://github.com/nao1215/stressband)"

	// DefaultMaxBodySize limits the size of a fetched logo.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultConcurrency is the number of reports generated at once by the
	// generate command.
	DefaultConcurrency = 4

	// DefaultFormat is the output format of the generate command.
	DefaultFormat = "pdf"
)

// IDPolicy selects how the report endpoints treat band identifiers.
type IDPolicy string

const (
	// PolicyMock maps every identifier other than 936421 to the 124578
	// profile, percent-decoding and trimming it first.
	PolicyMock IDPolicy = "mock"

	// PolicyStrict rejects identifiers that are not in the profile table.
	PolicyStrict IDPolicy = "strict"
)

// Valid reports whether p is a known policy.
func (p IDPolicy) Valid() bool {
	return p == PolicyMock || p == PolicyStrict
}

// Config holds all configuration options for StressBand.
// It is populated from defaults, the configuration file and CLI flags, in
// that order, and passed to components explicitly.
type Config struct {
	// ListenAddress is the "host:port" the HTTP server listens on.
	ListenAddress string

	// PublicBaseURL is the absolute URL the logo is fetched from.
	// When empty the server derives it from each request.
	PublicBaseURL string

	// LogoPath is joined to the base URL to locate the logo.
	LogoPath string

	// LogoTimeout bounds a single logo fetch.
	LogoTimeout time.Duration

	// AssetProxyAddress is an optional SOCKS5 proxy ("host:port") for the
	// logo fetch.
	AssetProxyAddress string

	// UserAgent is the User-Agent header sent with asset requests.
	UserAgent string

	// MaxBodySize is the maximum logo size in bytes. 0 selects the default.
	MaxBodySize int64

	// MaxConnections caps concurrent server connections. 0 means unlimited.
	MaxConnections int

	// IDPolicy selects the identifier resolution policy.
	IDPolicy IDPolicy

	// ShutdownTimeout bounds the graceful shutdown of the server.
	ShutdownTimeout time.Duration

	// Format is the output format of the generate command.
	Format string

	// OutputDir is where the generate command writes its files.
	OutputDir string

	// Concurrency is the number of documents the generate command renders at once.
	Concurrency int

	// DataDir holds the account database.
	// Defaults to XDG data directory (~/.local/share/stressband on Linux).
	DataDir string

	// Verbose enables debug logging.
	Verbose bool

	// JSONLog switches the logger to JSON output.
	JSONLog bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .stressband is searched in the current directory and then
	// in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ListenAddress:   DefaultListenAddress,
		LogoPath:        DefaultLogoPath,
		LogoTimeout:     DefaultLogoTimeout,
		UserAgent:       DefaultUserAgent,
		MaxBodySize:     DefaultMaxBodySize,
		IDPolicy:        PolicyMock,
		ShutdownTimeout: DefaultShutdownTimeout,
		Format:          DefaultFormat,
		OutputDir:       ".",
		Concurrency:     DefaultConcurrency,
		DataDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for StressBand.
// On Linux: ~/.local/share/stressband
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for StressBand.
// On Linux: ~/.config/stressband
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the values set in f over c. Zero values in f are ignored.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	s := f.Server
	setString(&c.ListenAddress, s.Addr)
	setString(&c.PublicBaseURL, s.BaseURL)
	if s.IDPolicy != "" {
		c.IDPolicy = IDPolicy(s.IDPolicy)
	}
	if s.MaxConns != 0 {
		c.MaxConnections = s.MaxConns
	}
	if s.ShutdownTimeout != 0 {
		c.ShutdownTimeout = s.ShutdownTimeout
	}

	a := f.Assets
	setString(&c.LogoPath, a.LogoPath)
	setString(&c.AssetProxyAddress, a.Proxy)
	setString(&c.UserAgent, a.UserAgent)
	if a.Timeout != 0 {
		c.LogoTimeout = a.Timeout
	}
	if a.MaxBodySize != 0 {
		c.MaxBodySize = a.MaxBodySize
	}

	r := f.Reports
	setString(&c.Format, r.Format)
	setString(&c.OutputDir, r.OutputDir)
	if r.Concurrency != 0 {
		c.Concurrency = r.Concurrency
	}

	setString(&c.DataDir, f.DataDir)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return ErrEmptyListenAddress
	}

	if c.PublicBaseURL != "" {
		u, err := url.Parse(c.PublicBaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return ErrInvalidBaseURL
		}
	}

	// The logo path is a route of the server as well as a URL reference.
	if !strings.HasPrefix(c.LogoPath, "/") {
		return ErrInvalidLogoPath
	}

	if c.LogoTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.MaxConnections < 0 {
		return ErrInvalidMaxConnections
	}

	if !c.IDPolicy.Valid() {
		return ErrInvalidIDPolicy
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	return nil
}
