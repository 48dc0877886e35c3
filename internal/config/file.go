package config

import "time"

// ServerSection configures the HTTP server.
type ServerSection struct {
	Addr            string        `yaml:"addr,omitempty"`
	BaseURL         string        `yaml:"baseURL,omitempty"`
	IDPolicy        string        `yaml:"idPolicy,omitempty"`
	MaxConns        int           `yaml:"maxConns,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout,omitempty"`
}

// AssetsSection configures the logo fetch.
type AssetsSection struct {
	LogoPath    string        `yaml:"logoPath,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Proxy       string        `yaml:"proxy,omitempty"`
	UserAgent   string        `yaml:"userAgent,omitempty"`
	MaxBodySize int64         `yaml:"maxBodySize,omitempty"`
}

// ReportsSection configures the generate command.
type ReportsSection struct {
	Format      string `yaml:"format,omitempty"`
	OutputDir   string `yaml:"outputDir,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// File represents the structure of the .stressband configuration file.
type File struct {
	Server  ServerSection  `yaml:"server,omitempty"`
	Assets  AssetsSection  `yaml:"assets,omitempty"`
	Reports ReportsSection `yaml:"reports,omitempty"`

	// DataDir overrides the XDG data directory.
	DataDir string `yaml:"dataDir,omitempty"`
}
