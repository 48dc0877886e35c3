package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/stressband/internal/asset"
	"github.com/nao1215/stressband/internal/config"
	"github.com/nao1215/stressband/internal/model"
	"github.com/nao1215/stressband/internal/report"
	"github.com/nao1215/stressband/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report endpoints over HTTP",
		Long: `Serve starts the HTTP server exposing:

  GET /api/report/{id}    one-page PDF report (download)
  GET /api/profiles/{id}  JSON summary of the profile
  GET /logo-SB.png        logo embedded in the reports
  GET /health             liveness probe

Reports fetch the logo from the base URL. Without --base-url it is derived
from each request, so the server fetches the logo from itself.

Examples:
  # Serve on the default address (:3000)
  stressband serve

  # Reject unknown band identifiers with 404
  stressband serve --id-policy strict

  # Behind a reverse proxy
  stressband serve --addr 127.0.0.1:8080 --base-url https://stressband.example`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultListenAddress, "Listen address")
	cmd.Flags().String("base-url", "", "Public base URL used to fetch the logo (default: derived from each request)")
	cmd.Flags().Duration("logo-timeout", config.DefaultLogoTimeout, "Timeout of the logo fetch")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy (host:port) for the logo fetch")
	cmd.Flags().String("id-policy", string(config.PolicyMock), "Band identifier policy: mock or strict")
	cmd.Flags().Int("max-conns", 0, "Maximum concurrent connections (0: unlimited)")
	cmd.Flags().Bool("json-log", false, "Write logs as JSON")

	return cmd
}

// buildServeConfig applies the serve flags over the loaded configuration.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if err := overrideFlag(cmd, "addr", &cfg.ListenAddress, f.GetString); err != nil {
		return nil, err
	}
	if err := overrideFlag(cmd, "base-url", &cfg.PublicBaseURL, f.GetString); err != nil {
		return nil, err
	}
	if err := overrideFlag(cmd, "logo-timeout", &cfg.LogoTimeout, f.GetDuration); err != nil {
		return nil, err
	}
	if err := overrideFlag(cmd, "proxy", &cfg.AssetProxyAddress, f.GetString); err != nil {
		return nil, err
	}
	if err := overrideFlag(cmd, "max-conns", &cfg.MaxConnections, f.GetInt); err != nil {
		return nil, err
	}
	if err := overrideFlag(cmd, "json-log", &cfg.JSONLog, f.GetBool); err != nil {
		return nil, err
	}

	policy := string(cfg.IDPolicy)
	if err := overrideFlag(cmd, "id-policy", &policy, f.GetString); err != nil {
		return nil, err
	}
	cfg.IDPolicy = config.IDPolicy(policy)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newFetcher creates the logo fetcher described by cfg.
func newFetcher(cfg *config.Config) (*asset.Fetcher, error) {
	opts := []asset.Option{
		asset.WithTimeout(cfg.LogoTimeout),
		asset.WithUserAgent(cfg.UserAgent),
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, asset.WithMaxBodySize(cfg.MaxBodySize))
	}
	if cfg.AssetProxyAddress != "" {
		opts = append(opts, asset.WithSOCKS5Proxy(cfg.AssetProxyAddress))
	}

	f, err := asset.NewFetcher(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset fetcher: %w", err)
	}
	return f, nil
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	defer fetcher.CloseIdleConnections()
	logger.Debug("logo fetcher ready",
		"timeout", fetcher.Timeout(),
		"proxy", fetcher.ProxyAddress(),
	)

	profiles := model.NewFixtureSource()
	gen := report.NewGenerator(profiles, fetcher,
		report.WithLogger(logger),
		report.WithLogoPath(cfg.LogoPath),
	)

	srv, err := server.New(gen, profiles,
		server.WithLogger(logger),
		server.WithIDPolicy(cfg.IDPolicy),
		server.WithPublicBaseURL(cfg.PublicBaseURL),
		server.WithLogo(cfg.LogoPath, nil),
		server.WithMaxConnections(cfg.MaxConnections),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving StressBand reports on %s\n", cfg.ListenAddress)
	return srv.ListenAndServe(ctx, cfg.ListenAddress)
}
