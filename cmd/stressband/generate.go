package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/stressband/internal/config"
	"github.com/nao1215/stressband/internal/model"
	"github.com/nao1215/stressband/internal/report"
	"github.com/nao1215/stressband/internal/server"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [band-id...]",
		Short: "Write reports for one or more bands",
		Long: `Generate writes the report of each band to the output directory.
Without arguments, reports are written for every known band.

Identifiers are resolved with the configured policy. In mock mode (the
default) every identifier other than 936421 yields the 124578 profile.

When --base-url is not set, the logo is served from a temporary loopback
server for the duration of the command.

Examples:
  # PDF reports for both demonstration bands
  stressband generate

  # Markdown summary of one band
  stressband generate --format markdown 936421

  # JSON summaries into ./out
  stressband generate --format json --output-dir out`,
		Args: cobra.ArbitraryArgs,
		RunE: runGenerateCmd,
	}

	cmd.Flags().String("format", config.DefaultFormat, "Output format: pdf, markdown or json")
	cmd.Flags().StringP("output-dir", "o", ".", "Directory the reports are written to")
	cmd.Flags().String("base-url", "", "Base URL the logo is fetched from (default: temporary loopback server)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Number of reports generated at once")

	return cmd
}

// buildGenerateConfig applies the generate flags over the loaded configuration.
func buildGenerateConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if err := overrideFlag(cmd, "format", &cfg.Format, f.GetString); err != nil {
		return nil, err
	}
	if err := overrideFlag(cmd, "output-dir", &cfg.OutputDir, f.GetString); err != nil {
		return nil, err
	}
	if err := overrideFlag(cmd, "base-url", &cfg.PublicBaseURL, f.GetString); err != nil {
		return nil, err
	}
	if err := overrideFlag(cmd, "concurrency", &cfg.Concurrency, f.GetInt); err != nil {
		return nil, err
	}

	if !report.Format(cfg.Format).Valid() {
		return nil, fmt.Errorf("configuration error: unknown format %q (want pdf, markdown or json)", cfg.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// resolveBandIDs resolves args with policy, dropping duplicates.
// No arguments selects every known band.
func resolveBandIDs(args []string, policy config.IDPolicy) ([]model.BandID, error) {
	if len(args) == 0 {
		return model.KnownBandIDs(), nil
	}

	seen := make(map[model.BandID]bool, len(args))
	ids := make([]model.BandID, 0, len(args))
	for _, raw := range args {
		var id model.BandID
		if policy == config.PolicyStrict {
			var err error
			if id, err = model.ResolveBandIDStrict(raw); err != nil {
				return nil, err
			}
		} else {
			id = model.ResolveBandID(raw)
		}

		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// outputFilename returns the file name of the report of id in format f.
func outputFilename(id model.BandID, f report.Format) string {
	if f == report.FormatPDF {
		return id.ReportFilename()
	}
	return "compte-rendu-" + id.String() + f.Extension()
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildGenerateConfig(cmd)
	if err != nil {
		return err
	}

	ids, err := resolveBandIDs(args, cfg.IDPolicy)
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profiles := model.NewFixtureSource()
	format := report.Format(cfg.Format)

	var render report.RenderFunc
	if format == report.FormatPDF {
		fetcher, err := newFetcher(cfg)
		if err != nil {
			return err
		}
		defer fetcher.CloseIdleConnections()

		gen := report.NewGenerator(profiles, fetcher,
			report.WithLogger(logger),
			report.WithLogoPath(cfg.LogoPath),
		)

		baseURL := cfg.PublicBaseURL
		if baseURL == "" {
			var shutdown func() error
			baseURL, shutdown, err = serveLogo(ctx, gen, profiles, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdown(); err != nil {
					logger.Warn("failed to stop the logo server", "error", err)
				}
			}()
		}

		render = func(ctx context.Context, id model.BandID) ([]byte, error) {
			return gen.Generate(ctx, id, baseURL)
		}
	} else {
		render = func(ctx context.Context, id model.BandID) ([]byte, error) {
			profile, err := profiles.Lookup(ctx, id)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if _, err := report.NewWriter(format, &buf).Write(model.NewSummary(profile)); err != nil {
				return nil, fmt.Errorf("failed to write %s summary: %w", format, err)
			}
			return buf.Bytes(), nil
		}
	}

	batch := report.NewBatchGenerator(render,
		report.WithConcurrency(cfg.Concurrency),
		report.WithBatchLogger(logger),
	)
	results, err := batch.GenerateAll(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to generate reports: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, r := range results {
		path := filepath.Join(cfg.OutputDir, outputFilename(r.BandID, format))
		if err := os.WriteFile(path, r.Data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}

	return nil
}

// serveLogo starts the report server on a loopback port so that the
// generator can fetch the embedded logo. It returns the server's base URL
// and a function stopping it.
func serveLogo(ctx context.Context, gen server.ReportGenerator, profiles model.ProfileSource, cfg *config.Config, logger *slog.Logger) (string, func() error, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to start the logo server: %w", err)
	}

	srv, err := server.New(gen, profiles,
		server.WithLogger(logger),
		server.WithLogo(cfg.LogoPath, nil),
	)
	if err != nil {
		_ = ln.Close()
		return "", nil, err
	}

	srvCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(srvCtx, ln) }()

	shutdown := func() error {
		cancel()
		return <-done
	}
	return "http://" + ln.Addr().String(), shutdown, nil
}
