package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/nao1215/stressband/internal/asset"
	"github.com/nao1215/stressband/internal/layout"
	"github.com/nao1215/stressband/internal/model"
)

// Page geometry and layout constants, in points.
const (
	// DefaultLogoPath is the location of the logo relative to the base URL.
	DefaultLogoPath = "/logo-SB.png"

	baseFontSize = 9
	fontFamily   = "Helvetica"

	topOffset    = 60
	bottomMargin = 40

	leftColumn         = 40
	valueColumn        = 130
	metricsLabelColumn = 50
	metricsValueColumn = 250

	maxLogoWidth = 120
	logoInset    = 40

	fallbackLabel     = "STRESSBAND QVT"
	fallbackLabelSize = 10
	fallbackRight     = 170
	fallbackTop       = 50

	logoImageName = "logo"
)

// Fixed document texts.
const (
	letterheadTitle    = "LABORATOIRE DE BIOLOGIE MEDICALE"
	letterheadSubtitle = "SELARL XL-BIO (maquette pédagogiques, données fictives)"
	metricsTitle       = "INDICATEURS PHYSIOLOGIQUES LIES AU BIEN-ETRE"
	metricsSubtitle    = "Synthèse des données issues du brassard connecté"
	metricsTableTitle  = "INDICATEURS PRINCIPAUX"
	disclaimerFirst    = "Ce compte-rendu est une simulation pédagogique basée sur des données fictives."
	disclaimerSecond   = "Il ne doit en aucun cas être utilisé pour un avis médical réel."
)

// AssetFetcher retrieves the bytes at a URL.
// *asset.Fetcher satisfies it.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

var _ AssetFetcher = (*asset.Fetcher)(nil)

// Generator builds the one-page PDF report of a band.
// It holds no per-document state and is safe for concurrent use.
type Generator struct {
	// profiles resolves band identifiers to profiles.
	profiles model.ProfileSource

	// fetcher retrieves the logo. Its own timeout bounds the fetch.
	fetcher AssetFetcher

	// logger receives the logo failure diagnostics.
	logger *slog.Logger

	// logoPath is joined with the base URL of each call.
	logoPath string

	// compress enables Flate compression of page content streams.
	compress bool

	// now stamps the document creation date.
	now func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger used for logo diagnostics.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithLogoPath overrides DefaultLogoPath. A path without a leading slash
// is rooted.
func WithLogoPath(logoPath string) GeneratorOption {
	return func(g *Generator) {
		if logoPath != "" {
			g.logoPath = path.Join("/", logoPath)
		}
	}
}

// WithCompression toggles content stream compression. It is on by default;
// turning it off leaves the drawn text readable in the output bytes.
func WithCompression(compress bool) GeneratorOption {
	return func(g *Generator) {
		g.compress = compress
	}
}

// WithClock sets the clock used for the document creation date.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator creates a Generator reading profiles from profiles and
// fetching the logo with fetcher.
func NewGenerator(profiles model.ProfileSource, fetcher AssetFetcher, opts ...GeneratorOption) *Generator {
	g := &Generator{
		profiles: profiles,
		fetcher:  fetcher,
		logoPath: DefaultLogoPath,
		compress: true,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// Generate returns the PDF report of band id. The logo is fetched from
// baseURL joined with the logo path.
//
// The logo is best effort: a failed fetch or decode is logged and replaced
// by a text label. Generate fails only when the profile lookup fails or the
// document itself cannot be assembled; those errors wrap ErrProfileNotFound
// or ErrDocumentAssembly respectively.
func (g *Generator) Generate(ctx context.Context, id model.BandID, baseURL string) ([]byte, error) {
	profile, err := g.profiles.Lookup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(g.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(g.now())
	pdf.SetCreator("StressBand", true)
	pdf.SetTitle("Compte-rendu "+profile.BandID.String(), true)
	pdf.AddPage()

	width, height := pdf.GetPageSize()
	p := &page{pdf: pdf, width: width, height: height}

	g.placeLogo(ctx, p, profile.BandID, baseURL)

	flow := reportFlow(profile, height)
	if _, err := flow.Place(p.drawCell); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentAssembly, err)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentAssembly, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: failed to serialize: %w", ErrDocumentAssembly, err)
	}

	return buf.Bytes(), nil
}

// placeLogo draws the logo in the top-right corner, or the fallback label.
func (g *Generator) placeLogo(ctx context.Context, p *page, id model.BandID, baseURL string) {
	logoURL, err := g.embedLogo(ctx, p, baseURL)
	if err == nil {
		return
	}

	g.logger.ErrorContext(ctx, "failed to load logo for the PDF report",
		"band", id.String(),
		"url", logoURL,
		"error", err,
	)

	// pdf.ClearError drops any image registration failure so that the
	// document can still be completed.
	p.pdf.ClearError()
	p.drawText(p.width-fallbackRight, p.height-fallbackTop, fallbackLabel,
		layout.Style{Size: fallbackLabelSize, Bold: true})
}

// embedLogo fetches, decodes and draws the logo. It returns the URL it used.
func (g *Generator) embedLogo(ctx context.Context, p *page, baseURL string) (string, error) {
	logoURL, err := asset.ResolveURL(baseURL, g.logoPath)
	if err != nil {
		return "", err
	}

	data, err := g.fetcher.Fetch(ctx, logoURL)
	if err != nil {
		return logoURL, err
	}

	logo, err := decodeLogo(data)
	if err != nil {
		return logoURL, err
	}

	opts := fpdf.ImageOptions{ImageType: logo.imageType}
	p.pdf.RegisterImageOptionsReader(logoImageName, opts, bytes.NewReader(logo.data))
	if err := p.pdf.Error(); err != nil {
		return logoURL, fmt.Errorf("failed to embed %s logo: %w", logo.imageType, err)
	}

	w, h := logo.scaledTo(maxLogoWidth)
	x := p.width - w - logoInset
	bottom := p.height - h - logoInset
	p.pdf.ImageOptions(logoImageName, x, p.fromTop(bottom+h), w, h, false, opts, 0, "")

	return logoURL, p.pdf.Error()
}

// reportFlow lays out the letterhead, identity, metrics and disclaimer
// blocks. The advances are the reference spacing of the report.
func reportFlow(profile model.Profile, pageHeight float64) *layout.Flow {
	bold := layout.Style{Bold: true}
	plain := layout.Style{}

	identity := func(label, value string, advance float64) layout.Row {
		return layout.Pair(leftColumn, label, bold, valueColumn, value, plain, advance)
	}
	metric := func(label, value string) layout.Row {
		return layout.Pair(metricsLabelColumn, label, plain, metricsValueColumn, value, bold, 12)
	}

	return layout.NewFlow(pageHeight-topOffset, bottomMargin, baseFontSize).Add(
		// Letterhead
		layout.Text(leftColumn, letterheadTitle, layout.Style{Size: 12, Bold: true}, 14),
		layout.Text(leftColumn, letterheadSubtitle, layout.Style{Size: 8}, 24),

		// Subject and dossier
		identity("Patiente / Patient :", profile.FullName(), 12),
		identity("Date de naissance :", profile.BirthDate, 12),
		identity("N° dossier :", profile.Dossier, 12),
		identity("ID brassard :", profile.BandID.String(), 16),
		identity("Prélèvement du :", profile.ExamDate, 32),

		// Physiological indicators
		layout.Text(leftColumn, metricsTitle, layout.Style{Size: 11, Bold: true}, 16),
		layout.Text(leftColumn, metricsSubtitle, layout.Style{Size: 10, Bold: true}, 14),
		layout.Text(metricsLabelColumn, metricsTableTitle, bold, 12),
		metric("Fréquence cardiaque moyenne", profile.Metrics.HeartRateAvg),
		metric("Fréquence respiratoire moyenne", profile.Metrics.RespirationAvg),
		metric("Rythme / qualité du sommeil", profile.Metrics.SleepRhythm),
		layout.Gap(20),

		// Disclaimer
		layout.Text(leftColumn, disclaimerFirst, layout.Style{Size: 8}, 10),
		layout.Text(leftColumn, disclaimerSecond, layout.Style{Size: 8}, 10),
	)
}

// page adapts bottom-left layout coordinates to fpdf, whose origin is the
// top-left corner.
type page struct {
	pdf    *fpdf.Fpdf
	width  float64
	height float64
}

// fromTop converts a bottom-left y coordinate to fpdf's top-left system.
func (p *page) fromTop(y float64) float64 {
	return p.height - y
}

// drawText draws text with its baseline at (x, y), bottom-left origin.
func (p *page) drawText(x, y float64, text string, style layout.Style) {
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	size := style.Size
	if size == 0 {
		size = baseFontSize
	}
	p.pdf.SetFont(fontFamily, fontStyle, size)
	p.pdf.Text(x, p.fromTop(y), toWinAnsi(text))
}

// drawCell is the layout.DrawFunc of the report flow.
func (p *page) drawCell(cell layout.Cell, baseline float64) error {
	p.drawText(cell.X, baseline, cell.Text, cell.Style)
	return p.pdf.Error()
}
