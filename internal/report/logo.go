package report

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

// logoImage describes decoded logo bytes.
type logoImage struct {
	// imageType is the fpdf image type, "PNG" or "JPG".
	imageType string

	// width and height are the pixel dimensions.
	width  int
	height int

	data []byte
}

// decodeLogo identifies data as PNG, falling back to JPEG.
func decodeLogo(data []byte) (*logoImage, error) {
	decoders := []struct {
		imageType string
		decode    func(*bytes.Reader) (image.Config, error)
	}{
		{"PNG", func(r *bytes.Reader) (image.Config, error) { return png.DecodeConfig(r) }},
		{"JPG", func(r *bytes.Reader) (image.Config, error) { return jpeg.DecodeConfig(r) }},
	}

	for _, d := range decoders {
		cfg, err := d.decode(bytes.NewReader(data))
		if err != nil {
			continue
		}
		if cfg.Width <= 0 || cfg.Height <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, cfg.Width, cfg.Height)
		}
		return &logoImage{
			imageType: d.imageType,
			width:     cfg.Width,
			height:    cfg.Height,
			data:      data,
		}, nil
	}

	return nil, fmt.Errorf("%w (%d bytes)", ErrUnsupportedImage, len(data))
}

// scaledTo returns the logo extent when its width is scaled to maxWidth,
// preserving the aspect ratio.
func (l *logoImage) scaledTo(maxWidth float64) (w, h float64) {
	scale := maxWidth / float64(l.width)
	return float64(l.width) * scale, float64(l.height) * scale
}
