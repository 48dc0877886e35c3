package report

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// replacementByte stands in for runes the core fonts cannot draw.
const replacementByte = '?'

// toWinAnsi converts UTF-8 text to the Windows-1252 bytes expected by the
// PDF core fonts. Text is composed first so that decomposed accents map to
// their precomposed code points.
func toWinAnsi(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte(replacementByte)
	}
	return b.String()
}
