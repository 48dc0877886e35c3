// Package report produces the documents a practitioner can download for a
// band: a one-page PDF summary, and Markdown or JSON renditions of the same
// profile.
//
// The PDF Generator is the core of the package. It builds a fixed A4 layout
// with the layout package, embeds the institutional logo fetched at
// generation time and falls back to a text label when the logo cannot be
// used. Every call builds its own document, so a Generator can serve
// concurrent requests.
//
// Writers implement the Writer interface and render a model.Summary to an
// io.Writer. BatchGenerator renders several bands concurrently.
package report
