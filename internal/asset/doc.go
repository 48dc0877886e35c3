// Package asset fetches auxiliary files, such as the institutional logo,
// that documents embed at generation time.
//
// Every fetch is bounded: a Fetcher applies a request timeout and caps the
// size of the response body it is willing to read. A fetch can optionally go
// through a SOCKS5 proxy when the asset host is only reachable that way.
//
// Nothing is cached. Each call performs exactly one request.
package asset
