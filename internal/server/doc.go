// Package server exposes the StressBand reports over HTTP.
//
// Routes:
//
//	GET /api/report/{id}    one-page PDF report, served as a download
//	GET /api/profiles/{id}  JSON summary of the same profile
//	GET /logo-SB.png        the logo embedded in the reports
//	GET /health             liveness probe
//
// The {id} segment is matched on the escaped path and resolved by the
// configured identifier policy. In mock mode every identifier other than
// 936421 yields the 124578 profile; in strict mode unknown identifiers are
// answered with 404.
//
// Reports embed the logo by fetching it over HTTP from the base URL, which
// is either configured or derived from the incoming request. The server
// therefore usually calls itself while serving a report.
package server
