// Package main provides the entry point for the StressBand CLI.
//
// StressBand serves and generates the one-page PDF reports of the
// StressBand QVT demonstration bands.
//
// Usage:
//
//	stressband serve
//	stressband generate 124578 936421
//
// See --help for all available options.
package main

func main() {
	Execute()
}
