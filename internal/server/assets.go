package server

import (
	_ "embed"
)

// LogoPNG is the StressBand logo served at /logo-SB.png.
//
//go:embed static/logo-SB.png
var LogoPNG []byte
