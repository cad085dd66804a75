// Package ui holds the HTML templates of the web server.
package ui

import "embed"

//go:embed "templates"
var Files embed.FS
