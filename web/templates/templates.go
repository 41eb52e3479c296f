// Package templates embeds the HTML templates so the web binary ships
// self-contained.
package templates

import "embed"

//go:embed layouts/*.html pages/*.html
var FS embed.FS
