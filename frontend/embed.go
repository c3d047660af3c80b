// Package frontend holds the panel web view served at "/".
package frontend

import "embed"

//go:embed index.html style.css app.js
var FS embed.FS
