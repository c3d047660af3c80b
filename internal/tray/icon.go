package tray

import _ "embed"

// 16x16 arcade button
//
//go:embed icon.ico
var iconData []byte

// Icon returns the embedded tray icon.
func Icon() []byte {
	return iconData
}
