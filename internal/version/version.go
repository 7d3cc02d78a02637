// Package version holds the release version embedded at build time.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION.txt
var versionFile string

// Version is the trimmed contents of VERSION.txt
var Version = strings.TrimSpace(versionFile)
