package assets

import "embed"

// AssetsFS holds the static files served under /assets/.
//
//go:embed css
var AssetsFS embed.FS
