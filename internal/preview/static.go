package preview

import "embed"

// staticFS holds the page script and styles, served under /static/.
//
//go:embed static
var staticFS embed.FS
