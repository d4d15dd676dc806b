package surface

import (
	"path"
	"strings"

	"gitlab.com/tinyland/lab/signpost/pkg/config"
)

// DefaultQuotesDir is where the bundled quotes collection is installed.
var DefaultQuotesDir = "/usr/share/signpost/quotes"

// ResolveScreensaverURL rewrites the reserved quotes:// prefix to a
// file:// reference into the bundled quotes directory, stripping the
// prefix. Any other URL is returned verbatim.
func ResolveScreensaverURL(raw, quotesDir string) string {
	if !strings.HasPrefix(raw, config.ScreensaverQuotesPrefix) {
		return raw
	}
	name := strings.TrimPrefix(raw, config.ScreensaverQuotesPrefix)
	if name == "" {
		name = "index"
	}
	if path.Ext(name) == "" {
		name += ".html"
	}
	return "file://" + path.Join(quotesDir, name)
}
