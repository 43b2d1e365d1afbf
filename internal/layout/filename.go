package layout

import (
	"regexp"
	"strings"

	"github.com/pestdocs/pestdocs/internal/platform/textfold"
)

var unsafeRun = regexp.MustCompile(`[^A-Za-z0-9-]+`)

// FileName builds "<prefix>_<code>[_<client>].pdf". Accents are folded and every run
// of characters outside [A-Za-z0-9-] becomes a single underscore, so the result is
// stable for the same inputs.
func FileName(prefix, code, client string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, code, client} {
		if s := sanitize(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "documento.pdf"
	}
	return strings.Join(parts, "_") + ".pdf"
}

func sanitize(s string) string {
	s = textfold.Fold(strings.TrimSpace(s))
	return strings.Trim(unsafeRun.ReplaceAllString(s, "_"), "_")
}
