package glossary

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// DeriveFilename maps a definition header to a term file name (without the
// .md extension). Only the text before the first comma participates, so alias
// lists such as "Authorization, AuthZ" name their file after the primary
// term. The mapping is deterministic: equal headers always derive equal
// names. An empty header derives an empty name, which callers treat as
// "no file".
func DeriveFilename(header string) string {
	name := header
	if idx := strings.Index(name, ","); idx >= 0 {
		name = name[:idx]
	}
	name = strings.ReplaceAll(name, ",", "")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.TrimSpace(name)
	name = strings.ToLower(strings.ReplaceAll(name, " ", "-"))

	if name == "" {
		return ""
	}
	if !slug.IsValid(name) {
		if normalized, err := slug.Normalize(name); err == nil && normalized != "" {
			return normalized
		}
	}
	return name
}
