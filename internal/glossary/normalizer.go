package glossary

import (
	"io/fs"
	"os"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// continuationPrefix marks a body line that belongs to the preceding
// definition in the upstream glossary grammar.
const continuationPrefix = "~ "

// Normalize rewrites glossary text so every definition marker sits between
// blank lines and every other non-blank line carries the continuation prefix.
// The transformation is pure and idempotent: applying it twice yields the
// same text.
func Normalize(text, token string) string {
	if token == "" {
		token = DefaultMarkerToken
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+8)

	for i, line := range lines {
		if strings.HasPrefix(line, token) {
			if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
				out = append(out, "")
			}
			out = append(out, line)
			if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
				out = append(out, "")
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(line, "~") {
			out = append(out, line)
			continue
		}
		out = append(out, continuationPrefix+line)
	}

	return strings.Join(out, "\n")
}

// NormalizeFile rewrites the file at path in place using Normalize. The file
// is left untouched when the transformation is a no-op. Low-level I/O errors
// propagate to the caller with the offending path attached.
func NormalizeFile(path, token string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "read glossary document").
			WithMetadata(map[string]any{"path": path})
	}

	normalized := Normalize(string(data), token)
	if normalized == string(data) {
		return nil
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(normalized), mode); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "write normalized glossary document").
			WithMetadata(map[string]any{"path": path})
	}
	return nil
}
