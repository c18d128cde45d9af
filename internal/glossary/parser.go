package glossary

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/pkg/interfaces"
)

// DefaultMarkerToken is the definition marker the upstream glossary grammar
// uses. Callers may override it per run.
const DefaultMarkerToken = interfaces.DefaultMarkerToken

const (
	codeMarkerUnterminated = "SPECUP_MARKER_UNTERMINATED"
	codeMarkerMalformed    = "SPECUP_MARKER_MALFORMED"
)

// Definition is one extracted term: the header from its marker line and the
// raw text segment the term owns, marker line included.
type Definition struct {
	// Header is the free text between the marker token and its closing
	// brackets, trimmed of surrounding whitespace. It may be empty.
	Header string
	// Content is the exact byte span from the start of the marker line up to
	// the next marker line (or end of input).
	Content string
}

// Document is the result of parsing glossary text: everything before the
// first marker, followed by the definitions in source order. Concatenating
// Introduction with every definition's Content reproduces the input exactly.
type Document struct {
	Introduction string
	Definitions  []Definition
}

// Parse splits glossary text into its introduction and per-term segments in
// a single pass. A marker counts only when its token starts a line; a token
// embedded mid-line is plain body text. A marker line whose header shape does
// not match "<token> <header>]]" is a data error carrying the line number.
func Parse(text, token string) (*Document, error) {
	if token == "" {
		token = DefaultMarkerToken
	}

	starts := markerLineStarts(text, token)
	doc := &Document{}
	if len(starts) == 0 {
		doc.Introduction = text
		return doc, nil
	}

	doc.Introduction = text[:starts[0]]
	doc.Definitions = make([]Definition, 0, len(starts))

	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		content := text[start:end]

		header, err := parseHeader(content, token, lineNumberAt(text, start))
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, Definition{
			Header:  header,
			Content: content,
		})
	}

	return doc, nil
}

// markerLineStarts returns the byte offsets of every line that begins with
// the marker token, in order.
func markerLineStarts(text, token string) []int {
	var starts []int
	offset := 0
	for {
		idx := strings.Index(text[offset:], token)
		if idx < 0 {
			return starts
		}
		pos := offset + idx
		if pos == 0 || text[pos-1] == '\n' {
			starts = append(starts, pos)
		}
		offset = pos + len(token)
	}
}

// parseHeader extracts the term header from the first line of a definition
// segment and validates the marker shape.
func parseHeader(content, token string, line int) (string, error) {
	markerLine := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		markerLine = content[:idx]
	}

	rest := markerLine[len(token):]
	closing := strings.Index(rest, "]]")
	if closing < 0 {
		return "", goerrors.New("definition marker is missing its closing brackets", goerrors.CategoryBadInput).
			WithTextCode(codeMarkerUnterminated).
			WithMetadata(map[string]any{"line": line, "marker": markerLine})
	}
	if !strings.HasPrefix(rest, " ") {
		return "", goerrors.New("definition marker is malformed: expected a space after the marker token", goerrors.CategoryBadInput).
			WithTextCode(codeMarkerMalformed).
			WithMetadata(map[string]any{"line": line, "marker": markerLine})
	}

	return strings.TrimSpace(rest[:closing]), nil
}

// lineNumberAt returns the 1-based line number of the byte offset.
func lineNumberAt(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}
