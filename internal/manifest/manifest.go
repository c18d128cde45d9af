package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// FileName is the fixed manifest name expected at the project root.
	FileName = "specs.json"
	// BackupFileName is the pre-migration manifest copy, created at most once.
	BackupFileName = "specs.unsplit.json"
	// DefaultTermsDirectory names the terms output directory when the
	// manifest does not configure one.
	DefaultTermsDirectory = "terms-definitions"
)

// Text codes for manifest configuration errors.
const (
	CodeManifestMissing   = "SPECUP_MANIFEST_MISSING"
	CodeManifestMalformed = "SPECUP_MANIFEST_MALFORMED"
	CodeManifestNoSpecs   = "SPECUP_MANIFEST_NO_SPECS"
)

// Path returns the manifest location for a project root.
func Path(projectDir string) string {
	return filepath.Join(projectDir, FileName)
}

// BackupPath returns the manifest backup location for a project root.
func BackupPath(projectDir string) string {
	return filepath.Join(projectDir, BackupFileName)
}

// Document wraps the parsed manifest while preserving every key the toolkit
// does not model, so rewrites never drop host configuration.
type Document struct {
	path string
	raw  map[string]any
}

// Load reads and validates the manifest at path. Missing files and malformed
// content are reported as configuration errors with distinct text codes.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "project manifest not found").
				WithTextCode(CodeManifestMissing).
				WithMetadata(map[string]any{"path": path})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "read project manifest").
			WithMetadata(map[string]any{"path": path})
	}
	return Parse(path, data)
}

// Parse decodes manifest bytes and validates them against the embedded schema.
func Parse(path string, data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "project manifest is not valid JSON").
			WithTextCode(CodeManifestMalformed).
			WithMetadata(map[string]any{"path": path})
	}
	if err := ValidateSchema(raw); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "project manifest does not match the expected schema").
			WithTextCode(CodeManifestMalformed).
			WithMetadata(map[string]any{"path": path})
	}
	return &Document{path: path, raw: raw}, nil
}

// Path returns the filesystem location the document was loaded from.
func (d *Document) Path() string { return d.path }

// Raw exposes the underlying map for callers that need to inspect keys the
// typed accessors do not cover. The map is shared, not copied.
func (d *Document) Raw() map[string]any { return d.raw }

// FirstSpec returns the first spec configuration entry. The schema guarantees
// at least one entry for validated documents; hand-built documents without
// one are reported as configuration errors.
func (d *Document) FirstSpec() (*Spec, error) {
	specs, ok := d.raw["specs"].([]any)
	if !ok || len(specs) == 0 {
		return nil, goerrors.New("project manifest has no spec entries", goerrors.CategoryValidation).
			WithTextCode(CodeManifestNoSpecs).
			WithMetadata(map[string]any{"path": d.path})
	}
	entry, ok := specs[0].(map[string]any)
	if !ok {
		return nil, goerrors.New("project manifest spec entry is not an object", goerrors.CategoryValidation).
			WithTextCode(CodeManifestMalformed).
			WithMetadata(map[string]any{"path": d.path})
	}
	return &Spec{raw: entry}, nil
}

// Save persists the document back to its source path, pretty-printed the way
// the upstream tooling writes it.
func (d *Document) Save() error {
	return d.SaveTo(d.path)
}

// SaveTo persists the document to an explicit path.
func (d *Document) SaveTo(path string) error {
	data, err := json.MarshalIndent(d.raw, "", "  ")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "encode project manifest")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "write project manifest").
			WithMetadata(map[string]any{"path": path})
	}
	return nil
}

// Spec is a typed view over one spec configuration entry. Mutations write
// through to the underlying document so Save picks them up.
type Spec struct {
	raw map[string]any
}

// Raw exposes the underlying entry map. The map is shared, not copied.
func (s *Spec) Raw() map[string]any { return s.raw }

// Directory returns the spec directory, cleaned of a leading "./".
func (s *Spec) Directory() string {
	dir, _ := s.raw["spec_directory"].(string)
	dir = strings.TrimSpace(dir)
	dir = strings.TrimPrefix(dir, "./")
	if dir == "" {
		dir = "spec"
	}
	return dir
}

// MarkdownPaths returns the ordered list of relative source-document paths.
func (s *Spec) MarkdownPaths() []string {
	values, _ := s.raw["markdown_paths"].([]any)
	paths := make([]string, 0, len(values))
	for _, value := range values {
		if path, ok := value.(string); ok {
			paths = append(paths, path)
		}
	}
	return paths
}

// SetMarkdownPaths replaces the source-document list, preserving order.
func (s *Spec) SetMarkdownPaths(paths []string) {
	values := make([]any, len(paths))
	for i, path := range paths {
		values[i] = path
	}
	s.raw["markdown_paths"] = values
}

// TermsDirectory returns the configured terms output directory name,
// defaulting to the conventional one.
func (s *Spec) TermsDirectory() string {
	dir, _ := s.raw["spec_terms_directory"].(string)
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return DefaultTermsDirectory
	}
	return dir
}

// SetTermsDirectory records the terms output directory on the spec entry.
func (s *Spec) SetTermsDirectory(dir string) {
	s.raw["spec_terms_directory"] = dir
}
