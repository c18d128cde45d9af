package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

const sampleManifest = `{
  "specs": [
    {
      "title": "Example Spec",
      "spec_directory": "./spec",
      "markdown_paths": ["intro.md", "glossary.md", "appendix.md"],
      "spec_terms_directory": "terms-definitions",
      "custom_setting": {"nested": true}
    }
  ],
  "top_level_extra": "kept"
}`

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestLoadMalformedManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "{not json")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed manifest")
	}
}

func TestLoadRejectsManifestWithoutSpecs(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{"specs": []}`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected schema error for empty specs list")
	}
}

func TestFirstSpecAccessors(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, sampleManifest)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	spec, err := doc.FirstSpec()
	if err != nil {
		t.Fatalf("FirstSpec: %v", err)
	}

	if got := spec.Directory(); got != "spec" {
		t.Fatalf("expected spec directory without ./ prefix, got %q", got)
	}
	paths := spec.MarkdownPaths()
	if len(paths) != 3 || paths[1] != "glossary.md" {
		t.Fatalf("unexpected markdown paths: %v", paths)
	}
	if got := spec.TermsDirectory(); got != "terms-definitions" {
		t.Fatalf("unexpected terms directory: %q", got)
	}
}

func TestTermsDirectoryDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{"specs":[{"spec_directory":"./spec","markdown_paths":["glossary.md"]}]}`)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	spec, err := doc.FirstSpec()
	if err != nil {
		t.Fatalf("FirstSpec: %v", err)
	}
	if got := spec.TermsDirectory(); got != DefaultTermsDirectory {
		t.Fatalf("expected default terms directory, got %q", got)
	}
}

func TestSavePreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, sampleManifest)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	spec, err := doc.FirstSpec()
	if err != nil {
		t.Fatalf("FirstSpec: %v", err)
	}
	spec.SetMarkdownPaths([]string{"intro.md", "appendix.md"})
	if err := doc.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved manifest: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved manifest is not valid JSON: %v", err)
	}
	if raw["top_level_extra"] != "kept" {
		t.Fatalf("expected unknown top-level key to survive, got %v", raw["top_level_extra"])
	}
	specEntry := raw["specs"].([]any)[0].(map[string]any)
	if specEntry["title"] != "Example Spec" {
		t.Fatalf("expected unknown spec key to survive, got %v", specEntry["title"])
	}
	custom := specEntry["custom_setting"].(map[string]any)
	if custom["nested"] != true {
		t.Fatalf("expected nested unknown key to survive, got %v", custom)
	}
}
