package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/pkg/interfaces"
)

const legacyManifest = `{
  "specs": [
    {
      "spec_directory": "./spec",
      "markdown_paths": ["glossary.md"]
    }
  ]
}`

const legacyPackage = `{
  "name": "example-spec",
  "author": "example",
  "dependencies": {"spec-up": "^0.10.6"},
  "scripts": {
    "render": "node -e \"require('spec-up')({ nowatch: true })\"",
    "edit": "node -e \"require('spec-up')()\""
  }
}`

const legacyGlossary = "---\ntitle: Example Spec\ndescription: Terms for the example system\n---\n~ Intro\n\n[[def: Alpha]]\n\n~ body\n"

func writeProjectFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newLegacyProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeProjectFile(t, dir, "specs.json", legacyManifest)
	writeProjectFile(t, dir, "package.json", legacyPackage)
	writeProjectFile(t, dir, filepath.Join("spec", "glossary.md"), legacyGlossary)
	writeProjectFile(t, dir, "index.js", "require('spec-up')()\n")
	writeProjectFile(t, dir, "gulpfile.js", "// legacy build\n")
	return dir
}

func TestDetectLegacyProject(t *testing.T) {
	dir := newLegacyProject(t)

	result, err := NewDetector(nil).Detect(context.Background(), interfaces.DetectOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if result.Confidence != 100 {
		t.Fatalf("expected full confidence, got %d: %#v", result.Confidence, result.Checks)
	}
	if len(result.Checks) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(result.Checks))
	}
	for _, check := range result.Checks {
		if !check.Passed {
			t.Fatalf("expected check %q to pass: %s", check.Name, check.Detail)
		}
	}
	if result.Title != "Example Spec" {
		t.Fatalf("expected frontmatter title, got %q", result.Title)
	}
	if result.Description != "Terms for the example system" {
		t.Fatalf("expected frontmatter description, got %q", result.Description)
	}
}

func TestDetectEmptyDirectory(t *testing.T) {
	result, err := NewDetector(nil).Detect(context.Background(), interfaces.DetectOptions{ProjectDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if result.Confidence != 0 {
		t.Fatalf("expected zero confidence for empty directory, got %d", result.Confidence)
	}
}

func TestDetectMissingDirectory(t *testing.T) {
	_, err := NewDetector(nil).Detect(context.Background(), interfaces.DetectOptions{
		ProjectDir: filepath.Join(t.TempDir(), "nope"),
	})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not-found category, got %v", err)
	}
}

func TestDetectPartialEvidence(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "specs.json", legacyManifest)
	writeProjectFile(t, dir, filepath.Join("spec", "glossary.md"), "~ text\n")

	result, err := NewDetector(nil).Detect(context.Background(), interfaces.DetectOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	// Manifest (40) plus source documents (20).
	if result.Confidence != 60 {
		t.Fatalf("expected 60%% confidence, got %d: %#v", result.Confidence, result.Checks)
	}
}

func TestDetectDoesNotMutate(t *testing.T) {
	dir := newLegacyProject(t)
	before := readTree(t, dir)
	if _, err := NewDetector(nil).Detect(context.Background(), interfaces.DetectOptions{ProjectDir: dir}); err != nil {
		t.Fatalf("Detect: %v", err)
	}
	after := readTree(t, dir)
	if len(before) != len(after) {
		t.Fatalf("detection changed the tree: %v vs %v", before, after)
	}
	for path, content := range before {
		if after[path] != content {
			t.Fatalf("detection modified %s", path)
		}
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("read tree %s: %v", root, err)
	}
	return tree
}
