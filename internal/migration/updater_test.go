package migration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readPackage(t *testing.T, dir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatalf("read package.json: %v", err)
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		t.Fatalf("decode package.json: %v", err)
	}
	return pkg
}

func TestUpdateRewritesPackage(t *testing.T) {
	dir := newLegacyProject(t)

	result, err := NewConfigUpdater(nil).Update(context.Background(), dir, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !result.PackageChanged {
		t.Fatalf("expected package rewrite, got %#v", result)
	}

	pkg := readPackage(t, dir)
	deps := pkg["dependencies"].(map[string]any)
	if _, found := deps["spec-up"]; found {
		t.Fatal("expected legacy dependency to be dropped")
	}
	if deps["spec-up-t"] != "^1.0.0" {
		t.Fatalf("expected successor dependency, got %v", deps)
	}
	scripts := pkg["scripts"].(map[string]any)
	render := scripts["render"].(string)
	if !strings.Contains(render, "spec-up-t") {
		t.Fatalf("expected render script rewrite, got %q", render)
	}
	// Keys the updater does not model survive the rewrite.
	if pkg["author"] != "example" {
		t.Fatalf("expected unknown key to survive, got %v", pkg["author"])
	}
}

func TestUpdateDeclaresTermsDirectory(t *testing.T) {
	dir := newLegacyProject(t)

	result, err := NewConfigUpdater(nil).Update(context.Background(), dir, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !result.ManifestChanged {
		t.Fatalf("expected manifest change, got %#v", result)
	}

	data, err := os.ReadFile(filepath.Join(dir, "specs.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !strings.Contains(string(data), `"spec_terms_directory": "terms-definitions"`) {
		t.Fatalf("expected terms directory declaration, got %s", data)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	dir := newLegacyProject(t)
	updater := NewConfigUpdater(nil)

	if _, err := updater.Update(context.Background(), dir, false); err != nil {
		t.Fatalf("first update: %v", err)
	}
	second, err := updater.Update(context.Background(), dir, false)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if second.PackageChanged || second.ManifestChanged {
		t.Fatalf("expected second update to be a no-op, got %#v", second)
	}
}

func TestUpdateDryRunLeavesFilesUntouched(t *testing.T) {
	dir := newLegacyProject(t)
	before := readTree(t, dir)

	result, err := NewConfigUpdater(nil).Update(context.Background(), dir, true)
	if err != nil {
		t.Fatalf("dry-run update: %v", err)
	}
	if !result.PackageChanged || !result.ManifestChanged {
		t.Fatalf("expected dry-run to report the planned changes, got %#v", result)
	}

	after := readTree(t, dir)
	for path, content := range before {
		if after[path] != content {
			t.Fatalf("dry-run modified %s", path)
		}
	}
}

func TestUpdateWithoutPackageJSON(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "specs.json", legacyManifest)

	result, err := NewConfigUpdater(nil).Update(context.Background(), dir, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if result.PackageChanged {
		t.Fatal("expected no package change without package.json")
	}
	if !result.ManifestChanged {
		t.Fatal("expected manifest change")
	}
}
