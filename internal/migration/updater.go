package migration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/internal/manifest"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

const (
	legacyPackageName = "spec-up"
	targetPackageName = "spec-up-t"
	targetVersion     = "^1.0.0"
)

// UpdateResult reports the configuration changes an update pass made or, in
// dry-run mode, would make.
type UpdateResult struct {
	PackageChanged  bool     `json:"package_changed"`
	ManifestChanged bool     `json:"manifest_changed"`
	Messages        []string `json:"messages,omitempty"`
}

// ConfigUpdater rewrites project configuration to the new schema. Like the
// manifest package it round-trips JSON through raw maps so keys it does not
// model survive untouched.
type ConfigUpdater struct {
	logger interfaces.Logger
}

// NewConfigUpdater creates an updater using the given logger provider.
func NewConfigUpdater(provider interfaces.LoggerProvider) *ConfigUpdater {
	return &ConfigUpdater{logger: logging.MigrationLogger(provider)}
}

// Update applies both configuration rewrites: package.json moves from the
// legacy package to its successor, and the manifest gains an explicit terms
// directory. Either file may legitimately need no change.
func (u *ConfigUpdater) Update(ctx context.Context, projectDir string, dryRun bool) (*UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &UpdateResult{}
	if err := u.updatePackage(projectDir, dryRun, result); err != nil {
		return result, err
	}
	if err := u.updateManifest(projectDir, dryRun, result); err != nil {
		return result, err
	}
	return result, nil
}

// updatePackage swaps the legacy dependency for its successor and rewrites
// script invocations that reference it. A project without package.json is
// left alone.
func (u *ConfigUpdater) updatePackage(projectDir string, dryRun bool, result *UpdateResult) error {
	path := filepath.Join(projectDir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			result.Messages = append(result.Messages, "no package.json to update")
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryExternal, "read package.json").
			WithMetadata(map[string]any{"path": path})
	}

	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "package.json is not valid JSON").
			WithMetadata(map[string]any{"path": path})
	}

	changed := false
	if deps, ok := pkg["dependencies"].(map[string]any); ok {
		if _, found := deps[legacyPackageName]; found {
			delete(deps, legacyPackageName)
			deps[targetPackageName] = targetVersion
			changed = true
			result.Messages = append(result.Messages, "replaced dependency "+legacyPackageName+" with "+targetPackageName)
		}
	}
	if scripts, ok := pkg["scripts"].(map[string]any); ok {
		for name, value := range scripts {
			script, ok := value.(string)
			if !ok {
				continue
			}
			if rewritten := rewriteScript(script); rewritten != script {
				scripts[name] = rewritten
				changed = true
				result.Messages = append(result.Messages, "rewrote script "+name)
			}
		}
	}

	if !changed {
		result.Messages = append(result.Messages, "package.json already up to date")
		return nil
	}
	result.PackageChanged = true
	if dryRun {
		return nil
	}

	encoded, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "encode package.json")
	}
	encoded = append(encoded, '\n')
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "write package.json").
			WithMetadata(map[string]any{"path": path})
	}
	u.logger.Info("update.package.rewritten", "path", path)
	return nil
}

// rewriteScript points a script at the successor package. Scripts already
// referencing it pass through unchanged, which keeps the rewrite idempotent.
func rewriteScript(script string) string {
	if strings.Contains(script, targetPackageName) {
		return script
	}
	return strings.ReplaceAll(script, legacyPackageName, targetPackageName)
}

// updateManifest records an explicit terms directory on the first spec entry
// so downstream tooling stops relying on the implicit default.
func (u *ConfigUpdater) updateManifest(projectDir string, dryRun bool, result *UpdateResult) error {
	doc, err := manifest.Load(manifest.Path(projectDir))
	if err != nil {
		return err
	}
	spec, err := doc.FirstSpec()
	if err != nil {
		return err
	}

	if _, ok := spec.Raw()["spec_terms_directory"]; ok {
		result.Messages = append(result.Messages, "manifest already declares a terms directory")
		return nil
	}

	spec.SetTermsDirectory(spec.TermsDirectory())
	result.ManifestChanged = true
	result.Messages = append(result.Messages, "declared terms directory in "+manifest.FileName)
	if dryRun {
		return nil
	}
	if err := doc.Save(); err != nil {
		return err
	}
	u.logger.Info("update.manifest.rewritten", "path", doc.Path())
	return nil
}
