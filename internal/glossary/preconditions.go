package glossary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/internal/manifest"
)

const (
	codeSourceMissing   = "SPECUP_SOURCE_MISSING"
	codeUnsafeOutputDir = "SPECUP_UNSAFE_OUTPUT_DIR"
)

// CheckManifestExists verifies the project manifest is present before any
// other work starts. Missing manifests are a configuration problem, not an
// I/O failure.
func CheckManifestExists(projectDir string) error {
	path := manifest.Path(projectDir)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return goerrors.New("project manifest not found", goerrors.CategoryValidation).
				WithTextCode(manifest.CodeManifestMissing).
				WithMetadata(map[string]any{"path": path})
		}
		return goerrors.Wrap(err, goerrors.CategoryExternal, "stat project manifest").
			WithMetadata(map[string]any{"path": path})
	}
	return nil
}

// CheckSourceExists verifies the glossary source document is present.
func CheckSourceExists(sourcePath string) error {
	if _, err := os.Stat(sourcePath); err != nil {
		if os.IsNotExist(err) {
			return goerrors.New("glossary source document not found", goerrors.CategoryNotFound).
				WithTextCode(codeSourceMissing).
				WithMetadata(map[string]any{"path": sourcePath})
		}
		return goerrors.Wrap(err, goerrors.CategoryExternal, "stat glossary source document").
			WithMetadata(map[string]any{"path": sourcePath})
	}
	return nil
}

// CheckOutputDirSafe verifies the terms output directory holds no markdown
// files yet. Splitting into a populated directory would silently mix old and
// new term files, so the run refuses instead. A missing directory is safe:
// it is created during the split.
func CheckOutputDirSafe(outputDir string) error {
	info, err := os.Stat(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryExternal, "stat terms output directory").
			WithMetadata(map[string]any{"path": outputDir})
	}
	if !info.IsDir() {
		return goerrors.New("terms output path exists and is not a directory", goerrors.CategoryConflict).
			WithTextCode(codeUnsafeOutputDir).
			WithMetadata(map[string]any{"path": outputDir})
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "scan terms output directory").
			WithMetadata(map[string]any{"path": outputDir})
	}

	var markdownFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			markdownFiles = append(markdownFiles, entry.Name())
		}
	}
	if len(markdownFiles) > 0 {
		return goerrors.New(
			fmt.Sprintf("terms output directory already contains %d markdown file(s)", len(markdownFiles)),
			goerrors.CategoryConflict,
		).
			WithTextCode(codeUnsafeOutputDir).
			WithMetadata(map[string]any{"path": outputDir, "markdown_files": markdownFiles})
	}
	return nil
}

// CheckPreconditions runs every pre-mutation check in order and collects all
// failures so the caller can report them together. The cheap existence checks
// run first; the directory scan only runs when both paths are present.
func CheckPreconditions(projectDir, sourcePath, outputDir string) []error {
	var failures []error
	if err := CheckManifestExists(projectDir); err != nil {
		failures = append(failures, err)
	}
	if err := CheckSourceExists(sourcePath); err != nil {
		failures = append(failures, err)
	}
	if len(failures) > 0 {
		return failures
	}
	if err := CheckOutputDirSafe(outputDir); err != nil {
		failures = append(failures, err)
	}
	return failures
}
