package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/internal/manifest"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

// Detection evidence weights. They sum to 100 so the aggregated confidence
// reads directly as a percentage.
const (
	weightManifest   = 40
	weightPackage    = 30
	weightSources    = 20
	weightEntryFiles = 10
)

// Detector scores how likely a directory is to hold a legacy project that
// this tool can migrate. Detection is strictly read-only.
type Detector struct {
	logger interfaces.Logger
}

var _ interfaces.Detector = (*Detector)(nil)

// NewDetector creates a detector using the given logger provider. A nil
// provider disables logging.
func NewDetector(provider interfaces.LoggerProvider) *Detector {
	return &Detector{logger: logging.MigrationLogger(provider)}
}

// Detect inspects the project directory and returns weighted evidence plus
// an aggregate confidence percentage. A missing directory is an error; all
// other negative findings simply lower the confidence.
func (d *Detector) Detect(ctx context.Context, opts interfaces.DetectOptions) (*interfaces.DetectionResult, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(projectDir)
	if err != nil || !info.IsDir() {
		return nil, goerrors.New("project directory not found", goerrors.CategoryNotFound).
			WithMetadata(map[string]any{"path": projectDir})
	}

	result := &interfaces.DetectionResult{}

	doc := d.checkManifest(projectDir, result)
	d.checkPackage(projectDir, result)
	d.checkSources(projectDir, doc, result)
	d.checkEntryFiles(projectDir, result)

	for _, check := range result.Checks {
		if check.Passed {
			result.Confidence += check.Weight
		}
	}

	d.surfaceFrontmatter(projectDir, doc, result)

	d.logger.Info("detect.completed",
		"path", projectDir,
		"confidence", result.Confidence,
	)
	return result, nil
}

// checkManifest validates specs.json and returns the parsed document for the
// downstream checks when it loads cleanly.
func (d *Detector) checkManifest(projectDir string, result *interfaces.DetectionResult) *manifest.Document {
	doc, err := manifest.Load(manifest.Path(projectDir))
	check := interfaces.DetectionCheck{
		Name:   "manifest",
		Weight: weightManifest,
	}
	if err != nil {
		check.Detail = err.Error()
	} else {
		check.Passed = true
		check.Detail = fmt.Sprintf("valid %s", manifest.FileName)
	}
	result.Checks = append(result.Checks, check)
	if err != nil {
		return nil
	}
	return doc
}

// checkPackage looks for legacy fingerprints in package.json: a spec-up
// dependency or scripts that invoke it.
func (d *Detector) checkPackage(projectDir string, result *interfaces.DetectionResult) {
	check := interfaces.DetectionCheck{
		Name:   "package",
		Weight: weightPackage,
	}
	defer func() { result.Checks = append(result.Checks, check) }()

	data, err := os.ReadFile(filepath.Join(projectDir, "package.json"))
	if err != nil {
		check.Detail = "package.json not found"
		return
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		check.Detail = "package.json is not valid JSON"
		return
	}

	if deps, ok := pkg["dependencies"].(map[string]any); ok {
		if _, found := deps["spec-up"]; found {
			check.Passed = true
			check.Detail = "depends on spec-up"
			return
		}
	}
	if scripts, ok := pkg["scripts"].(map[string]any); ok {
		for name, value := range scripts {
			script, _ := value.(string)
			if strings.Contains(script, "spec-up") && !strings.Contains(script, "spec-up-t") {
				check.Passed = true
				check.Detail = fmt.Sprintf("script %q invokes spec-up", name)
				return
			}
		}
	}
	check.Detail = "no spec-up fingerprints in package.json"
}

// checkSources verifies the spec directory holds the markdown documents the
// manifest points at.
func (d *Detector) checkSources(projectDir string, doc *manifest.Document, result *interfaces.DetectionResult) {
	check := interfaces.DetectionCheck{
		Name:   "source-documents",
		Weight: weightSources,
	}
	defer func() { result.Checks = append(result.Checks, check) }()

	if doc == nil {
		check.Detail = "no manifest to resolve source documents"
		return
	}
	spec, err := doc.FirstSpec()
	if err != nil {
		check.Detail = err.Error()
		return
	}

	present := 0
	paths := spec.MarkdownPaths()
	for _, rel := range paths {
		if _, err := os.Stat(filepath.Join(projectDir, spec.Directory(), rel)); err == nil {
			present++
		}
	}
	if present > 0 {
		check.Passed = true
	}
	check.Detail = fmt.Sprintf("%d of %d listed source documents present", present, len(paths))
}

func (d *Detector) checkEntryFiles(projectDir string, result *interfaces.DetectionResult) {
	check := interfaces.DetectionCheck{
		Name:   "entry-files",
		Weight: weightEntryFiles,
	}
	var found []string
	for _, name := range []string{"index.js", "gulpfile.js"} {
		if _, err := os.Stat(filepath.Join(projectDir, name)); err == nil {
			found = append(found, name)
		}
	}
	if len(found) > 0 {
		check.Passed = true
		check.Detail = strings.Join(found, ", ")
	} else {
		check.Detail = "no legacy entry files"
	}
	result.Checks = append(result.Checks, check)
}

// surfaceFrontmatter reads the first source document's YAML frontmatter to
// enrich the report with a human-readable title and description. Documents
// without frontmatter are common and not an error.
func (d *Detector) surfaceFrontmatter(projectDir string, doc *manifest.Document, result *interfaces.DetectionResult) {
	if doc == nil {
		return
	}
	spec, err := doc.FirstSpec()
	if err != nil {
		return
	}
	paths := spec.MarkdownPaths()
	if len(paths) == 0 {
		return
	}

	data, err := os.ReadFile(filepath.Join(projectDir, spec.Directory(), paths[0]))
	if err != nil {
		return
	}
	var meta struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	}
	if _, err := frontmatter.Parse(bytes.NewReader(data), &meta); err != nil {
		return
	}
	result.Title = meta.Title
	result.Description = meta.Description
}
