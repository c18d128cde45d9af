package glossary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/internal/manifest"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

// IntroFileName is the fixed name of the introduction file written alongside
// the source document. The name flags the file as tool-generated so authors
// know where the pre-split preamble went.
const IntroFileName = "glossary-intro-created-by-split-tool.md"

const codeNoSourceDocs = "SPECUP_NO_SOURCE_DOCUMENTS"

// Splitter partitions an aggregated glossary document into one file per term
// plus an introduction file, then removes the source document from the
// project manifest. It implements interfaces.GlossarySplitter.
type Splitter struct {
	logger         interfaces.Logger
	manifestLogger interfaces.Logger
}

var _ interfaces.GlossarySplitter = (*Splitter)(nil)

// NewSplitter creates a splitter using the given logger provider. A nil
// provider is valid and disables logging.
func NewSplitter(provider interfaces.LoggerProvider) *Splitter {
	return &Splitter{
		logger:         logging.GlossaryLogger(provider),
		manifestLogger: logging.ManifestLogger(provider),
	}
}

// Split runs one glossary split. The returned result is populated even on
// failure so callers can report partial progress; the error describes the
// first condition that stopped the run.
//
// In dry-run mode every analysis step runs against the real project state,
// but nothing on disk changes: reported files and manifest changes are the
// ones a real run would make.
func (s *Splitter) Split(ctx context.Context, opts interfaces.SplitOptions) (*interfaces.SplitResult, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	token := opts.MarkerToken
	if token == "" {
		token = DefaultMarkerToken
	}

	result := &interfaces.SplitResult{
		RunID:        uuid.NewString(),
		CreatedFiles: []string{},
		Messages:     []string{},
	}
	logger := logging.WithRunContext(s.logger, "", "split", result.RunID)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Resolve paths from the manifest before touching anything else.
	if err := CheckManifestExists(projectDir); err != nil {
		return s.fail(logger, result, err)
	}
	doc, err := manifest.Load(manifest.Path(projectDir))
	if err != nil {
		return s.fail(logger, result, err)
	}
	spec, err := doc.FirstSpec()
	if err != nil {
		return s.fail(logger, result, err)
	}
	sources := spec.MarkdownPaths()
	if len(sources) == 0 {
		err := goerrors.New("project manifest lists no source documents", goerrors.CategoryValidation).
			WithTextCode(codeNoSourceDocs).
			WithMetadata(map[string]any{"path": manifest.Path(projectDir)})
		return s.fail(logger, result, err)
	}

	sourceRel := sources[0]
	specDir := filepath.Join(projectDir, spec.Directory())
	sourcePath := filepath.Join(specDir, sourceRel)
	outputDir := filepath.Join(specDir, spec.TermsDirectory())
	logger = logging.WithRunContext(logger, sourcePath, "", "")

	// Every remaining precondition runs before the first mutation so a failed
	// run leaves the project untouched.
	if failures := CheckPreconditions(projectDir, sourcePath, outputDir); len(failures) > 0 {
		for _, failure := range failures {
			result.Messages = append(result.Messages, failure.Error())
			logger.Error("split.precondition.failed", "error", failure)
		}
		return result, failures[0]
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return s.fail(logger, result, goerrors.Wrap(err, goerrors.CategoryExternal, "read glossary source document").
			WithMetadata(map[string]any{"path": sourcePath}))
	}
	content := string(data)

	normalized := Normalize(content, token)
	if normalized != content {
		if !opts.DryRun {
			if err := NormalizeFile(sourcePath, token); err != nil {
				return s.fail(logger, result, err)
			}
		}
		result.Messages = append(result.Messages, s.phrase(opts.DryRun, "normalized source document", "would normalize source document"))
		logger.Info("split.source.normalized", "path", sourcePath, "dry_run", opts.DryRun)
	}

	parsed, err := Parse(normalized, token)
	if err != nil {
		return s.fail(logger, result, err)
	}
	if len(parsed.Definitions) == 0 {
		// A markerless document is legal: the whole text becomes the
		// introduction and no term files are produced.
		result.Messages = append(result.Messages, "no term definitions found in source document")
		logger.Warn("split.no_definitions", "path", sourcePath, "marker_token", token)
	}

	if !opts.DryRun {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return s.fail(logger, result, goerrors.Wrap(err, goerrors.CategoryExternal, "create terms output directory").
				WithMetadata(map[string]any{"path": outputDir}))
		}
	}

	// Introduction first: everything before the first marker stays with the
	// spec directory, not with any single term.
	introPath := filepath.Join(specDir, IntroFileName)
	if !opts.DryRun {
		if err := os.WriteFile(introPath, []byte(parsed.Introduction), 0o644); err != nil {
			return s.fail(logger, result, goerrors.Wrap(err, goerrors.CategoryExternal, "write introduction file").
				WithMetadata(map[string]any{"path": introPath}))
		}
	}
	result.CreatedFiles = append(result.CreatedFiles, relativeTo(projectDir, introPath))

	written := map[string]bool{}
	for i, def := range parsed.Definitions {
		name := DeriveFilename(def.Header)
		if name == "" {
			result.Messages = append(result.Messages, fmt.Sprintf("skipping definition %d: empty header", i+1))
			logger.Warn("split.term.skipped", "index", i+1)
			continue
		}

		final := name
		for n := 2; written[final]; n++ {
			final = fmt.Sprintf("%s-%d", name, n)
		}
		if final != name {
			result.Messages = append(result.Messages,
				fmt.Sprintf("term file %s.md already planned, writing %s.md instead", name, final))
			logger.Warn("split.term.renamed", "term", def.Header, "file", final+".md")
		}
		written[final] = true

		termPath := filepath.Join(outputDir, final+".md")
		if !opts.DryRun {
			if err := os.WriteFile(termPath, []byte(def.Content), 0o644); err != nil {
				return s.fail(logger, result, goerrors.Wrap(err, goerrors.CategoryExternal, "write term file").
					WithMetadata(map[string]any{"path": termPath, "term": def.Header}))
			}
		}
		result.CreatedFiles = append(result.CreatedFiles, relativeTo(projectDir, termPath))
		result.TermCount++
	}

	updater := manifest.NewUpdater(projectDir, s.manifestLogger)
	removal, err := updater.RemoveSourceDocument(ctx, sourceRel, opts.DryRun)
	if err != nil {
		return s.fail(logger, result, err)
	}
	result.BackupCreated = removal.BackupCreated
	result.ManifestUpdated = removal.Removed

	result.Messages = append(result.Messages,
		fmt.Sprintf("%s %d term file(s) in %s", s.phrase(opts.DryRun, "created", "would create"), result.TermCount, relativeTo(projectDir, outputDir)),
		fmt.Sprintf("%s introduction file %s", s.phrase(opts.DryRun, "created", "would create"), relativeTo(projectDir, introPath)),
	)
	if removal.Removed {
		result.Messages = append(result.Messages,
			fmt.Sprintf("%s %q from %s (backup: %s)", s.phrase(opts.DryRun, "removed", "would remove"), removal.MatchedEntry, manifest.FileName, manifest.BackupFileName))
	} else {
		result.Messages = append(result.Messages,
			fmt.Sprintf("%s already lists no entry for %q", manifest.FileName, sourceRel))
	}

	result.Success = true
	logger.Info("split.completed",
		"terms", result.TermCount,
		"manifest_updated", result.ManifestUpdated,
		"dry_run", opts.DryRun,
	)
	return result, nil
}

func (s *Splitter) fail(logger interfaces.Logger, result *interfaces.SplitResult, err error) (*interfaces.SplitResult, error) {
	result.Messages = append(result.Messages, err.Error())
	logger.Error("split.failed", "error", err)
	return result, err
}

func (s *Splitter) phrase(dryRun bool, did, would string) string {
	if dryRun {
		return would
	}
	return did
}

// relativeTo reports path relative to the project root for display, falling
// back to the raw path when it cannot be made relative.
func relativeTo(projectDir, path string) string {
	rel, err := filepath.Rel(projectDir, path)
	if err != nil {
		return path
	}
	return rel
}
