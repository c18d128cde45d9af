package manifest

import (
	"context"
	"io"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

// Updater rewrites the project manifest after a glossary split. All writes go
// through the pre-split backup so repeated runs always start from the
// known-good state.
type Updater struct {
	projectDir string
	logger     interfaces.Logger
}

// NewUpdater creates an updater rooted at the given project directory.
func NewUpdater(projectDir string, logger interfaces.Logger) *Updater {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Updater{
		projectDir: projectDir,
		logger:     logger,
	}
}

// RemovalResult reports the outcome of a source-document removal.
type RemovalResult struct {
	// BackupCreated is true when this call created the manifest backup.
	BackupCreated bool
	// Removed is true when an entry was (or, in dry-run, would be) removed.
	Removed bool
	// MatchedEntry holds the manifest entry that matched the source document.
	MatchedEntry string
	// RemainingPaths is the source-document list after removal, in order.
	RemainingPaths []string
}

// EnsureBackup copies the current manifest to the fixed backup name unless a
// backup already exists. The backup is the pre-migration source of truth and
// is never overwritten. It reports whether this call created the backup.
func (u *Updater) EnsureBackup() (bool, error) {
	src := Path(u.projectDir)
	dst := BackupPath(u.projectDir)

	if _, err := os.Stat(dst); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, goerrors.Wrap(err, goerrors.CategoryExternal, "stat manifest backup").
			WithMetadata(map[string]any{"path": dst})
	}

	if err := copyFile(src, dst); err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryExternal, "create manifest backup").
			WithMetadata(map[string]any{"source": src, "backup": dst})
	}
	u.logger.Info("manifest.backup.created", "backup", dst)
	return true, nil
}

// RemoveSourceDocument removes the entry matching sourceDoc from the first
// spec's source-document list and persists the manifest. The rewrite starts
// from the backup copy, so partial edits from earlier runs cannot leak into
// the result. An entry is matched by exact relative path, plain filename, or
// path basename. A missing entry is not an error: nothing needs to change.
//
// In dry-run mode the lookup and diff run against the current on-disk state
// and neither the manifest nor the backup is written.
func (u *Updater) RemoveSourceDocument(ctx context.Context, sourceDoc string, dryRun bool) (*RemovalResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result := &RemovalResult{}

	if dryRun {
		doc, err := Load(Path(u.projectDir))
		if err != nil {
			return nil, err
		}
		return u.removeFromDocument(doc, sourceDoc, result, false)
	}

	created, err := u.EnsureBackup()
	if err != nil {
		return nil, err
	}
	result.BackupCreated = created

	// Restore working state from the pre-split backup before modifying.
	doc, err := Load(BackupPath(u.projectDir))
	if err != nil {
		return nil, err
	}

	return u.removeFromDocument(doc, sourceDoc, result, true)
}

func (u *Updater) removeFromDocument(doc *Document, sourceDoc string, result *RemovalResult, persist bool) (*RemovalResult, error) {
	spec, err := doc.FirstSpec()
	if err != nil {
		return nil, err
	}

	paths := spec.MarkdownPaths()
	remaining := make([]string, 0, len(paths))
	for _, entry := range paths {
		if result.MatchedEntry == "" && matchesSourceDocument(entry, sourceDoc) {
			result.MatchedEntry = entry
			result.Removed = true
			continue
		}
		remaining = append(remaining, entry)
	}
	result.RemainingPaths = remaining

	if !result.Removed {
		u.logger.Info("manifest.update.noop", "source", sourceDoc)
		if persist {
			// Still persist: the manifest must equal the backup-derived state.
			if err := doc.SaveTo(Path(u.projectDir)); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	spec.SetMarkdownPaths(remaining)

	if persist {
		if err := doc.SaveTo(Path(u.projectDir)); err != nil {
			return nil, err
		}
		u.logger.Info("manifest.update.removed", "entry", result.MatchedEntry, "remaining", len(remaining))
	}
	return result, nil
}

// matchesSourceDocument reports whether a manifest entry identifies the
// source document: exact relative path, plain filename, or basename match.
func matchesSourceDocument(entry, sourceDoc string) bool {
	if entry == sourceDoc {
		return true
	}
	base := filepath.Base(sourceDoc)
	if entry == base {
		return true
	}
	return filepath.Base(entry) == base
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// O_EXCL keeps backup creation idempotent even across racing callers.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
