package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

// obsoleteFiles are legacy build artifacts the new layout has no use for.
var obsoleteFiles = []string{
	"gulpfile.js",
}

// obsoleteDirs are legacy output directories removed wholesale.
var obsoleteDirs = []string{
	filepath.Join("assets", "compiled"),
}

// CleanResult lists the legacy files a cleanup pass removed or, in dry-run
// mode, would remove.
type CleanResult struct {
	Removed []string `json:"removed"`
}

// Cleaner deletes obsolete legacy files after a successful migration.
type Cleaner struct {
	logger interfaces.Logger
}

// NewCleaner creates a cleaner using the given logger provider.
func NewCleaner(provider interfaces.LoggerProvider) *Cleaner {
	return &Cleaner{logger: logging.MigrationLogger(provider)}
}

// Run removes the known obsolete files and directories that exist under the
// project root. Absent entries are skipped silently; in dry-run mode the
// removals are reported without deleting anything.
func (c *Cleaner) Run(ctx context.Context, projectDir string, dryRun bool) (*CleanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &CleanResult{}

	for _, name := range obsoleteFiles {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if !dryRun {
			if err := os.Remove(path); err != nil {
				return result, goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("remove %s", name)).
					WithMetadata(map[string]any{"path": path})
			}
		}
		result.Removed = append(result.Removed, name)
	}

	for _, name := range obsoleteDirs {
		path := filepath.Join(projectDir, name)
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			continue
		}
		if !dryRun {
			if err := os.RemoveAll(path); err != nil {
				return result, goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("remove %s", name)).
					WithMetadata(map[string]any{"path": path})
			}
		}
		result.Removed = append(result.Removed, name)
	}

	if len(result.Removed) > 0 {
		c.logger.Info("cleanup.completed", "removed", len(result.Removed), "dry_run", dryRun)
	}
	return result, nil
}
