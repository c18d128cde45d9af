package migration

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/internal/manifest"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

const backupDirPrefix = "migration-backup-"

// backupCandidates are the migration-affected files preserved before any
// configuration rewrite. Only the ones that exist are copied.
var backupCandidates = []string{
	manifest.FileName,
	"package.json",
	"index.js",
	"gulpfile.js",
	".env",
}

// BackupResult reports which files a backup run preserved.
type BackupResult struct {
	// Dir is the backup directory, relative to the project root.
	Dir string `json:"dir"`
	// Copied lists the preserved files (or the planned copies in dry-run).
	Copied []string `json:"copied"`
}

// Backup copies migration-affected project files into a timestamped
// directory before any update touches them.
type Backup struct {
	logger interfaces.Logger
	now    func() time.Time
}

// NewBackup creates a backup step using the given logger provider.
func NewBackup(provider interfaces.LoggerProvider) *Backup {
	return &Backup{
		logger: logging.MigrationLogger(provider),
		now:    time.Now,
	}
}

// Run preserves the migration-affected files under a fresh timestamped
// directory. In dry-run mode it reports the copies a real run would make
// without creating anything.
func (b *Backup) Run(ctx context.Context, projectDir string, dryRun bool) (*BackupResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stamp := b.now().UTC().Format("20060102T150405Z")
	result := &BackupResult{Dir: backupDirPrefix + stamp}

	for _, name := range backupCandidates {
		if _, err := os.Stat(filepath.Join(projectDir, name)); err == nil {
			result.Copied = append(result.Copied, name)
		}
	}

	if dryRun {
		return result, nil
	}

	target := filepath.Join(projectDir, result.Dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "create backup directory").
			WithMetadata(map[string]any{"path": target})
	}
	for _, name := range result.Copied {
		src := filepath.Join(projectDir, name)
		dst := filepath.Join(target, name)
		if err := copyFileContents(src, dst); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("back up %s", name)).
				WithMetadata(map[string]any{"source": src, "target": dst})
		}
	}

	b.logger.Info("backup.completed", "dir", result.Dir, "files", len(result.Copied))
	return result, nil
}

func copyFileContents(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
