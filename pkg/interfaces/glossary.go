package interfaces

import "context"

// DefaultMarkerToken is the literal opening sequence identifying a term
// definition inside a glossary document.
const DefaultMarkerToken = "[[def:"

// SplitOptions configure a single glossary split run.
type SplitOptions struct {
	// ProjectDir is the project root containing the specs.json manifest.
	// Defaults to the current directory when empty.
	ProjectDir string
	// MarkerToken overrides the definition marker token. Defaults to
	// DefaultMarkerToken when empty.
	MarkerToken string
	// DryRun performs every read-only analysis step while guaranteeing zero
	// filesystem mutation. Planned actions are still reported.
	DryRun bool
}

// SplitResult reports the outcome of a glossary split run. The result is
// populated even when the run fails so partial progress stays visible:
// CreatedFiles always lists exactly the files written (or planned, in dry-run
// mode) before the point of failure.
type SplitResult struct {
	// RunID correlates log entries and reports for one invocation.
	RunID string `json:"run_id"`
	// Success is true when the run reached its terminal success state.
	Success bool `json:"success"`
	// TermCount is the number of term files written or planned.
	TermCount int `json:"term_count"`
	// CreatedFiles lists paths written during the run, in write order. In
	// dry-run mode it lists the paths a real run would write.
	CreatedFiles []string `json:"created_files"`
	// BackupCreated reports whether this run created the manifest backup.
	BackupCreated bool `json:"backup_created"`
	// ManifestUpdated reports whether the manifest was (or would be) changed.
	ManifestUpdated bool `json:"manifest_updated"`
	// Messages holds ordered human-readable status lines suitable for
	// direct display.
	Messages []string `json:"messages"`
}

// GlossarySplitter partitions an aggregated glossary document into one file
// per term plus an introduction file, and updates the project manifest.
type GlossarySplitter interface {
	Split(ctx context.Context, opts SplitOptions) (*SplitResult, error)
}
