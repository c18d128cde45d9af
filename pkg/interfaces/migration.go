package interfaces

import "context"

// DetectOptions configure project detection.
type DetectOptions struct {
	// ProjectDir is the directory inspected for legacy project traits.
	ProjectDir string
}

// DetectionCheck records one piece of evidence considered by the detector.
type DetectionCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Weight int    `json:"weight"`
	Detail string `json:"detail,omitempty"`
}

// DetectionResult summarises how confident the detector is that the inspected
// directory holds a legacy Spec-Up project.
type DetectionResult struct {
	// Confidence is a 0-100 percentage aggregated from the weighted checks.
	Confidence int `json:"confidence"`
	// Checks lists the individual findings in evaluation order.
	Checks []DetectionCheck `json:"checks"`
	// Title and Description are surfaced from the first source document's
	// frontmatter when present.
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Detector scores a directory's likelihood of being a migratable project.
// Detection never mutates the inspected directory.
type Detector interface {
	Detect(ctx context.Context, opts DetectOptions) (*DetectionResult, error)
}

// MigrateOptions configure a complete migration run.
type MigrateOptions struct {
	// ProjectDir is the project root. Defaults to the current directory.
	ProjectDir string
	// DryRun reports every planned action without mutating the filesystem.
	DryRun bool
	// ConfidenceThreshold gates the migration on the detector score
	// (0 disables the gate).
	ConfidenceThreshold int
	// TemplateBaseURL overrides where configuration templates are fetched
	// from. Empty selects the built-in default.
	TemplateBaseURL string
	// SkipCleanup leaves obsolete legacy files in place.
	SkipCleanup bool
}

// PhaseOutcome captures the result of one migration phase.
type PhaseOutcome struct {
	Phase     string   `json:"phase"`
	Completed bool     `json:"completed"`
	Messages  []string `json:"messages,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// MigrationReport aggregates the outcome of a complete migration run. Like
// SplitResult it is populated even on failure so completed phases remain
// visible to the caller.
type MigrationReport struct {
	RunID   string         `json:"run_id"`
	Success bool           `json:"success"`
	Phases  []PhaseOutcome `json:"phases"`
	// Split holds the glossary split outcome when that phase ran.
	Split *SplitResult `json:"split,omitempty"`
}

// Migrator drives the full migration sequence: detect, backup, fetch
// templates, update configuration, split the glossary, clean up.
type Migrator interface {
	Migrate(ctx context.Context, opts MigrateOptions) (*MigrationReport, error)
}
