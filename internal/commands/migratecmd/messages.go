package migratecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	detectMessageType  = "specup.migration.detect"
	migrateMessageType = "specup.migration.migrate"
)

// DetectCommand requests a read-only project detection run.
type DetectCommand struct {
	// ProjectDir selects the directory inspected for legacy project traits.
	ProjectDir string `json:"project_dir"`
}

// Type implements command.Message.
func (DetectCommand) Type() string { return detectMessageType }

// Validate ensures the project directory is present before handlers execute.
func (cmd DetectCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectDir, validation.Required, validation.By(requireNonBlank("specup.migration.detect.project_dir_required"))),
	)
}

// MigrateCommand triggers a complete migration run. Fields map directly onto
// interfaces.MigrateOptions.
type MigrateCommand struct {
	// ProjectDir selects the project root containing the legacy layout.
	ProjectDir string `json:"project_dir"`
	// DryRun toggles preview mode across every phase.
	DryRun bool `json:"dry_run,omitempty"`
	// ConfidenceThreshold gates the run on the detector score; 0 disables.
	ConfidenceThreshold int `json:"confidence_threshold,omitempty"`
	// TemplateBaseURL overrides the template download location.
	TemplateBaseURL string `json:"template_base_url,omitempty"`
	// SkipCleanup leaves obsolete legacy files in place.
	SkipCleanup bool `json:"skip_cleanup,omitempty"`
}

// Type implements command.Message.
func (MigrateCommand) Type() string { return migrateMessageType }

// Validate ensures required inputs are present and the threshold is a
// percentage.
func (cmd MigrateCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectDir, validation.Required, validation.By(requireNonBlank("specup.migration.migrate.project_dir_required"))),
		validation.Field(&cmd.ConfidenceThreshold, validation.Min(0), validation.Max(100)),
	)
}

func requireNonBlank(code string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, "project directory is required")
		}
		return nil
	}
}
