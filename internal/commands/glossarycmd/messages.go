package glossarycmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const splitMessageType = "specup.glossary.split"

// SplitGlossaryCommand triggers a glossary split for the project rooted at
// ProjectDir. Fields map directly onto interfaces.SplitOptions.
type SplitGlossaryCommand struct {
	// ProjectDir selects the project root containing the specs.json manifest.
	ProjectDir string `json:"project_dir"`
	// MarkerToken overrides the definition marker token when set.
	MarkerToken string `json:"marker_token,omitempty"`
	// DryRun toggles preview mode: planned actions are reported, nothing is
	// written.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (SplitGlossaryCommand) Type() string { return splitMessageType }

// Validate ensures the project directory is present before handlers execute.
func (cmd SplitGlossaryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ProjectDir, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("specup.glossary.split.project_dir_required", "project directory is required")
			}
			return nil
		})),
	)
}
