package glossarycmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-specup/internal/commands"
	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

const splitOperation = "glossary.split"

var _ command.Commander[SplitGlossaryCommand] = (*SplitGlossaryHandler)(nil)

// ResultSink receives the split outcome once the run finishes. It is invoked
// on failure too, since partial progress stays on the result.
type ResultSink func(*interfaces.SplitResult)

// SplitGlossaryHandler orchestrates glossary splits via the shared command
// handler foundation.
type SplitGlossaryHandler struct {
	inner *commands.Handler[SplitGlossaryCommand]
}

// NewSplitGlossaryHandler creates a handler bound to the supplied splitter.
// sink may be nil when the caller does not need the structured result.
func NewSplitGlossaryHandler(splitter interfaces.GlossarySplitter, logger interfaces.Logger, sink ResultSink, opts ...commands.HandlerOption[SplitGlossaryCommand]) *SplitGlossaryHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SplitGlossaryCommand) error {
		result, err := splitter.Split(ctx, interfaces.SplitOptions{
			ProjectDir:  msg.ProjectDir,
			MarkerToken: msg.MarkerToken,
			DryRun:      msg.DryRun,
		})
		if sink != nil && result != nil {
			sink(result)
		}
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"term_count":       result.TermCount,
			"created_count":    len(result.CreatedFiles),
			"manifest_updated": result.ManifestUpdated,
			"backup_created":   result.BackupCreated,
			"dry_run":          msg.DryRun,
		}).Info("glossary.command.split.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SplitGlossaryCommand]{
		commands.WithLogger[SplitGlossaryCommand](baseLogger),
		commands.WithOperation[SplitGlossaryCommand](splitOperation),
		commands.WithMessageFields(func(msg SplitGlossaryCommand) map[string]any {
			fields := map[string]any{
				"project_dir": msg.ProjectDir,
			}
			if msg.MarkerToken != "" {
				fields["marker_token"] = msg.MarkerToken
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SplitGlossaryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SplitGlossaryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SplitGlossaryCommand].
func (h *SplitGlossaryHandler) Execute(ctx context.Context, msg SplitGlossaryCommand) error {
	return h.inner.Execute(ctx, msg)
}
