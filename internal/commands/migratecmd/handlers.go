package migratecmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-specup/internal/commands"
	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

const (
	detectOperation  = "migration.detect"
	migrateOperation = "migration.migrate"
)

var (
	_ command.Commander[DetectCommand]  = (*DetectHandler)(nil)
	_ command.Commander[MigrateCommand] = (*MigrateHandler)(nil)
)

// DetectionSink receives the detection result when the run finishes.
type DetectionSink func(*interfaces.DetectionResult)

// ReportSink receives the migration report once the run finishes, on failure
// too, since completed phases stay on the report.
type ReportSink func(*interfaces.MigrationReport)

// DetectHandler runs project detection via the shared command handler
// foundation.
type DetectHandler struct {
	inner *commands.Handler[DetectCommand]
}

// NewDetectHandler creates a handler bound to the supplied detector. sink may
// be nil when the caller does not need the structured result.
func NewDetectHandler(detector interfaces.Detector, logger interfaces.Logger, sink DetectionSink, opts ...commands.HandlerOption[DetectCommand]) *DetectHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DetectCommand) error {
		result, err := detector.Detect(ctx, interfaces.DetectOptions{ProjectDir: msg.ProjectDir})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(result)
		}

		logging.WithFields(baseLogger, map[string]any{
			"confidence": result.Confidence,
			"checks":     len(result.Checks),
		}).Info("migration.command.detect.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[DetectCommand]{
		commands.WithLogger[DetectCommand](baseLogger),
		commands.WithOperation[DetectCommand](detectOperation),
		commands.WithMessageFields(func(msg DetectCommand) map[string]any {
			return map[string]any{"project_dir": msg.ProjectDir}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DetectCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DetectHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DetectCommand].
func (h *DetectHandler) Execute(ctx context.Context, msg DetectCommand) error {
	return h.inner.Execute(ctx, msg)
}

// MigrateHandler runs complete migrations via the shared command handler
// foundation.
type MigrateHandler struct {
	inner *commands.Handler[MigrateCommand]
}

// NewMigrateHandler creates a handler bound to the supplied migrator. sink
// may be nil when the caller does not need the report.
func NewMigrateHandler(migrator interfaces.Migrator, logger interfaces.Logger, sink ReportSink, opts ...commands.HandlerOption[MigrateCommand]) *MigrateHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg MigrateCommand) error {
		report, err := migrator.Migrate(ctx, interfaces.MigrateOptions{
			ProjectDir:          msg.ProjectDir,
			DryRun:              msg.DryRun,
			ConfidenceThreshold: msg.ConfidenceThreshold,
			TemplateBaseURL:     msg.TemplateBaseURL,
			SkipCleanup:         msg.SkipCleanup,
		})
		if sink != nil && report != nil {
			sink(report)
		}
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"phases":  len(report.Phases),
			"dry_run": msg.DryRun,
		}).Info("migration.command.migrate.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[MigrateCommand]{
		commands.WithLogger[MigrateCommand](baseLogger),
		commands.WithOperation[MigrateCommand](migrateOperation),
		commands.WithMessageFields(func(msg MigrateCommand) map[string]any {
			fields := map[string]any{
				"project_dir": msg.ProjectDir,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.ConfidenceThreshold > 0 {
				fields["confidence_threshold"] = msg.ConfidenceThreshold
			}
			if msg.SkipCleanup {
				fields["skip_cleanup"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[MigrateCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MigrateHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[MigrateCommand].
func (h *MigrateHandler) Execute(ctx context.Context, msg MigrateCommand) error {
	return h.inner.Execute(ctx, msg)
}
