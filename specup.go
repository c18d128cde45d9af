// Package specup migrates legacy Spec-Up documentation projects to the
// Spec-Up-T layout. Its core is a glossary splitter that partitions one
// aggregated glossary document into per-term files plus an introduction file
// and rewrites the project manifest to match.
package specup

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/internal/glossary"
	"github.com/goliatone/go-specup/internal/logging/gologger"
	"github.com/goliatone/go-specup/internal/migration"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

// Module is the top level runtime facade wiring the splitter, detector, and
// migrator around a shared logger provider.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	splitter *glossary.Splitter
	detector *migration.Detector
	migrator *migration.Migrator
}

// New constructs a module from the provided configuration.
func New(cfg Config) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration")
	}

	provider := cfg.LoggerProvider
	if provider == nil && cfg.Logging.Enabled {
		built, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "configure logging")
		}
		provider = built
	}

	splitter := glossary.NewSplitter(provider)
	return &Module{
		cfg:      cfg,
		provider: provider,
		splitter: splitter,
		detector: migration.NewDetector(provider),
		migrator: migration.NewMigrator(provider, splitter, cfg.Migration.TemplateBaseURL),
	}, nil
}

// Splitter returns the configured glossary splitter.
func (m *Module) Splitter() interfaces.GlossarySplitter { return m.splitter }

// Detector returns the configured project detector.
func (m *Module) Detector() interfaces.Detector { return m.detector }

// Migrator returns the configured migration orchestrator.
func (m *Module) Migrator() interfaces.Migrator { return m.migrator }

// LoggerProvider returns the provider services were wired with. It is nil
// when logging is disabled.
func (m *Module) LoggerProvider() interfaces.LoggerProvider { return m.provider }

// Split runs a glossary split, applying configured defaults for options the
// caller leaves empty.
func (m *Module) Split(ctx context.Context, opts interfaces.SplitOptions) (*interfaces.SplitResult, error) {
	if opts.MarkerToken == "" {
		opts.MarkerToken = m.cfg.Glossary.MarkerToken
	}
	return m.splitter.Split(ctx, opts)
}

// Detect runs project detection.
func (m *Module) Detect(ctx context.Context, opts interfaces.DetectOptions) (*interfaces.DetectionResult, error) {
	return m.detector.Detect(ctx, opts)
}

// Migrate runs the complete migration sequence, applying the configured
// confidence threshold when the caller does not set one.
func (m *Module) Migrate(ctx context.Context, opts interfaces.MigrateOptions) (*interfaces.MigrationReport, error) {
	if opts.ConfidenceThreshold == 0 {
		opts.ConfidenceThreshold = m.cfg.Migration.ConfidenceThreshold
	}
	return m.migrator.Migrate(ctx, opts)
}
