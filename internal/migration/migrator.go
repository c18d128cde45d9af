package migration

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

// Migration phase names, in execution order.
const (
	PhaseDetect  = "detect"
	PhaseBackup  = "backup"
	PhaseFetch   = "fetch-templates"
	PhaseUpdate  = "update-config"
	PhaseSplit   = "split-glossary"
	PhaseCleanup = "cleanup"
)

const codeLowConfidence = "SPECUP_LOW_CONFIDENCE"

// Migrator drives the complete migration sequence. Each phase runs to
// completion before the next starts; the first failure stops the run and the
// report keeps the phases that already finished.
type Migrator struct {
	detector *Detector
	backup   *Backup
	fetcher  *Fetcher
	updater  *ConfigUpdater
	cleaner  *Cleaner
	splitter interfaces.GlossarySplitter
	logger   interfaces.Logger
	provider interfaces.LoggerProvider
}

var _ interfaces.Migrator = (*Migrator)(nil)

// NewMigrator wires the migration phases around the given glossary splitter.
// templateBaseURL may be empty to use the upstream default.
func NewMigrator(provider interfaces.LoggerProvider, splitter interfaces.GlossarySplitter, templateBaseURL string) *Migrator {
	return &Migrator{
		detector: NewDetector(provider),
		backup:   NewBackup(provider),
		fetcher:  NewFetcher(templateBaseURL, provider),
		updater:  NewConfigUpdater(provider),
		cleaner:  NewCleaner(provider),
		splitter: splitter,
		logger:   logging.MigrationLogger(provider),
		provider: provider,
	}
}

// Migrate runs detect, backup, fetch, update, split, and cleanup against the
// project. The returned report is populated even on failure so completed
// phases stay visible.
func (m *Migrator) Migrate(ctx context.Context, opts interfaces.MigrateOptions) (*interfaces.MigrationReport, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	fetcher := m.fetcher
	if opts.TemplateBaseURL != "" {
		fetcher = NewFetcher(opts.TemplateBaseURL, m.provider)
	}

	report := &interfaces.MigrationReport{RunID: uuid.NewString()}
	logger := logging.WithRunContext(m.logger, "", "migrate", report.RunID)

	detection, err := m.detector.Detect(ctx, interfaces.DetectOptions{ProjectDir: projectDir})
	if err != nil {
		return m.failPhase(logger, report, PhaseDetect, err)
	}
	if opts.ConfidenceThreshold > 0 && detection.Confidence < opts.ConfidenceThreshold {
		err := goerrors.New(
			fmt.Sprintf("detection confidence %d%% is below the %d%% threshold", detection.Confidence, opts.ConfidenceThreshold),
			goerrors.CategoryValidation,
		).
			WithTextCode(codeLowConfidence).
			WithMetadata(map[string]any{"confidence": detection.Confidence, "threshold": opts.ConfidenceThreshold})
		return m.failPhase(logger, report, PhaseDetect, err)
	}
	report.Phases = append(report.Phases, interfaces.PhaseOutcome{
		Phase:     PhaseDetect,
		Completed: true,
		Messages:  []string{fmt.Sprintf("confidence %d%%", detection.Confidence)},
	})

	backupResult, err := m.backup.Run(ctx, projectDir, opts.DryRun)
	if err != nil {
		return m.failPhase(logger, report, PhaseBackup, err)
	}
	report.Phases = append(report.Phases, interfaces.PhaseOutcome{
		Phase:     PhaseBackup,
		Completed: true,
		Messages:  []string{fmt.Sprintf("%d file(s) preserved in %s", len(backupResult.Copied), backupResult.Dir)},
	})

	fetchResult, err := fetcher.FetchTemplates(ctx, projectDir, opts.DryRun)
	if err != nil {
		return m.failPhase(logger, report, PhaseFetch, err)
	}
	report.Phases = append(report.Phases, interfaces.PhaseOutcome{
		Phase:     PhaseFetch,
		Completed: true,
		Messages:  describeFetch(fetchResult),
	})

	updateResult, err := m.updater.Update(ctx, projectDir, opts.DryRun)
	if err != nil {
		return m.failPhase(logger, report, PhaseUpdate, err)
	}
	report.Phases = append(report.Phases, interfaces.PhaseOutcome{
		Phase:     PhaseUpdate,
		Completed: true,
		Messages:  updateResult.Messages,
	})

	splitResult, err := m.splitter.Split(ctx, interfaces.SplitOptions{
		ProjectDir: projectDir,
		DryRun:     opts.DryRun,
	})
	report.Split = splitResult
	if err != nil {
		return m.failPhase(logger, report, PhaseSplit, err)
	}
	report.Phases = append(report.Phases, interfaces.PhaseOutcome{
		Phase:     PhaseSplit,
		Completed: true,
		Messages:  splitResult.Messages,
	})

	if opts.SkipCleanup {
		report.Phases = append(report.Phases, interfaces.PhaseOutcome{
			Phase:     PhaseCleanup,
			Completed: true,
			Messages:  []string{"skipped by request"},
		})
	} else {
		cleanResult, err := m.cleaner.Run(ctx, projectDir, opts.DryRun)
		if err != nil {
			return m.failPhase(logger, report, PhaseCleanup, err)
		}
		messages := []string{"nothing to remove"}
		if len(cleanResult.Removed) > 0 {
			messages = []string{"removed " + strings.Join(cleanResult.Removed, ", ")}
		}
		report.Phases = append(report.Phases, interfaces.PhaseOutcome{
			Phase:     PhaseCleanup,
			Completed: true,
			Messages:  messages,
		})
	}

	report.Success = true
	logger.Info("migrate.completed", "phases", len(report.Phases), "dry_run", opts.DryRun)
	return report, nil
}

func (m *Migrator) failPhase(logger interfaces.Logger, report *interfaces.MigrationReport, phase string, err error) (*interfaces.MigrationReport, error) {
	report.Phases = append(report.Phases, interfaces.PhaseOutcome{
		Phase: phase,
		Error: err.Error(),
	})
	logger.Error("migrate.phase.failed", "phase", phase, "error", err)
	return report, err
}

func describeFetch(result *FetchResult) []string {
	var messages []string
	if len(result.Fetched) > 0 {
		messages = append(messages, "fetched "+strings.Join(result.Fetched, ", "))
	}
	if len(result.Skipped) > 0 {
		messages = append(messages, "kept existing "+strings.Join(result.Skipped, ", "))
	}
	if len(messages) == 0 {
		messages = append(messages, "no templates to fetch")
	}
	return messages
}
