package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	specup "github.com/goliatone/go-specup"
	"github.com/goliatone/go-specup/internal/commands"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

// Options captures configuration for the specup CLI bootstraps.
type Options struct {
	Verbose             bool
	MarkerToken         string
	TemplateBaseURL     string
	ConfidenceThreshold int
	LoggerProvider      interfaces.LoggerProvider
}

// Module wraps the specup module and the logger the CLI verbs share.
type Module struct {
	Module *specup.Module
	Logger interfaces.Logger
}

// BuildModule constructs a specup module configured for CLI use. Structured
// logging is only enabled in verbose mode; the final report is printed either
// way.
func BuildModule(opts Options) (*Module, error) {
	cfg := specup.DefaultConfig()
	cfg.Logging.Enabled = opts.Verbose
	if trimmed := strings.TrimSpace(opts.MarkerToken); trimmed != "" {
		cfg.Glossary.MarkerToken = trimmed
	}
	if trimmed := strings.TrimSpace(opts.TemplateBaseURL); trimmed != "" {
		cfg.Migration.TemplateBaseURL = trimmed
	}
	if opts.ConfidenceThreshold > 0 {
		cfg.Migration.ConfidenceThreshold = opts.ConfidenceThreshold
	}
	if opts.LoggerProvider != nil {
		cfg.LoggerProvider = opts.LoggerProvider
	}

	module, err := specup.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialise specup module: %w", err)
	}

	return &Module{
		Module: module,
		Logger: commands.CommandLogger(module.LoggerProvider(), "cli"),
	}, nil
}

// PrintSplitReport writes the split outcome. File counts and the manifest
// outcome are always shown, success or failure, so partial progress stays
// visible.
func PrintSplitReport(w io.Writer, result *interfaces.SplitResult, runErr error, verbose bool) {
	if result == nil {
		if runErr != nil {
			color.New(color.FgRed).Fprintf(w, "split failed: %v\n", runErr)
		}
		return
	}

	if verbose {
		for _, msg := range result.Messages {
			fmt.Fprintf(w, "  %s %s\n", color.CyanString("-"), msg)
		}
		for _, path := range result.CreatedFiles {
			fmt.Fprintf(w, "  %s %s\n", color.CyanString("+"), path)
		}
	}

	fmt.Fprintf(w, "term files: %d\n", result.TermCount)
	fmt.Fprintf(w, "files created: %d\n", len(result.CreatedFiles))
	fmt.Fprintf(w, "manifest updated: %s\n", yesNo(result.ManifestUpdated))
	fmt.Fprintf(w, "backup created: %s\n", yesNo(result.BackupCreated))

	if runErr != nil {
		color.New(color.FgRed).Fprintf(w, "split failed: %v\n", runErr)
		return
	}
	color.New(color.FgGreen).Fprintln(w, "split completed")
}

// PrintDetection writes the detection findings and aggregate confidence.
func PrintDetection(w io.Writer, result *interfaces.DetectionResult) {
	if result == nil {
		return
	}
	if result.Title != "" {
		fmt.Fprintf(w, "title: %s\n", result.Title)
	}
	if result.Description != "" {
		fmt.Fprintf(w, "description: %s\n", result.Description)
	}
	for _, check := range result.Checks {
		mark := color.RedString("x")
		if check.Passed {
			mark = color.GreenString("ok")
		}
		fmt.Fprintf(w, "  [%s] %s (%d%%): %s\n", mark, check.Name, check.Weight, check.Detail)
	}
	fmt.Fprintf(w, "confidence: %d%%\n", result.Confidence)
}

// PrintMigrationReport writes per-phase outcomes and the final split summary.
func PrintMigrationReport(w io.Writer, report *interfaces.MigrationReport, runErr error, verbose bool) {
	if report == nil {
		if runErr != nil {
			color.New(color.FgRed).Fprintf(w, "migration failed: %v\n", runErr)
		}
		return
	}

	for _, phase := range report.Phases {
		mark := color.GreenString("ok")
		if !phase.Completed {
			mark = color.RedString("x")
		}
		fmt.Fprintf(w, "[%s] %s\n", mark, phase.Phase)
		if verbose {
			for _, msg := range phase.Messages {
				fmt.Fprintf(w, "  %s %s\n", color.CyanString("-"), msg)
			}
		}
		if phase.Error != "" {
			fmt.Fprintf(w, "  %s %s\n", color.RedString("!"), phase.Error)
		}
	}
	if report.Split != nil {
		fmt.Fprintf(w, "term files: %d\n", report.Split.TermCount)
		fmt.Fprintf(w, "manifest updated: %s\n", yesNo(report.Split.ManifestUpdated))
	}

	if runErr != nil {
		color.New(color.FgRed).Fprintf(w, "migration failed: %v\n", runErr)
		return
	}
	color.New(color.FgGreen).Fprintln(w, "migration completed")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
