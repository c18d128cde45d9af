package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-specup/cmd/specup/internal/bootstrap"
	"github.com/goliatone/go-specup/internal/commands/migratecmd"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runMigrate(os.Args[1:]); err != nil {
		log.Fatalf("specup migrate: %v", err)
	}
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("specup-migrate", flag.ExitOnError)
	projectDir := fs.String("project-dir", ".", "Project root containing the legacy layout")
	dryRun := fs.Bool("dry-run", false, "Report planned actions without writing anything")
	verbose := fs.Bool("verbose", false, "Print per-step progress")
	templateURL := fs.String("template-url", "", "Override the configuration template base URL")
	threshold := fs.Int("confidence-threshold", 0, "Minimum detection confidence (0 uses the default)")
	skipCleanup := fs.Bool("skip-cleanup", false, "Leave obsolete legacy files in place")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		Verbose:             *verbose,
		TemplateBaseURL:     *templateURL,
		ConfidenceThreshold: *threshold,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	var report *interfaces.MigrationReport
	handler := migratecmd.NewMigrateHandler(module.Module, module.Logger, func(r *interfaces.MigrationReport) {
		report = r
	})

	execErr := handler.Execute(context.Background(), migratecmd.MigrateCommand{
		ProjectDir:          *projectDir,
		DryRun:              *dryRun,
		ConfidenceThreshold: *threshold,
		TemplateBaseURL:     *templateURL,
		SkipCleanup:         *skipCleanup,
	})
	bootstrap.PrintMigrationReport(os.Stdout, report, execErr, *verbose)
	return execErr
}
