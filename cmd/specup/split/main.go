package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-specup/cmd/specup/internal/bootstrap"
	"github.com/goliatone/go-specup/internal/commands/glossarycmd"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSplit(os.Args[1:]); err != nil {
		log.Fatalf("specup split: %v", err)
	}
}

func runSplit(args []string) error {
	fs := flag.NewFlagSet("specup-split", flag.ExitOnError)
	projectDir := fs.String("project-dir", ".", "Project root containing the specs.json manifest")
	markerToken := fs.String("marker-token", "", "Override the definition marker token")
	dryRun := fs.Bool("dry-run", false, "Report planned actions without writing anything")
	verbose := fs.Bool("verbose", false, "Print per-step progress")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		Verbose:     *verbose,
		MarkerToken: *markerToken,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	var result *interfaces.SplitResult
	handler := glossarycmd.NewSplitGlossaryHandler(module.Module, module.Logger, func(r *interfaces.SplitResult) {
		result = r
	})

	execErr := handler.Execute(context.Background(), glossarycmd.SplitGlossaryCommand{
		ProjectDir:  *projectDir,
		MarkerToken: *markerToken,
		DryRun:      *dryRun,
	})
	bootstrap.PrintSplitReport(os.Stdout, result, execErr, *verbose)
	return execErr
}
