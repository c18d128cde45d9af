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
	if err := runDetect(os.Args[1:]); err != nil {
		log.Fatalf("specup detect: %v", err)
	}
}

func runDetect(args []string) error {
	fs := flag.NewFlagSet("specup-detect", flag.ExitOnError)
	projectDir := fs.String("project-dir", ".", "Directory to inspect for a legacy project")
	verbose := fs.Bool("verbose", false, "Print per-step progress")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{Verbose: *verbose})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	var result *interfaces.DetectionResult
	handler := migratecmd.NewDetectHandler(module.Module, module.Logger, func(r *interfaces.DetectionResult) {
		result = r
	})

	execErr := handler.Execute(context.Background(), migratecmd.DetectCommand{
		ProjectDir: *projectDir,
	})
	bootstrap.PrintDetection(os.Stdout, result)
	return execErr
}
