package migration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/pkg/interfaces"
)

type stubSplitter struct {
	opts   []interfaces.SplitOptions
	result *interfaces.SplitResult
	err    error
}

func (s *stubSplitter) Split(_ context.Context, opts interfaces.SplitOptions) (*interfaces.SplitResult, error) {
	s.opts = append(s.opts, opts)
	if s.result == nil {
		s.result = &interfaces.SplitResult{Success: s.err == nil, TermCount: 2}
	}
	return s.result, s.err
}

func newTemplateServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.env.example":
			w.Write([]byte("SPEC_UP_T_PORT=3000\n"))
		case "/.gitignore":
			w.Write([]byte("node_modules\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func phaseNames(report *interfaces.MigrationReport) []string {
	names := make([]string, 0, len(report.Phases))
	for _, phase := range report.Phases {
		names = append(names, phase.Phase)
	}
	return names
}

func TestMigrateFullSequence(t *testing.T) {
	dir := newLegacyProject(t)
	server := newTemplateServer(t)
	splitter := &stubSplitter{}
	migrator := NewMigrator(nil, splitter, server.URL)

	report, err := migrator.Migrate(context.Background(), interfaces.MigrateOptions{
		ProjectDir:          dir,
		ConfidenceThreshold: 50,
	})
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !report.Success {
		t.Fatalf("expected success, got %#v", report)
	}

	want := []string{PhaseDetect, PhaseBackup, PhaseFetch, PhaseUpdate, PhaseSplit, PhaseCleanup}
	got := phaseNames(report)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected phase order: %v", got)
	}
	for _, phase := range report.Phases {
		if !phase.Completed {
			t.Fatalf("expected phase %q to complete: %s", phase.Phase, phase.Error)
		}
	}

	if len(splitter.opts) != 1 || splitter.opts[0].ProjectDir != dir {
		t.Fatalf("expected one split against the project, got %#v", splitter.opts)
	}
	if report.Split == nil || report.Split.TermCount != 2 {
		t.Fatalf("expected split outcome on the report, got %#v", report.Split)
	}

	// Templates landed, legacy build file is gone, backup directory exists.
	if _, err := os.Stat(filepath.Join(dir, ".env.example")); err != nil {
		t.Fatalf("expected fetched template: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "gulpfile.js")); !os.IsNotExist(err) {
		t.Fatal("expected gulpfile.js removal")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read project dir: %v", err)
	}
	backupFound := false
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), backupDirPrefix) {
			backupFound = true
		}
	}
	if !backupFound {
		t.Fatal("expected a timestamped backup directory")
	}
}

func TestMigrateConfidenceGate(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "specs.json", legacyManifest)

	migrator := NewMigrator(nil, &stubSplitter{}, "")
	report, err := migrator.Migrate(context.Background(), interfaces.MigrateOptions{
		ProjectDir:          dir,
		ConfidenceThreshold: 80,
	})
	if err == nil {
		t.Fatal("expected confidence gate failure")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(report.Phases) != 1 || report.Phases[0].Phase != PhaseDetect || report.Phases[0].Completed {
		t.Fatalf("expected a single failed detect phase, got %#v", report.Phases)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatalf("read project dir: %v", readErr)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), backupDirPrefix) {
			t.Fatal("expected no backup after a gated run")
		}
	}
}

func TestMigrateDryRunLeavesProjectUntouched(t *testing.T) {
	dir := newLegacyProject(t)
	server := newTemplateServer(t)
	splitter := &stubSplitter{}
	migrator := NewMigrator(nil, splitter, server.URL)

	before := readTree(t, dir)
	report, err := migrator.Migrate(context.Background(), interfaces.MigrateOptions{
		ProjectDir: dir,
		DryRun:     true,
	})
	if err != nil {
		t.Fatalf("dry-run migrate: %v", err)
	}
	if !report.Success {
		t.Fatalf("expected success, got %#v", report)
	}
	if len(splitter.opts) != 1 || !splitter.opts[0].DryRun {
		t.Fatalf("expected dry-run to propagate to the splitter, got %#v", splitter.opts)
	}

	after := readTree(t, dir)
	if len(before) != len(after) {
		t.Fatalf("dry run changed the tree: %d vs %d files", len(before), len(after))
	}
	for path, content := range before {
		if after[path] != content {
			t.Fatalf("dry run modified %s", path)
		}
	}
}

func TestMigrateSkipCleanup(t *testing.T) {
	dir := newLegacyProject(t)
	server := newTemplateServer(t)
	migrator := NewMigrator(nil, &stubSplitter{}, server.URL)

	report, err := migrator.Migrate(context.Background(), interfaces.MigrateOptions{
		ProjectDir:  dir,
		SkipCleanup: true,
	})
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "gulpfile.js")); statErr != nil {
		t.Fatalf("expected gulpfile.js to survive: %v", statErr)
	}
	last := report.Phases[len(report.Phases)-1]
	if last.Phase != PhaseCleanup || len(last.Messages) == 0 || !strings.Contains(last.Messages[0], "skipped") {
		t.Fatalf("expected skipped cleanup phase, got %#v", last)
	}
}

func TestMigrateStopsOnSplitFailure(t *testing.T) {
	dir := newLegacyProject(t)
	server := newTemplateServer(t)
	splitter := &stubSplitter{
		result: &interfaces.SplitResult{},
		err:    errors.New("split exploded"),
	}
	migrator := NewMigrator(nil, splitter, server.URL)

	report, err := migrator.Migrate(context.Background(), interfaces.MigrateOptions{ProjectDir: dir})
	if err == nil {
		t.Fatal("expected split failure to propagate")
	}

	got := phaseNames(report)
	if got[len(got)-1] != PhaseSplit {
		t.Fatalf("expected run to stop at the split phase, got %v", got)
	}
	if report.Phases[len(report.Phases)-1].Error == "" {
		t.Fatal("expected the failed phase to carry the error")
	}
	// Cleanup never ran.
	if _, statErr := os.Stat(filepath.Join(dir, "gulpfile.js")); statErr != nil {
		t.Fatalf("expected gulpfile.js to survive an aborted run: %v", statErr)
	}
}

func TestFetchTemplatesSkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".gitignore", "custom\n")
	server := newTemplateServer(t)

	result, err := NewFetcher(server.URL, nil).FetchTemplates(context.Background(), dir, false)
	if err != nil {
		t.Fatalf("FetchTemplates: %v", err)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != ".gitignore" {
		t.Fatalf("expected existing .gitignore to be kept, got %#v", result)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil || string(data) != "custom\n" {
		t.Fatalf("expected local file to win, got %q (%v)", data, err)
	}
	if len(result.Fetched) != 1 || result.Fetched[0] != ".env.example" {
		t.Fatalf("expected .env.example fetch, got %#v", result)
	}
}

func TestFetchTemplatesFailureCarriesURL(t *testing.T) {
	dir := t.TempDir()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	_, err := NewFetcher(server.URL, nil).FetchTemplates(context.Background(), dir, false)
	if err == nil {
		t.Fatal("expected fetch failure")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
