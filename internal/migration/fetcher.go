package migration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-specup/internal/logging"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

// DefaultTemplateBaseURL points at the upstream starter templates for the
// target project layout.
const DefaultTemplateBaseURL = "https://raw.githubusercontent.com/trustoverip/spec-up-t/master"

const fetchTimeout = 30 * time.Second

// defaultTemplateFiles are fetched into the project root during migration.
// Files already present locally are never overwritten.
var defaultTemplateFiles = []string{
	".env.example",
	".gitignore",
}

// FetchResult reports the outcome of a template fetch pass.
type FetchResult struct {
	// Fetched lists template files written (or planned, in dry-run).
	Fetched []string `json:"fetched"`
	// Skipped lists templates left alone because a local file already exists.
	Skipped []string `json:"skipped"`
}

// Fetcher downloads configuration templates from a base URL.
type Fetcher struct {
	baseURL string
	client  *http.Client
	logger  interfaces.Logger
}

// NewFetcher creates a fetcher for the given base URL, defaulting to the
// upstream template location when empty.
func NewFetcher(baseURL string, provider interfaces.LoggerProvider) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultTemplateBaseURL
	}
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: fetchTimeout},
		logger:  logging.MigrationLogger(provider),
	}
}

// Fetch downloads a single template by name and returns its content.
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	templateURL, err := url.JoinPath(f.baseURL, name)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "build template URL").
			WithMetadata(map[string]any{"base_url": f.baseURL, "template": name})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, templateURL, nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "build template request").
			WithMetadata(map[string]any{"url": templateURL})
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "fetch template").
			WithMetadata(map[string]any{"url": templateURL})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerrors.New(fmt.Sprintf("template fetch returned status %d", resp.StatusCode), goerrors.CategoryExternal).
			WithMetadata(map[string]any{"url": templateURL, "status": resp.StatusCode})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "read template body").
			WithMetadata(map[string]any{"url": templateURL})
	}
	return data, nil
}

// FetchTemplates downloads the standard template set into the project root.
// Existing local files win: the fetch never overwrites host configuration.
// In dry-run mode the planned writes are reported without any download.
func (f *Fetcher) FetchTemplates(ctx context.Context, projectDir string, dryRun bool) (*FetchResult, error) {
	result := &FetchResult{}

	for _, name := range defaultTemplateFiles {
		target := filepath.Join(projectDir, name)
		if _, err := os.Stat(target); err == nil {
			result.Skipped = append(result.Skipped, name)
			continue
		}

		if dryRun {
			result.Fetched = append(result.Fetched, name)
			continue
		}

		data, err := f.Fetch(ctx, name)
		if err != nil {
			return result, err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return result, goerrors.Wrap(err, goerrors.CategoryExternal, "write template file").
				WithMetadata(map[string]any{"path": target})
		}
		result.Fetched = append(result.Fetched, name)
		f.logger.Info("fetch.template.written", "template", name)
	}

	return result, nil
}
