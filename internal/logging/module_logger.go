package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-specup/pkg/interfaces"
)

const (
	rootModule      = "specup"
	glossaryModule  = "specup.glossary"
	manifestModule  = "specup.manifest"
	migrationModule = "specup.migration"
)

const (
	fieldSourcePath = "source_path"
	fieldPhase      = "phase"
	fieldRunID      = "run_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// GlossaryLogger returns the logger namespace reserved for the splitter.
func GlossaryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, glossaryModule)
}

// ManifestLogger returns the logger namespace reserved for manifest rewrites.
func ManifestLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, manifestModule)
}

// MigrationLogger returns the logger namespace reserved for migration phases.
func MigrationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, migrationModule)
}

// WithRunContext enriches the provided logger with common run fields such as
// the source document path, the current phase, and the run correlation ID.
// Empty values are ignored.
func WithRunContext(logger interfaces.Logger, sourcePath, phase, runID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(sourcePath); trimmed != "" {
		fields[fieldSourcePath] = trimmed
	}
	if trimmed := strings.TrimSpace(phase); trimmed != "" {
		fields[fieldPhase] = trimmed
	}
	if trimmed := strings.TrimSpace(runID); trimmed != "" {
		fields[fieldRunID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
