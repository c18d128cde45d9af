package specup

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-specup/internal/migration"
	"github.com/goliatone/go-specup/pkg/interfaces"
)

// Config describes the runtime configuration for the module facade.
type Config struct {
	// Glossary configures the splitter.
	Glossary GlossaryConfig
	// Migration configures the detector and the full migration sequence.
	Migration MigrationConfig
	// Logging configures the built-in logger provider. Ignored when
	// LoggerProvider is set.
	Logging LoggingConfig
	// LoggerProvider overrides the built-in provider so hosts can route logs
	// through their own stack.
	LoggerProvider interfaces.LoggerProvider
}

// GlossaryConfig holds splitter settings.
type GlossaryConfig struct {
	// MarkerToken is the definition marker applied when a run does not
	// specify its own.
	MarkerToken string
}

// MigrationConfig holds migration settings.
type MigrationConfig struct {
	// TemplateBaseURL is where configuration templates are fetched from.
	TemplateBaseURL string
	// ConfidenceThreshold gates migration runs on the detector score.
	ConfidenceThreshold int
}

// LoggingConfig holds the built-in logger provider settings.
type LoggingConfig struct {
	// Enabled turns structured logging on. When false the module runs with
	// no-op loggers.
	Enabled bool
	// Level selects the minimum log level (trace, debug, info, warn, error).
	Level string
	// Format selects the output encoder: json, console, or pretty.
	Format string
	// AddSource includes caller information in log entries.
	AddSource bool
}

// DefaultConfig returns the configuration a plain CLI run uses.
func DefaultConfig() Config {
	return Config{
		Glossary: GlossaryConfig{
			MarkerToken: interfaces.DefaultMarkerToken,
		},
		Migration: MigrationConfig{
			TemplateBaseURL:     migration.DefaultTemplateBaseURL,
			ConfidenceThreshold: 60,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Format:  "console",
		},
	}
}

// Validate checks the configuration before the module is wired.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Migration,
		validation.Field(&c.Migration.ConfidenceThreshold, validation.Min(0), validation.Max(100)),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Logging,
		validation.Field(&c.Logging.Level, validation.In("", "trace", "debug", "info", "warn", "error")),
		validation.Field(&c.Logging.Format, validation.In("", "json", "console", "pretty")),
	)
}
