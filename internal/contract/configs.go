package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/devinsight/schema"
)

// Default values for configuration.
const (
	DefaultJSONIndent = 2
	MaxJSONIndent     = 8
	MaxErrorsShown    = 5
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// OutputTimestampFormat names default report files uniquely per run.
const OutputTimestampFormat = "20060102_150405"

// Config holds the runtime configuration for a report run.
// This struct remains the "final, validated" config.
type Config struct {
	InputDir       string
	OutputDir      string
	OutputName     string // Base name without extension, timestamped default when empty
	IgnorePatterns []string
	ExportJSON     bool
	JSONIndent     int
	ExportParquet  bool

	ExportBackend   schema.DatabaseBackend
	ExportDBConnect string // Please use env var as this is plaintext

	Workers   int
	Verbose   bool
	Debug     bool
	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
	Width     int  // Terminal width override (0 = auto-detect)
}

// ProfileConfig holds configuration for profiling.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig processes the profiling flag into the profile config.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DirectoryStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputDir       string `mapstructure:"output-dir"`
	Filename        string `mapstructure:"filename"`
	Ignore          string `mapstructure:"ignore"`
	Workers         int    `mapstructure:"workers"`
	Emoji           string `mapstructure:"emoji"`
	Color           string `mapstructure:"color"`
	Width           int    `mapstructure:"width"`
	Verbose         bool   `mapstructure:"verbose"`
	Debug           bool   `mapstructure:"debug"`
	ExportJSON      bool   `mapstructure:"export-json"`
	JSONIndent      int    `mapstructure:"json-indent"`
	ExportParquet   bool   `mapstructure:"export-parquet"`
	ExportBackend   string `mapstructure:"export-backend"`
	ExportDBConnect string `mapstructure:"export-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.IgnorePatterns != nil {
		clone.IgnorePatterns = make([]string, len(c.IgnorePatterns))
		copy(clone.IgnorePatterns, c.IgnorePatterns)
	}
	return &clone
}

// OutputBase returns the base name for output files, generating a
// timestamped default when none was configured.
func (c *Config) OutputBase(now time.Time) string {
	if c.OutputName != "" {
		return c.OutputName
	}
	return "developer_insights_report_" + now.Format(OutputTimestampFormat)
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processInputDir(cfg, input); err != nil {
		return err
	}
	if err := processOutputTarget(cfg, input); err != nil {
		return err
	}
	if err := processExportBackend(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("export-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("export-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs handles workers, indentation, width and the
// boolean-ish string flags.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	// Zero is a valid indent and means compact output; the flag default
	// comes from viper, so no promotion happens here.
	cfg.JSONIndent = input.JSONIndent
	if cfg.JSONIndent < 0 || cfg.JSONIndent > MaxJSONIndent {
		return fmt.Errorf("json-indent must be between 0 and %d, got %d", MaxJSONIndent, input.JSONIndent)
	}

	if input.Width < 0 {
		return fmt.Errorf("width must be non-negative, got %d", input.Width)
	}
	cfg.Width = input.Width

	cfg.Verbose = input.Verbose
	cfg.Debug = input.Debug
	cfg.ExportJSON = input.ExportJSON
	cfg.ExportParquet = input.ExportParquet

	useEmojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid emoji flag: %w", err)
	}
	cfg.UseEmojis = useEmojis

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color flag: %w", err)
	}
	cfg.UseColors = useColors
	return nil
}

// processInputDir validates the report directory and splits the ignore
// pattern list.
func processInputDir(cfg *Config, input *ConfigRawInput) error {
	dir := strings.TrimSpace(input.DirectoryStr)
	if dir == "" {
		return fmt.Errorf("a directory with JSON report files is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot access directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}
	cfg.InputDir = dir

	if input.Ignore != "" {
		for _, pat := range strings.Split(input.Ignore, ",") {
			if pat = strings.TrimSpace(pat); pat != "" {
				cfg.IgnorePatterns = append(cfg.IgnorePatterns, pat)
			}
		}
	}
	return nil
}

// processOutputTarget resolves the output directory and base file name.
func processOutputTarget(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputDir = input.OutputDir
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	name := strings.TrimSpace(input.Filename)
	if name != "" {
		if strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
			return fmt.Errorf("filename must not contain path separators: %q", name)
		}
		// Callers pass a base name; a stray extension is dropped.
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	cfg.OutputName = name
	return nil
}

// processExportBackend validates the optional database export target.
func processExportBackend(cfg *Config, input *ConfigRawInput) error {
	backend := input.ExportBackend
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.ExportBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ExportBackend]; !ok {
		return fmt.Errorf("invalid export backend '%s'. must be sqlite, mysql, postgresql, none", input.ExportBackend)
	}
	cfg.ExportDBConnect = input.ExportDBConnect
	return ValidateDatabaseConnectionString(cfg.ExportBackend, cfg.ExportDBConnect)
}
