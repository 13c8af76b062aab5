package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path on top of DefaultConfig.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadOrDefault behaves like Load, but returns DefaultConfig when configPath is empty.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		cfg := DefaultConfig()
		substituteEnvVars(cfg)
		return cfg, nil
	}
	return Load(configPath)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Defaults live in viper rather than in the target struct: decoding a
	// shorter YAML list over a longer default slice would keep its tail.
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)
	return cfg, nil
}

// setDefaults registers DefaultConfig values as viper defaults.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("scan.root", d.Scan.Root)
	v.SetDefault("scan.extensions", d.Scan.Extensions)
	v.SetDefault("scan.excludes", d.Scan.Excludes)
	v.SetDefault("scan.ranges", d.Scan.Ranges)
	v.SetDefault("scan.encoding", d.Scan.Encoding)
	v.SetDefault("scan.show_lines", d.Scan.ShowLines)

	v.SetDefault("replace.repository_path", d.Replace.RepositoryPath)
	v.SetDefault("replace.json_file_path", d.Replace.MappingFile)
	v.SetDefault("replace.exclude_dirs", d.Replace.ExcludeDirs)
	v.SetDefault("replace.exclude_extensions", d.Replace.ExcludeExtensions)
	v.SetDefault("replace.encoding", d.Replace.Encoding)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns in path-like fields.
func substituteEnvVars(cfg *Config) {
	cfg.Scan.Root = expandEnvVar(cfg.Scan.Root)

	cfg.Replace.RepositoryPath = expandEnvVar(cfg.Replace.RepositoryPath)
	cfg.Replace.MappingFile = expandEnvVar(cfg.Replace.MappingFile)

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// ScanOverrides contains chncheck flag values that override config file settings.
type ScanOverrides struct {
	Root       string
	Extensions []string
	Excludes   []string
	Ranges     []string
	Encoding   string
	ShowLines  bool
}

// ReplaceOverrides contains i18nreplace flag values that override config file settings.
type ReplaceOverrides struct {
	RepositoryPath string
	MappingFile    string
	Encoding       string
}

// ApplyOverrides applies CLI logging overrides. Only non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
}

// ApplyScanOverrides applies chncheck flag values on top of the scan section.
// List values are normalized with SplitList; empty lists keep the configured value.
func (c *Config) ApplyScanOverrides(o ScanOverrides) {
	if o.Root != "" {
		c.Scan.Root = o.Root
	}
	if list := SplitList(o.Extensions); len(list) > 0 {
		c.Scan.Extensions = list
	}
	if list := SplitList(o.Excludes); len(list) > 0 {
		c.Scan.Excludes = list
	}
	if list := SplitList(o.Ranges); len(list) > 0 {
		c.Scan.Ranges = list
	}
	if o.Encoding != "" {
		c.Scan.Encoding = o.Encoding
	}
	if o.ShowLines {
		c.Scan.ShowLines = true
	}
}

// ApplyReplaceOverrides applies i18nreplace flag values on top of the replace section.
func (c *Config) ApplyReplaceOverrides(o ReplaceOverrides) {
	if o.RepositoryPath != "" {
		c.Replace.RepositoryPath = o.RepositoryPath
	}
	if o.MappingFile != "" {
		c.Replace.MappingFile = o.MappingFile
	}
	if o.Encoding != "" {
		c.Replace.Encoding = o.Encoding
	}
}

// SplitList flattens flag values that may hold several space- or comma-separated
// items each, so `--extensions ".go .js"` and `--extensions .go,.js` are equivalent.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})...)
	}
	return out
}
