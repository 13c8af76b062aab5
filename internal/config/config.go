// Package config provides configuration structures and loading for i18nkit.
package config

// Config represents the complete configuration shared by chncheck and i18nreplace.
type Config struct {
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Replace ReplaceConfig `yaml:"replace" mapstructure:"replace"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// ScanConfig represents the settings of a chncheck run.
type ScanConfig struct {
	Root       string   `yaml:"root" mapstructure:"root"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // suffixes, e.g. ".go"
	Excludes   []string `yaml:"excludes" mapstructure:"excludes"`     // directory names pruned at any depth
	Ranges     []string `yaml:"ranges" mapstructure:"ranges"`         // hex code point ranges, e.g. "4E00-9FFF"
	Encoding   string   `yaml:"encoding" mapstructure:"encoding"`
	ShowLines  bool     `yaml:"show_lines" mapstructure:"show_lines"`
}

// ReplaceConfig represents the settings of an i18nreplace run.
type ReplaceConfig struct {
	RepositoryPath    string   `yaml:"repository_path" mapstructure:"repository_path"`
	MappingFile       string   `yaml:"json_file_path" mapstructure:"json_file_path"`
	ExcludeDirs       []string `yaml:"exclude_dirs" mapstructure:"exclude_dirs"`
	ExcludeExtensions []string `yaml:"exclude_extensions" mapstructure:"exclude_extensions"`
	Encoding          string   `yaml:"encoding" mapstructure:"encoding"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with the stock chncheck and i18nreplace behaviour.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: []string{".go", ".js"},
			Excludes:   []string{"build", "node_modules"},
			Ranges:     []string{"4E00-9FFF"},
			Encoding:   "utf-8",
		},
		Replace: ReplaceConfig{
			RepositoryPath:    ".",
			ExcludeDirs:       []string{"node_modules", "build", "i18n"},
			ExcludeExtensions: []string{".png", ".ico", ".db", ".exe"},
			Encoding:          "utf-8",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}
