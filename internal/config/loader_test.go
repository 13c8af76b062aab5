package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
scan:
  extensions: [".ts", ".tsx"]
  excludes: ["dist"]
  ranges: ["3400-4DBF", "4E00-9FFF"]
  show_lines: true

replace:
  repository_path: /srv/repo
  json_file_path: /srv/repo/i18n/en.json
  encoding: gbk

logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, []string{".ts", ".tsx"}, cfg.Scan.Extensions)
	assert.Equal(t, []string{"dist"}, cfg.Scan.Excludes)
	assert.Equal(t, []string{"3400-4DBF", "4E00-9FFF"}, cfg.Scan.Ranges)
	assert.True(t, cfg.Scan.ShowLines)
	// Not set in the file, default kept
	assert.Equal(t, "utf-8", cfg.Scan.Encoding)

	assert.Equal(t, "/srv/repo", cfg.Replace.RepositoryPath)
	assert.Equal(t, "/srv/repo/i18n/en.json", cfg.Replace.MappingFile)
	assert.Equal(t, "gbk", cfg.Replace.Encoding)
	assert.Equal(t, []string{"node_modules", "build", "i18n"}, cfg.Replace.ExcludeDirs)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv("TEST_REPO_ROOT", "/work/repo")
	t.Setenv("TEST_LOG_DIR", "/var/log")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-env.yaml")

	configContent := `
replace:
  repository_path: ${TEST_REPO_ROOT}
  json_file_path: $TEST_REPO_ROOT/i18n/en.json
logging:
  output: ${TEST_LOG_DIR}/i18nreplace.log
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/work/repo", cfg.Replace.RepositoryPath)
	assert.Equal(t, "/work/repo/i18n/en.json", cfg.Replace.MappingFile)
	assert.Equal(t, "/var/log/i18nreplace.log", cfg.Logging.Output)
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "test-value"},
		{"$TEST_VAR", "test-value"},
		{"prefix-${TEST_VAR}-suffix", "prefix-test-value-suffix"},
		{"${NONEXISTENT}", "${NONEXISTENT}"}, // Unset vars remain unchanged
		{"no-vars-here", "no-vars-here"},
	}

	for _, tt := range tests {
		result := expandEnvVar(tt.input)
		if result != tt.expected {
			t.Errorf("expandEnvVar(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadOrDefault("/nonexistent/path/config.yaml")
	assert.Error(t, err, "an explicit but missing file is an error")
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.Set("scan.excludes", []string{"vendor"})
	v.Set("logging.level", "error")

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor"}, cfg.Scan.Excludes)
	assert.Equal(t, []string{".go", ".js"}, cfg.Scan.Extensions)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()

	cfg.ApplyOverrides("debug", "json")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Zero values should NOT override
	cfg.ApplyOverrides("", "")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyScanOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides ScanOverrides
		check     func(t *testing.T, cfg *Config)
	}{
		{
			name:      "empty overrides keep defaults",
			overrides: ScanOverrides{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultConfig().Scan, cfg.Scan)
			},
		},
		{
			name: "all overrides set",
			overrides: ScanOverrides{
				Root:       "./src",
				Extensions: []string{".ts .tsx"},
				Excludes:   []string{"dist,vendor"},
				Ranges:     []string{"3040-30FF"},
				Encoding:   "big5",
				ShowLines:  true,
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "./src", cfg.Scan.Root)
				assert.Equal(t, []string{".ts", ".tsx"}, cfg.Scan.Extensions)
				assert.Equal(t, []string{"dist", "vendor"}, cfg.Scan.Excludes)
				assert.Equal(t, []string{"3040-30FF"}, cfg.Scan.Ranges)
				assert.Equal(t, "big5", cfg.Scan.Encoding)
				assert.True(t, cfg.Scan.ShowLines)
			},
		},
		{
			name:      "blank list values do not override",
			overrides: ScanOverrides{Extensions: []string{" "}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{".go", ".js"}, cfg.Scan.Extensions)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ApplyScanOverrides(tt.overrides)
			tt.check(t, cfg)
		})
	}
}

func TestApplyReplaceOverrides(t *testing.T) {
	cfg := DefaultConfig()

	cfg.ApplyReplaceOverrides(ReplaceOverrides{MappingFile: "map.json"})
	assert.Equal(t, ".", cfg.Replace.RepositoryPath)
	assert.Equal(t, "map.json", cfg.Replace.MappingFile)
	assert.Equal(t, "utf-8", cfg.Replace.Encoding)

	cfg.ApplyReplaceOverrides(ReplaceOverrides{RepositoryPath: "/repo", Encoding: "gb18030"})
	assert.Equal(t, "/repo", cfg.Replace.RepositoryPath)
	assert.Equal(t, "map.json", cfg.Replace.MappingFile)
	assert.Equal(t, "gb18030", cfg.Replace.Encoding)
}

func TestLoadShorterListReplacesDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "short.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("scan:\n  excludes: [dist]\n"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"dist"}, cfg.Scan.Excludes)
}
