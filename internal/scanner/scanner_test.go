package scanner

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/i18nkit/internal/config"
	"github.com/dbsmedya/i18nkit/internal/logger"
)

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	mem := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, mem.MkdirAll(filepath.Dir(name), 0755))
		require.NoError(t, afero.WriteFile(mem, name, []byte(content), 0644))
	}
	return mem
}

func scanConfig(root string) config.ScanConfig {
	cfg := config.DefaultConfig().Scan
	cfg.Root = root
	return cfg
}

func runScan(t *testing.T, mem afero.Fs, cfg config.ScanConfig) (Result, string) {
	t.Helper()
	var out bytes.Buffer
	s, err := New(mem, cfg, nil, &out)
	require.NoError(t, err)

	result, err := s.Scan(context.Background())
	require.NoError(t, err)
	return result, out.String()
}

func TestScan_CommentOnlyMatchIsIgnored(t *testing.T) {
	mem := writeFiles(t, map[string]string{
		"/repo/a.go": "// 中文注释\nvar x = 1",
		"/repo/b.js": "var s = '中文'",
	})

	result, out := runScan(t, mem, scanConfig("/repo"))

	assert.Equal(t, "Chinese characters found in: /repo/b.js\n", out)
	assert.Equal(t, []string{"/repo/b.js"}, result.Matches)
	assert.Equal(t, 2, result.FilesScanned)
	assert.True(t, result.Found())
}

func TestScan_BlockCommentsIgnored(t *testing.T) {
	mem := writeFiles(t, map[string]string{
		"/repo/doc.go": "/*\n * 包说明\n */\npackage repo\n",
	})

	result, out := runScan(t, mem, scanConfig("/repo"))

	assert.Empty(t, out)
	assert.False(t, result.Found())
}

func TestScan_ExcludedDirsNeverReported(t *testing.T) {
	mem := writeFiles(t, map[string]string{
		"/repo/build/gen.go":             "var s = \"中文\"",
		"/repo/web/node_modules/x/i.js":  "var s = '中文'",
		"/repo/web/src/node_modules.js":  "var s = '中文'",
		"/repo/pkg/build/deep/nested.go": "var s = \"中文\"",
	})

	result, out := runScan(t, mem, scanConfig("/repo"))

	assert.Equal(t, "Chinese characters found in: /repo/web/src/node_modules.js\n", out)
	assert.Equal(t, 1, result.FilesScanned)
}

func TestScan_ExtensionFilter(t *testing.T) {
	mem := writeFiles(t, map[string]string{
		"/repo/a.go":   "var s = \"中文\"",
		"/repo/b.py":   "s = '中文'",
		"/repo/c.json": `{"k": "中文"}`,
	})

	cfg := scanConfig("/repo")
	result, out := runScan(t, mem, cfg)
	assert.Equal(t, "Chinese characters found in: /repo/a.go\n", out)
	assert.Equal(t, 1, result.FilesScanned)

	cfg.Extensions = []string{".py", ".json"}
	result, out = runScan(t, mem, cfg)
	assert.Equal(t, "Chinese characters found in: /repo/b.py\nChinese characters found in: /repo/c.json\n", out)
	assert.Equal(t, 2, result.FilesScanned)
}

func TestScan_ReadErrorContinues(t *testing.T) {
	mem := writeFiles(t, map[string]string{
		"/repo/a_bad.go": "\xff\xfe broken",
		"/repo/b_ok.go":  "var s = \"中文\"",
	})

	result, out := runScan(t, mem, scanConfig("/repo"))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Error reading file /repo/a_bad.go: cannot decode byte 0xff at offset 0 as utf-8", lines[0])
	assert.Equal(t, "Chinese characters found in: /repo/b_ok.go", lines[1])
	assert.Equal(t, 1, result.ReadErrors)
	assert.Equal(t, []string{"/repo/b_ok.go"}, result.Matches)
}

func TestScan_OnlyUnreadableFilesIsClean(t *testing.T) {
	mem := writeFiles(t, map[string]string{
		"/repo/bad.go": "\xc3\x28",
	})

	result, _ := runScan(t, mem, scanConfig("/repo"))
	assert.False(t, result.Found())
	assert.Equal(t, 1, result.ReadErrors)
}

func TestScan_NoFiles(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/repo", 0755))

	result, out := runScan(t, mem, scanConfig("/repo"))
	assert.Empty(t, out)
	assert.Zero(t, result.FilesScanned)
	assert.False(t, result.Found())
}

func TestScan_ShowLines(t *testing.T) {
	mem := writeFiles(t, map[string]string{
		"/repo/c.js": "var a = 1\nvar s = '中文' // 注释\n/* 多行\n注释 */\nvar t = \"汉字\"",
	})

	cfg := scanConfig("/repo")
	cfg.ShowLines = true
	_, out := runScan(t, mem, cfg)

	assert.Equal(t,
		"Chinese characters found in: /repo/c.js\n"+
			"  2: var s = '中文'\n"+
			"  5: var t = \"汉字\"\n",
		out)
}

func TestScan_CustomRange(t *testing.T) {
	mem := writeFiles(t, map[string]string{
		"/repo/ja.go": "var s = \"ひらがな\"",
		"/repo/zh.go": "var s = \"中文\"",
	})

	cfg := scanConfig("/repo")
	cfg.Ranges = []string{"3040-309F"}
	result, out := runScan(t, mem, cfg)

	assert.Equal(t, "Chinese characters found in: /repo/ja.go\n", out)
	assert.Equal(t, []string{"/repo/ja.go"}, result.Matches)
}

func TestScan_DeclaredEncoding(t *testing.T) {
	// "中文" in GBK
	mem := writeFiles(t, map[string]string{
		"/repo/gbk.go": "var s = \"\xd6\xd0\xce\xc4\"",
	})

	cfg := scanConfig("/repo")
	result, _ := runScan(t, mem, cfg)
	assert.False(t, result.Found())
	assert.Equal(t, 1, result.ReadErrors)

	cfg.Encoding = "gbk"
	result, _ = runScan(t, mem, cfg)
	assert.True(t, result.Found())
	assert.Zero(t, result.ReadErrors)
}

func TestScan_MissingRoot(t *testing.T) {
	s, err := New(afero.NewMemMapFs(), scanConfig("/missing"), nil, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = s.Scan(context.Background())
	assert.Error(t, err)
}

func TestScan_Cancelled(t *testing.T) {
	mem := writeFiles(t, map[string]string{"/repo/a.go": "var s = \"中文\""})
	s, err := New(mem, scanConfig("/repo"), nil, &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := scanConfig("/repo")
	cfg.Ranges = []string{"zz-yy"}
	_, err := New(afero.NewMemMapFs(), cfg, nil, &bytes.Buffer{})
	assert.Error(t, err)

	cfg = scanConfig("/repo")
	cfg.Encoding = "no-such-encoding"
	_, err = New(afero.NewMemMapFs(), cfg, nil, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestCheckFile(t *testing.T) {
	mem := writeFiles(t, map[string]string{
		"/repo/a.go": "x := 1\ny := \"中\"",
	})
	s, err := New(mem, scanConfig("/repo"), nil, &bytes.Buffer{})
	require.NoError(t, err)

	found, lines, err := s.CheckFile("/repo/a.go")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, lines)

	_, _, err = s.CheckFile("/repo/none.go")
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "var s = 1", preview("\t  var s = 1  "))

	long := strings.Repeat("中", 80)
	got := preview(long)
	assert.LessOrEqual(t, runewidth.StringWidth(got), previewWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestScan_LogsReadErrorsWithFile(t *testing.T) {
	mem := writeFiles(t, map[string]string{"/repo/bad.go": "\xff"})

	var logs, out bytes.Buffer
	log := logger.NewWithWriter(&config.LoggingConfig{Level: "debug", Format: "json"}, &logs)
	s, err := New(mem, scanConfig("/repo"), log, &out)
	require.NoError(t, err)

	_, err = s.Scan(context.Background())
	require.NoError(t, err)

	assert.Contains(t, logs.String(), `"root":"/repo"`)
	assert.Contains(t, logs.String(), `"file":"/repo/bad.go"`)
	assert.Contains(t, logs.String(), "Failed to read file")
}
