package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uuidA = "0cadef6c-c480-41f2-95b7-511609815820"

	minimalStatus = "TOTAL:\ncrawl_done=5\nPROGRESS:\nextsz datasz point gen_min gen_max\n-----\nmax 512K 100 1 2\ntotal 0 0 0 0\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runArgs(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCheck_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		files    map[string]string
		args     []string
		wantCode int
	}{
		"clean": {
			files:    map[string]string{uuidA + ".status": minimalStatus},
			wantCode: 0,
		},
		"parse warnings": {
			files:    map[string]string{uuidA + ".status": "TOTAL:\ncrawl_done=5\n"},
			wantCode: 1,
		},
		"skipped file": {
			files: map[string]string{
				uuidA + ".status":   minimalStatus,
				"not-a-uuid.status": minimalStatus,
			},
			wantCode: 2,
		},
		"empty directory": {
			wantCode: 3,
		},
		"unknown format": {
			files:    map[string]string{uuidA + ".status": minimalStatus},
			args:     []string{"--format", "xml"},
			wantCode: 4,
		},
		"invalid workers": {
			args:     []string{"--workers", "0"},
			wantCode: 4,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for file, content := range test.files {
				writeFile(t, dir, file, content)
			}

			args := append([]string{"check", "-b", dir, "-f", "tsv"}, test.args...)
			code, _, _ := runArgs(args...)

			assert.Equal(t, test.wantCode, code)
		})
	}
}

func TestCheck_MissingDir(t *testing.T) {
	code, _, stderr := runArgs("check", "--bees-work-dir", filepath.Join(t.TempDir(), "missing"))

	assert.Equal(t, 4, code)
	assert.Contains(t, stderr, "Error:")
}

func TestCheck_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, uuidA+".status", minimalStatus)

	code, stdout, _ := runArgs("check", "-b", dir, "--format", "json")
	require.Equal(t, 0, code)

	var report struct {
		Dir         string `json:"dir"`
		Filesystems []struct {
			UUID  string `json:"uuid"`
			Stats int    `json:"stats"`
		} `json:"filesystems"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, dir, report.Dir)
	require.Len(t, report.Filesystems, 1)
	assert.Equal(t, uuidA, report.Filesystems[0].UUID)
	assert.Equal(t, 1, report.Filesystems[0].Stats)
}

func TestCheck_ConfigPrecedence(t *testing.T) {
	populated := t.TempDir()
	writeFile(t, populated, uuidA+".status", minimalStatus)
	empty := t.TempDir()

	cfg := writeFile(t, t.TempDir(), "config.yaml", "stats_dir: "+populated+"\nlog_level: error\n")

	code, _, _ := runArgs("check", "--config", cfg, "-f", "tsv")
	assert.Equal(t, 0, code, "config file selects the directory")

	code, _, _ = runArgs("check", "--config", cfg, "-f", "tsv", "--bees-work-dir", empty)
	assert.Equal(t, 3, code, "explicit flag overrides the config file")
}

func TestCheck_BadConfigFile(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "config.yaml", "no_such_key: 1\n")

	code, _, stderr := runArgs("check", "--config", cfg)

	assert.Equal(t, 4, code)
	assert.Contains(t, stderr, "cannot parse config")
}

func TestServe_MissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	for _, args := range [][]string{
		{"serve", "-b", missing},
		{"-b", missing},
	} {
		code, _, stderr := runArgs(args...)

		assert.Equal(t, 1, code, args)
		assert.Contains(t, stderr, "Error:", args)
	}
}

func TestServe_InvalidPort(t *testing.T) {
	code, _, stderr := runArgs("serve", "-b", t.TempDir(), "--port", "70000")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "port must be between")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runArgs("--version")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, Version)
}
