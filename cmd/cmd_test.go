package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/importJL/GlyphWrAIte/internal/config"
	"github.com/importJL/GlyphWrAIte/internal/credential"
)

// run executes the root command in a scratch environment.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--db", db}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func scratch(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "missing.toml"))
	t.Setenv(credential.EnvVar, "")
	t.Setenv("NO_COLOR", "1")
	return filepath.Join(dir, "glyphwrite.db")
}

func TestPracticeStatsReportReset(t *testing.T) {
	db := scratch(t)

	out, err := run(t, db, "--user", "alice", "practice", "-l", "korean", "-c", "안", "--no-delay")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Practice 안 (korean, beginner)")
	assert.Contains(t, out, "Configure AI settings to get personalized feedback")
	assert.Contains(t, out, "(basic score)")
	assert.Contains(t, out, "Practice Submitted!")

	out, err = run(t, db, "--user", "alice", "stats")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Sessions:       1")
	assert.Contains(t, out, "korean")
	assert.Contains(t, out, "100% (1)")

	report := filepath.Join(filepath.Dir(db), "report.json")
	_, err = run(t, db, "--user", "alice", "report", "-o", report)
	require.NoError(t, err)
	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"languageData"`)

	out, err = run(t, db, "--user", "alice", "report", "--share")
	require.NoError(t, err, out)
	assert.Contains(t, out, "📚 1 practice sessions")

	out, err = run(t, db, "--user", "alice", "reset", "--yes")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Removed 1 sessions")
}

func TestChars(t *testing.T) {
	db := scratch(t)

	out, err := run(t, db, "chars", "chinese")
	require.NoError(t, err)
	for _, c := range []string{"你", "好", "中", "一"} {
		assert.Contains(t, out, c)
	}

	out, err = run(t, db, "chars", "show", "english", "A")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "A"), out)

	_, err = run(t, db, "chars", "klingon")
	assert.Error(t, err)

	out, err = run(t, db, "chars", "english", "--category", "common-words")
	require.NoError(t, err, out)
	assert.Contains(t, out, "World")
	assert.NotContains(t, out, "basic-letters")

	_, err = run(t, db, "chars", "english", "--category", "nope")
	assert.Error(t, err)
	run(t, db, "chars", "english", "--category", "")
}

func TestSettingsSet(t *testing.T) {
	db := scratch(t)

	out, err := run(t, db, "--user", "bob", "settings", "set", "--persona", "strict", "--delay", "250ms")
	require.NoError(t, err, out)
	assert.Contains(t, out, "strict")
	assert.Contains(t, out, "250ms")

	_, err = run(t, db, "--user", "bob", "settings", "set", "--persona", "sarcastic")
	assert.Error(t, err)
}

func TestKeyStatusWithoutKey(t *testing.T) {
	db := scratch(t)
	out, err := run(t, db, "key", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No API key configured")
}

func TestVersion(t *testing.T) {
	db := scratch(t)
	out, err := run(t, db, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "glyphwrite "), out)
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}
