package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSheetID, c.SheetID)
	assert.Equal(t, "gemini", c.Provider)
	assert.Equal(t, "gemini-2.0-flash", c.Model)
	assert.Equal(t, 1024, c.MaxTokens)
	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 60*time.Second, c.HTTPTimeout())
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/"+DefaultSheetID+"/export?format=csv", c.SurveySource())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	in := &Global{SheetID: "abc", Provider: "ollama", Model: "llama3.1:8b-instruct", MaxTokens: 256, ListenAddr: ":9090"}
	require.NoError(t, Save(in, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", out.SheetID)
	assert.Equal(t, "ollama", out.Provider)
	assert.Equal(t, 256, out.MaxTokens)
	assert.Equal(t, ":9090", out.ListenAddr)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: from-file\nlisten_addr: \":7000\"\n"), 0o644))
	t.Setenv("SURVEYDASH_MODEL", "from-env")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Model)
	assert.Equal(t, ":7000", c.ListenAddr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Provider)
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unterminated\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSurveySourcePrecedence(t *testing.T) {
	c := &Global{SheetID: "id", CSVURL: "https://example.com/x.csv", Source: "local.xlsx"}
	assert.Equal(t, "local.xlsx", c.SurveySource())
	c.Source = ""
	assert.Equal(t, "https://example.com/x.csv", c.SurveySource())
	c.CSVURL, c.SheetID = "", ""
	assert.Equal(t, "", c.SurveySource())
}
