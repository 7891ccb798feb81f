package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkbench.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[experiments]
root = "/data/experiments"
allow_single_field = true

[linker]
provider = "falcon"
timeout = "5s"

[retry]
wait = "1s"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/experiments", cfg.Experiments.Root)
	assert.Equal(t, ".debug", cfg.Experiments.Ext)
	assert.True(t, cfg.Experiments.AllowSingleField)
	assert.Equal(t, "falcon", cfg.Linker.Provider)
	assert.Equal(t, 5*time.Second, cfg.Linker.Timeout.Duration)
	assert.Equal(t, time.Second, cfg.Retry.Wait.Duration)
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)
	assert.Equal(t, "questions_model", cfg.Linker.Model)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[retry]\nwait = \"soon\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Default().Linker, cfg.Linker)

	_, err = Resolve("missing.toml")
	assert.Error(t, err)
}

func TestResolveSkipsLinkerChecks(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LINKBENCH_LINKER", "azure")
	t.Setenv("LINKBENCH_CONCURRENCY", "0")

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "azure", cfg.Linker.Provider)
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownProvider)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LINKBENCH_LINKER":      "llm",
		"LLM_PROVIDER":          "claude",
		"LLM_API_KEY":           "secret",
		"MEMGRAPH_URI":          "bolt://graph:7687",
		"LINKBENCH_CONCURRENCY": "4",
		"PORT":                  "9090",
	}
	cfg := Default()
	ApplyEnv(cfg, func(k string) string { return env[k] })

	assert.Equal(t, "llm", cfg.Linker.Provider)
	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, "bolt://graph:7687", cfg.Memgraph.URI)
	assert.Equal(t, 4, cfg.Concurrency.Link)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gpt-oss:latest", cfg.LLM.Model)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Linker.Provider = "azure"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownProvider)

	cfg = Default()
	cfg.Retry.MaxAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Concurrency.Link = 0
	assert.Error(t, cfg.Validate())
}
