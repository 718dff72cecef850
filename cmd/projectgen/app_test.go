package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/projectgen/internal/config"
	"github.com/Cyclone1070/projectgen/internal/orchestration"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildRootCmd_Subcommands(t *testing.T) {
	root := buildRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"chat", "run", "invoke"})

	for _, flag := range []string{"config", "model", "provider", "workdir", "dev", "yes", "no-stream"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `{"provider": {"model": "from-file"}, "agent": {"step_budget": 7}}`)

	cfg, err := loadConfig(&globalFlags{configPath: path, model: "from-flag", dev: true, noStream: true})

	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Provider.Model)
	assert.Equal(t, 7, cfg.Agent.StepBudget)
	assert.True(t, cfg.UI.DevMode)
	assert.False(t, cfg.Agent.Stream)
}

func TestLoadConfig_InvalidProviderFlag(t *testing.T) {
	path := writeConfig(t, `{}`)

	_, err := loadConfig(&globalFlags{configPath: path, providerName: "mystery"})

	assert.Error(t, err)
}

func TestConnector(t *testing.T) {
	ctx := context.Background()

	p, err := connector(config.DefaultConfig().Provider)(ctx, "llama-3.3-70b", "key")
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b", p.Model())

	_, err = connector(config.ProviderConfig{Name: "mystery"})(ctx, "m", "key")
	assert.Error(t, err)
}

func TestNewApp_RequiresAPIKey(t *testing.T) {
	path := writeConfig(t, `{"provider": {"api_key_env": "PROJECTGEN_TEST_KEY"}}`)
	t.Setenv("PROJECTGEN_TEST_KEY", "")

	_, err := newApp(context.Background(), &globalFlags{configPath: path, workdir: t.TempDir()}, nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROJECTGEN_TEST_KEY")
}

func TestNewApp_BuildsCoderWithSearch(t *testing.T) {
	path := writeConfig(t, `{"provider": {"api_key_env": "PROJECTGEN_TEST_KEY"}}`)
	t.Setenv("PROJECTGEN_TEST_KEY", "secret")

	a, err := newApp(context.Background(), &globalFlags{configPath: path, workdir: t.TempDir(), yes: true}, nil, nil)
	require.NoError(t, err)

	coder, err := a.coder(context.Background())
	require.NoError(t, err)
	assert.Contains(t, coder.Tools().Names(), orchestration.SearcherToolName)
	assert.Contains(t, coder.Tools().Names(), "create_file")
	assert.Equal(t, "secret", a.apiKey)
}
