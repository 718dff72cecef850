package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

const configPath = "/home/user/.config/projectgen/config.json"

func loaderWith(content string) *Loader {
	return NewLoaderWithFS(&MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{configPath: []byte(content)},
	})
}

// --- HAPPY PATH TESTS ---

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{HomeDir: "/home/user", Files: map[string][]byte{}}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Agent.StepBudget)
	assert.Equal(t, "CEREBRAS_API_KEY", cfg.Provider.APIKeyEnv)
	assert.Equal(t, 300, cfg.Tools.ShellTimeout)
	assert.Equal(t, 5, cfg.Search.Results)
}

func TestLoad_PartialOverride_MergesWithDefaults(t *testing.T) {
	cfg, err := loaderWith(`{"agent": {"step_budget": 25}, "provider": {"model": "llama-3.3-70b"}}`).Load()

	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Agent.StepBudget)
	assert.Equal(t, "llama-3.3-70b", cfg.Provider.Model)
	assert.Equal(t, 3, cfg.Agent.MaxRetries)
	assert.Equal(t, "https://api.cerebras.ai/v1", cfg.Provider.BaseURL)
}

func TestLoad_ExplicitFalse_Overrides(t *testing.T) {
	cfg, err := loaderWith(`{"agent": {"stream": false}, "tools": {"respect_gitignore": false}}`).Load()

	require.NoError(t, err)
	assert.False(t, cfg.Agent.Stream)
	assert.False(t, cfg.Tools.RespectGitignore)
}

func TestLoad_PolicyAllowList(t *testing.T) {
	cfg, err := loaderWith(`{"policy": {"allow": ["read_file", "list_directory"]}}`).Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"read_file", "list_directory"}, cfg.Policy.Allow)
}

func TestLoad_EmptyProtectedPaths_ReplacesDefault(t *testing.T) {
	cfg, err := loaderWith(`{"tools": {"protected_paths": []}}`).Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.Tools.ProtectedPaths)
}

// --- ERROR TESTS ---

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	cfg, err := loaderWith(`{invalid json`).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_WrongJSONType_ReturnsError(t *testing.T) {
	cfg, err := loaderWith(`["not", "an", "object"]`).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidValues_Rejected(t *testing.T) {
	cfg, err := loaderWith(`{"agent": {"step_budget": 0}}`).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "agent.step_budget")
}

func TestLoad_PermissionDenied_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{HomeDir: "/home/user", ReadFileErr: os.ErrPermission}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestLoad_HomeDirError_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{HomeDirErr: errors.New("homeless")}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Agent.StepBudget)
}

func TestLoadFrom_MissingFileIsError(t *testing.T) {
	fs := &MockFileSystem{Files: map[string][]byte{}}

	_, err := NewLoaderWithFS(fs).LoadFrom("/etc/projectgen.json")

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFrom_ReadsExplicitPath(t *testing.T) {
	fs := &MockFileSystem{Files: map[string][]byte{"/tmp/p.json": []byte(`{"provider": {"name": "gemini", "api_key_env": "GEMINI_API_KEY", "model": "gemini-2.5-flash"}}`)}}

	cfg, err := NewLoaderWithFS(fs).LoadFrom("/tmp/p.json")

	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider.Name)
	assert.Equal(t, "GEMINI_API_KEY", cfg.Provider.APIKeyEnv)
}

func TestLoad_UnknownFields_Ignored(t *testing.T) {
	cfg, err := loaderWith(`{"unknown": {"x": 1}, "agent": {"temperature": 0.7}}`).Load()

	require.NoError(t, err)
	assert.InDelta(t, 0.7, cfg.Agent.Temperature, 0.0001)
}

func TestLoadFrom_YAML(t *testing.T) {
	fs := &MockFileSystem{Files: map[string][]byte{"/tmp/p.yaml": []byte(`
provider:
  model: llama-3.3-70b
agent:
  step_budget: 40
policy:
  allow: [read_file]
tools:
  protected_paths: []
`)}}

	cfg, err := NewLoaderWithFS(fs).LoadFrom("/tmp/p.yaml")

	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b", cfg.Provider.Model)
	assert.Equal(t, 40, cfg.Agent.StepBudget)
	assert.Equal(t, []string{"read_file"}, cfg.Policy.Allow)
	assert.Empty(t, cfg.Tools.ProtectedPaths)
	assert.Equal(t, "CEREBRAS_API_KEY", cfg.Provider.APIKeyEnv)
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	fs := &MockFileSystem{Files: map[string][]byte{"/tmp/p.yml": []byte("agent: [unclosed")}}

	_, err := NewLoaderWithFS(fs).LoadFrom("/tmp/p.yml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadFrom_AgentOverrides(t *testing.T) {
	fs := &MockFileSystem{Files: map[string][]byte{"/tmp/p.yaml": []byte(`
agents:
  brainstormer:
    model: llama-3.3-70b
    temperature: 0.8
  code_gen:
    api_key_env: CODER_KEY
    system_prompt: Write Go only.
`)}}

	cfg, err := NewLoaderWithFS(fs).LoadFrom("/tmp/p.yaml")

	require.NoError(t, err)
	require.Len(t, cfg.Agents, 2)
	b := cfg.Agents["brainstormer"]
	assert.Equal(t, "llama-3.3-70b", b.Model)
	require.NotNil(t, b.Temperature)
	assert.InDelta(t, 0.8, *b.Temperature, 0.0001)
	c := cfg.Agents["code_gen"]
	assert.Equal(t, "CODER_KEY", c.APIKeyEnv)
	assert.Equal(t, "Write Go only.", c.SystemPrompt)
	assert.Nil(t, c.Temperature)
}
