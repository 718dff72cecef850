package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Agent    AgentConfig    `json:"agent" yaml:"agent"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Tools    ToolsConfig    `json:"tools" yaml:"tools"`
	Search   SearchConfig   `json:"search" yaml:"search"`
	Policy   PolicyConfig   `json:"policy" yaml:"policy"`
	UI       UIConfig       `json:"ui" yaml:"ui"`
	// Agents overrides settings per agent kind: "brainstormer",
	// "web_searcher" or "code_gen".
	Agents map[string]AgentOverride `json:"agents" yaml:"agents"`
}

type AgentConfig struct {
	StepBudget      int     `json:"step_budget" yaml:"step_budget"`           // Default: 100 model calls per turn
	Temperature     float32 `json:"temperature" yaml:"temperature"`           // Default: 0
	MaxRetries      int     `json:"max_retries" yaml:"max_retries"`           // Default: 3 (transient provider errors)
	IncludeThinking bool    `json:"include_thinking" yaml:"include_thinking"` // Default: false
	Stream          bool    `json:"stream" yaml:"stream"`                     // Default: true
}

// AgentOverride replaces global settings for one agent kind. Unset fields
// fall back to provider.model, provider.api_key_env, agent.temperature and
// the built-in system prompt.
type AgentOverride struct {
	Model        string   `json:"model" yaml:"model"`
	APIKeyEnv    string   `json:"api_key_env" yaml:"api_key_env"`
	Temperature  *float32 `json:"temperature" yaml:"temperature"`
	SystemPrompt string   `json:"system_prompt" yaml:"system_prompt"`
}

type ProviderConfig struct {
	Name      string `json:"name" yaml:"name"`               // "openai" (any OpenAI-compatible API) or "gemini"
	Model     string `json:"model" yaml:"model"`             // Default: qwen-3-235b-a22b-thinking-2507
	BaseURL   string `json:"base_url" yaml:"base_url"`       // Default: https://api.cerebras.ai/v1
	APIKeyEnv string `json:"api_key_env" yaml:"api_key_env"` // Default: CEREBRAS_API_KEY
}

type ToolsConfig struct {
	MaxFileSize          int64    `json:"max_file_size" yaml:"max_file_size"`                     // Default: 20 * 1024 * 1024 (20MB)
	MaxCommandOutputSize int64    `json:"max_command_output_size" yaml:"max_command_output_size"` // Default: 10 * 1024 * 1024 (10MB)
	ShellTimeout         int      `json:"shell_timeout" yaml:"shell_timeout"`                     // Default: 300 (seconds)
	GracefulShutdownMs   int      `json:"graceful_shutdown_ms" yaml:"graceful_shutdown_ms"`       // Default: 2000
	ProtectedPaths       []string `json:"protected_paths" yaml:"protected_paths"`                 // doublestar globs, relative to the workspace
	RespectGitignore     bool     `json:"respect_gitignore" yaml:"respect_gitignore"`             // Default: true
	PythonBinary         string   `json:"python_binary" yaml:"python_binary"`                     // Default: python3
}

type SearchConfig struct {
	Endpoint       string `json:"endpoint" yaml:"endpoint"`
	APIKeyEnv      string `json:"api_key_env" yaml:"api_key_env"`         // Default: GOOGLE_SEARCH_API_KEY
	EngineIDEnv    string `json:"engine_id_env" yaml:"engine_id_env"`     // Default: SEARCH_ENGINE_ID
	Results        int    `json:"results" yaml:"results"`                 // Default: 5
	PageTextLimit  int    `json:"page_text_limit" yaml:"page_text_limit"` // Default: 1000 characters
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"` // Default: 10
}

type PolicyConfig struct {
	// Allow lists tools that never prompt for permission.
	Allow []string `json:"allow" yaml:"allow"`
}

type UIConfig struct {
	DevMode  bool `json:"dev_mode" yaml:"dev_mode"` // show full error chains
	Markdown bool `json:"markdown" yaml:"markdown"` // Default: true
	Width    int  `json:"width" yaml:"width"`       // Default: 100
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			StepBudget:  100,
			Temperature: 0,
			MaxRetries:  3,
			Stream:      true,
		},
		Provider: ProviderConfig{
			Name:      "openai",
			Model:     "qwen-3-235b-a22b-thinking-2507",
			BaseURL:   "https://api.cerebras.ai/v1",
			APIKeyEnv: "CEREBRAS_API_KEY",
		},
		Tools: ToolsConfig{
			MaxFileSize:          20 * 1024 * 1024,
			MaxCommandOutputSize: 10 * 1024 * 1024,
			ShellTimeout:         300,
			GracefulShutdownMs:   2000,
			ProtectedPaths:       []string{".git", ".git/**"},
			RespectGitignore:     true,
			PythonBinary:         "python3",
		},
		Search: SearchConfig{
			Endpoint:       "https://customsearch.googleapis.com/customsearch/v1",
			APIKeyEnv:      "GOOGLE_SEARCH_API_KEY",
			EngineIDEnv:    "SEARCH_ENGINE_ID",
			Results:        5,
			PageTextLimit:  1000,
			TimeoutSeconds: 10,
		},
		UI: UIConfig{
			Markdown: true,
			Width:    100,
		},
	}
}
