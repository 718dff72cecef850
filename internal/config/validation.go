package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Cyclone1070/projectgen/internal/prompts"
)

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	// Agent
	if c.Agent.StepBudget < 1 {
		errs = append(errs, "agent.step_budget must be >= 1")
	}
	if c.Agent.Temperature < 0 || c.Agent.Temperature > 2 {
		errs = append(errs, "agent.temperature must be between 0 and 2")
	}
	if c.Agent.MaxRetries < 1 {
		errs = append(errs, "agent.max_retries must be >= 1")
	}

	// Provider
	switch c.Provider.Name {
	case "openai", "gemini":
	default:
		errs = append(errs, fmt.Sprintf("provider.name must be \"openai\" or \"gemini\", got %q", c.Provider.Name))
	}
	if c.Provider.Model == "" {
		errs = append(errs, "provider.model must not be empty")
	}
	if c.Provider.APIKeyEnv == "" {
		errs = append(errs, "provider.api_key_env must not be empty")
	}

	// Tools
	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}
	if c.Tools.MaxCommandOutputSize < 1 {
		errs = append(errs, "tools.max_command_output_size must be >= 1")
	}
	if c.Tools.ShellTimeout < 1 {
		errs = append(errs, "tools.shell_timeout must be >= 1")
	}
	if c.Tools.GracefulShutdownMs < 1 {
		errs = append(errs, "tools.graceful_shutdown_ms must be >= 1")
	}
	if c.Tools.PythonBinary == "" {
		errs = append(errs, "tools.python_binary must not be empty")
	}
	for _, pattern := range c.Tools.ProtectedPaths {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Sprintf("tools.protected_paths contains invalid glob %q", pattern))
		}
	}

	// Search
	if c.Search.Endpoint == "" {
		errs = append(errs, "search.endpoint must not be empty")
	}
	if c.Search.Results < 1 || c.Search.Results > 10 {
		errs = append(errs, "search.results must be between 1 and 10")
	}
	if c.Search.PageTextLimit < 1 {
		errs = append(errs, "search.page_text_limit must be >= 1")
	}
	if c.Search.TimeoutSeconds < 1 {
		errs = append(errs, "search.timeout_seconds must be >= 1")
	}

	// Agents
	for _, kind := range slices.Sorted(maps.Keys(c.Agents)) {
		o := c.Agents[kind]
		if !knownAgent(kind) {
			errs = append(errs, fmt.Sprintf("agents.%s is not a known agent", kind))
		}
		if o.Temperature != nil && (*o.Temperature < 0 || *o.Temperature > 2) {
			errs = append(errs, fmt.Sprintf("agents.%s.temperature must be between 0 and 2", kind))
		}
	}

	// UI
	if c.UI.Width < 20 {
		errs = append(errs, "ui.width must be >= 20")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func knownAgent(kind string) bool {
	return slices.Contains(prompts.Kinds(), prompts.Kind(kind))
}

