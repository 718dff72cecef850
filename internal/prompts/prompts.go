// Package prompts holds the system prompts of the built-in agents.
package prompts

import (
	_ "embed"
	"fmt"
)

// Kind names a built-in agent.
type Kind string

const (
	Brainstormer Kind = "brainstormer"
	WebSearcher  Kind = "web_searcher"
	CodeGen      Kind = "code_gen"
)

var (
	//go:embed brainstormer.txt
	brainstormer string
	//go:embed web_searcher.txt
	webSearcher string
	//go:embed code_gen.txt
	codeGen string
)

// Kinds lists every built-in agent.
func Kinds() []Kind {
	return []Kind{Brainstormer, WebSearcher, CodeGen}
}

// System returns the system prompt for kind.
func System(kind Kind) (string, error) {
	switch kind {
	case Brainstormer:
		return brainstormer, nil
	case WebSearcher:
		return webSearcher, nil
	case CodeGen:
		return codeGen, nil
	default:
		return "", fmt.Errorf("unknown agent kind %q", kind)
	}
}
