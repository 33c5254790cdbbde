// internal/llm/factory/factory.go
package factory

import (
	"ballast/internal/config"
	"ballast/internal/core"
	"ballast/internal/llm"
	"ballast/internal/llm/claude"
	"ballast/internal/llm/ollama"
	"ballast/internal/llm/openai"
)

// New creates an LLM provider based on configuration.
func New(cfg config.CommentaryConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "claude":
		return claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "ollama":
		return ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	default:
		return nil, core.Wrapf(core.ErrConfigInvalid, "unknown commentary provider: %s", cfg.Provider)
	}
}
