package factory

import (
	"fmt"

	"ai-memo-be/internal/config"
	"ai-memo-be/pkg/llm"
	"ai-memo-be/pkg/llm/gemini"
	"ai-memo-be/pkg/llm/huggingface"
	"ai-memo-be/pkg/llm/ollama"
)

func NewLLMProvider(cfg config.AIConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewGeminiProvider(cfg.GeminiAPIKey, cfg.Model), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.HuggingFaceAPIKey, "", cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
