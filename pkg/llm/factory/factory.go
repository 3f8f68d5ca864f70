package factory

import (
	"fmt"

	"admissions-chatbot-be/pkg/llm"
	"admissions-chatbot-be/pkg/llm/huggingface"
	"admissions-chatbot-be/pkg/llm/ollama"
	"admissions-chatbot-be/pkg/llm/openaiprovider"
)

// NewLLMProvider selects the answer-generator backend by name. OpenAI is the
// production default; ollama and huggingface exist for local development.
func NewLLMProvider(providerType, apiKey, modelName, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		return openaiprovider.NewOpenAIProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
