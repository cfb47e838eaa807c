package inference

import "textdigest/internal/config"

// testConfig builds a minimal config for provider selection tests
func testConfig(provider, key string) *config.Config {
	return &config.Config{
		Provider:           provider,
		HuggingFaceAPIKey:  key,
		HuggingFaceBaseURL: "https://api-inference.huggingface.co",
		SummarizerModel:    "facebook/bart-large-cnn",
		QAModel:            "deepset/bert-base-cased-squad2",
		OpenAIAPIKey:       key,
		OpenAIModel:        "gpt-4o-mini",
	}
}
