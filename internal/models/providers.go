package models

import "fmt"

// Provider describes one LLM provider the backend can dispatch to
type Provider struct {
	Key    string
	Name   string
	Models []string
}

// Providers is the catalog of supported providers and their models
var Providers = []Provider{
	{
		Key:    "ollama",
		Name:   "Ollama",
		Models: []string{"gemma3:latest", "llama3.2:1b"},
	},
	{
		Key:    "google",
		Name:   "Google GenAI",
		Models: []string{"gemini-2.0-flash"},
	},
}

// LookupProvider finds a provider by its key
func LookupProvider(key string) (Provider, error) {
	for _, p := range Providers {
		if p.Key == key {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("unknown model provider: %q", key)
}

// ValidateModel checks that the model belongs to the provider's catalog
func ValidateModel(providerKey, model string) error {
	provider, err := LookupProvider(providerKey)
	if err != nil {
		return err
	}
	for _, m := range provider.Models {
		if m == model {
			return nil
		}
	}
	return fmt.Errorf("model %q is not available for provider %q", model, providerKey)
}
