package config

import "strings"

type Provider string

const (
	ProviderBasic  Provider = "basic"
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

func SupportedProviders() []Provider {
	return []Provider{
		ProviderBasic,
		ProviderOpenAI,
		ProviderOllama,
		ProviderGemini,
	}
}

// ParseProvider normalizes a provider name. The empty string selects the
// template generator.
func ParseProvider(name string) (Provider, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ProviderBasic, true
	}
	for _, p := range SupportedProviders() {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

func ProviderNames() []string {
	names := make([]string, 0, len(SupportedProviders()))
	for _, p := range SupportedProviders() {
		names = append(names, string(p))
	}
	return names
}
