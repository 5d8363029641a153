package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	domainErrors "github.com/thomas-vilte/prsummarizer/internal/errors"
	"github.com/thomas-vilte/prsummarizer/internal/heuristics"
)

type (
	Config struct {
		Language        string       `toml:"language"`
		DefaultProvider string       `toml:"default_provider"`
		GitHub          GitHubConfig `toml:"github"`
		OpenAI          OpenAIConfig `toml:"openai"`
		Ollama          OllamaConfig `toml:"ollama"`
		Gemini          GeminiConfig `toml:"gemini"`
		Risk            RiskConfig   `toml:"risk"`
		Server          ServerConfig `toml:"server"`

		// PathFile is where the config was read from, empty when no file exists.
		PathFile string `toml:"-"`
	}

	GitHubConfig struct {
		Token  string `toml:"token"`
		APIURL string `toml:"api_url"`
	}

	OpenAIConfig struct {
		APIKey  string `toml:"api_key"`
		Model   string `toml:"model"`
		BaseURL string `toml:"base_url"`
	}

	OllamaConfig struct {
		BaseURL        string `toml:"base_url"`
		Model          string `toml:"model"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	}

	GeminiConfig struct {
		APIKey string `toml:"api_key"`
		Model  string `toml:"model"`
	}

	// RiskConfig overrides the risk classifier. Empty lists and zero
	// thresholds keep the defaults.
	RiskConfig struct {
		HighRiskKeywords    []string `toml:"high_risk_keywords"`
		MediumRiskKeywords  []string `toml:"medium_risk_keywords"`
		CriticalExtensions  []string `toml:"critical_extensions"`
		HighCriticalFiles   int      `toml:"high_critical_files"`
		MediumCriticalFiles int      `toml:"medium_critical_files"`
		MediumKeywordHits   int      `toml:"medium_keyword_hits"`
	}

	ServerConfig struct {
		Addr string `toml:"addr"`
	}
)

const (
	configDirName  = ".pr-summarizer"
	configFileName = "config.toml"

	defaultLang        = LangEN
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama2"
	defaultOllamaTTL   = 120
	defaultServerAddr  = ":5002"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

func Default() *Config {
	return &Config{
		Language:        defaultLang,
		DefaultProvider: string(ProviderBasic),
		Ollama: OllamaConfig{
			BaseURL:        defaultOllamaURL,
			Model:          defaultOllamaModel,
			TimeoutSeconds: defaultOllamaTTL,
		},
		Server: ServerConfig{
			Addr: defaultServerAddr,
		},
	}
}

// DefaultPath returns ~/.pr-summarizer/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// LoadConfig reads the TOML file at path, overlays the process environment
// and validates the result. An empty path means DefaultPath, which may be
// absent; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	return Load(path, os.LookupEnv)
}

func Load(path string, lookup LookupFunc) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, domainErrors.ErrInvalidConfig.WithError(err)
		}
		path = p
	}

	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, domainErrors.ErrInvalidConfig.
				WithContext("detail", "cannot read "+path).
				WithError(err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, domainErrors.ErrInvalidConfig.
				WithContext("detail", "cannot parse "+path).
				WithError(err)
		}
		cfg.PathFile = path
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides file values with any set environment variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set("PR_SUMMARIZER_LANG", &c.Language)
	set("PR_SUMMARIZER_PROVIDER", &c.DefaultProvider)
	set("GITHUB_TOKEN", &c.GitHub.Token)
	set("GITHUB_API_URL", &c.GitHub.APIURL)
	set("OPENAI_API_KEY", &c.OpenAI.APIKey)
	set("OPENAI_MODEL", &c.OpenAI.Model)
	set("OPENAI_BASE_URL", &c.OpenAI.BaseURL)
	set("OLLAMA_BASE_URL", &c.Ollama.BaseURL)
	set("OLLAMA_MODEL", &c.Ollama.Model)
	set("GEMINI_API_KEY", &c.Gemini.APIKey)
	set("GEMINI_MODEL", &c.Gemini.Model)

	if v, ok := lookup("OLLAMA_TIMEOUT_SECONDS"); ok && v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return domainErrors.ErrInvalidConfig.
				WithContext("detail", "OLLAMA_TIMEOUT_SECONDS must be an integer").
				WithError(err)
		}
		c.Ollama.TimeoutSeconds = secs
	}

	return nil
}

func (c *Config) Validate() error {
	if !IsSupportedLanguage(c.Language) {
		return domainErrors.ErrInvalidConfig.
			WithContext("detail", fmt.Sprintf("unsupported language %q", c.Language))
	}
	if _, ok := ParseProvider(c.DefaultProvider); !ok {
		return domainErrors.ErrInvalidConfig.
			WithContext("detail", fmt.Sprintf("unknown default_provider %q", c.DefaultProvider))
	}
	if c.Ollama.TimeoutSeconds < 0 {
		return domainErrors.ErrInvalidConfig.
			WithContext("detail", "ollama.timeout_seconds cannot be negative")
	}
	if c.Risk.HighCriticalFiles < 0 || c.Risk.MediumCriticalFiles < 0 || c.Risk.MediumKeywordHits < 0 {
		return domainErrors.ErrInvalidConfig.
			WithContext("detail", "risk thresholds cannot be negative")
	}
	return nil
}

func (c *Config) OllamaTimeout() time.Duration {
	if c.Ollama.TimeoutSeconds <= 0 {
		return defaultOllamaTTL * time.Second
	}
	return time.Duration(c.Ollama.TimeoutSeconds) * time.Second
}

// RiskPolicy merges the [risk] overrides into the default policy.
func (c *Config) RiskPolicy() heuristics.RiskPolicy {
	policy := heuristics.DefaultRiskPolicy()
	if len(c.Risk.HighRiskKeywords) > 0 {
		policy.HighRiskKeywords = c.Risk.HighRiskKeywords
	}
	if len(c.Risk.MediumRiskKeywords) > 0 {
		policy.MediumRiskKeywords = c.Risk.MediumRiskKeywords
	}
	if len(c.Risk.CriticalExtensions) > 0 {
		policy.CriticalExtensions = c.Risk.CriticalExtensions
	}
	if c.Risk.HighCriticalFiles > 0 {
		policy.HighCriticalFiles = c.Risk.HighCriticalFiles
	}
	if c.Risk.MediumCriticalFiles > 0 {
		policy.MediumCriticalFiles = c.Risk.MediumCriticalFiles
	}
	if c.Risk.MediumKeywordHits > 0 {
		policy.MediumKeywordHits = c.Risk.MediumKeywordHits
	}
	return policy
}
