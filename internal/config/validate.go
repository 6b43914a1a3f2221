package config

import (
	"fmt"
	"net/url"
	"strings"

	"lg/nutrition-go-api/internal/nutrition"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Validate checks business rules on a loaded configuration. Load calls it.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be > 0 (got %d)", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns must be in 0..max_conns (got %d)", c.Database.MinConns)
	}
	if err := c.Suggest.validate(); err != nil {
		return fmt.Errorf("suggest: %w", err)
	}
	if c.Planner.DefaultDays < 1 || c.Planner.DefaultDays > nutrition.MaxPlanDays {
		return fmt.Errorf("planner.default_days must be in 1..%d (got %d)", nutrition.MaxPlanDays, c.Planner.DefaultDays)
	}
	return nil
}

// API keys are not required here; the suggest endpoint reports a missing key
// per request so the rest of the API still starts without one.
func (s *SuggestConfig) validate() error {
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	switch s.Provider {
	case ProviderOpenAI:
		if _, err := url.ParseRequestURI(s.OpenAIBaseURL); err != nil {
			return fmt.Errorf("openai_base_url: %w", err)
		}
	case ProviderGemini:
	default:
		return fmt.Errorf("provider must be %q or %q (got %q)", ProviderOpenAI, ProviderGemini, s.Provider)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", s.Timeout)
	}
	return nil
}

// Validate checks the CLI configuration.
func (c *ClientConfig) Validate() error {
	u, err := url.ParseRequestURI(c.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", c.Timeout)
	}
	return nil
}
