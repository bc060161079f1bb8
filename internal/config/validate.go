package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. A missing LLM API key is not
// an error; the service starts and reports the answer feature as unavailable.
func (c *Config) Validate() error {
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if c.History.MaxTurns < 1 {
		return errors.New("history.max_turns must be positive")
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateAnswer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateArchive() error {
	parsed, err := url.Parse(c.Archive.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("archive.base_url must be an absolute URL, got %q", c.Archive.BaseURL)
	}
	if c.Archive.MinScriptLength < 0 {
		return errors.New("archive.min_script_length must be >= 0")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Persist && strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set when cache.persist is true")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model must be set")
	}
	if c.LLM.MaxPromptTokens < 0 {
		return errors.New("llm.max_prompt_tokens must be >= 0 (0 disables chunking)")
	}
	return nil
}

func (c *Config) validateAnswer() error {
	switch c.Answer.Mode {
	case AnswerModeStrict, AnswerModeConversational:
		return nil
	default:
		return fmt.Errorf("answer.mode must be %q or %q, got %q", AnswerModeStrict, AnswerModeConversational, c.Answer.Mode)
	}
}
