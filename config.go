package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// config represents a weakforth.toml session configuration.
type config struct {
	Prompt  promptConfig  `toml:"prompt"`
	Session sessionConfig `toml:"session"`
}

// promptConfig overrides the prompt strings; nil fields keep the default.
type promptConfig struct {
	Execute *string `toml:"execute"`
	Compile *string `toml:"compile"`
}

type sessionConfig struct {
	Prelude  bool   `toml:"prelude"`
	Timeout  string `toml:"timeout"`
	RetLimit int    `toml:"return-stack-limit"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var cfg config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if _, err := cfg.timeout(); err != nil {
		return nil, fmt.Errorf("invalid session timeout in %s: %w", path, err)
	}
	return &cfg, nil
}

func (cfg *config) timeout() (time.Duration, error) {
	if cfg.Session.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(cfg.Session.Timeout)
}

func (cfg *config) prompts() (execute, compile string) {
	execute, compile = defaultExecutePrompt, defaultCompilePrompt
	if p := cfg.Prompt.Execute; p != nil {
		execute = *p
	}
	if p := cfg.Prompt.Compile; p != nil {
		compile = *p
	}
	return execute, compile
}
