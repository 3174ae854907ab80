package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	P        float64 `yaml:"p"`
	K        float64 `yaml:"k"`
	Prompt   string  `yaml:"prompt"` // empty selects the session default
	LogLevel string  `yaml:"log_level"`

	Market MarketConfig `yaml:"market"`
}

// MarketConfig selects a Polymarket outcome token whose best ask sets k.
type MarketConfig struct {
	TokenID string        `yaml:"token_id"`
	Timeout time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		P:        0.75,
		K:        1.0,
		LogLevel: "info",
		Market: MarketConfig{
			Timeout: 10 * time.Second,
		},
	}
}

func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("STAKE_P")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.P = f
		} else {
			log.Printf("warning: ignoring STAKE_P=%q: %v", v, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv("STAKE_K")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.K = f
		} else {
			log.Printf("warning: ignoring STAKE_K=%q: %v", v, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv("STAKE_TOKEN_ID")); v != "" {
		c.Market.TokenID = v
	}
	if v := strings.TrimSpace(os.Getenv("STAKE_LOG_LEVEL")); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}
