// Package config loads pipeline configuration from a YAML file with
// environment variable overrides. Env always wins over file values.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"dealflow/scoring"
)

// Config holds service configuration derived from the config file and
// environment variables.
type Config struct {
	DataDir            string
	IntakeDir          string
	IndexPath          string
	DemoMode           bool
	StrictConfig       bool
	SummaryIntervalSec int
	EvidenceSinks      []string
	LLM                LLMConfig
	BuyBox             scoring.BuyBox
}

// LLMConfig configures the generative backend. Enabled false (or a
// missing API key) forces the deterministic fallback paths.
type LLMConfig struct {
	Enabled    bool
	Model      string
	BaseURL    string
	APIKey     string
	TimeoutSec int
}

type fileConfig struct {
	DataDir            string          `json:"data_dir" yaml:"data_dir"`
	IntakeDir          string          `json:"intake_dir" yaml:"intake_dir"`
	IndexPath          string          `json:"index_path" yaml:"index_path"`
	SummaryIntervalSec *int            `json:"summary_interval_sec" yaml:"summary_interval_sec"`
	EvidenceSinks      []string        `json:"evidence_sinks" yaml:"evidence_sinks"`
	LLM                llmFileConfig   `json:"llm" yaml:"llm"`
	BuyBox             *scoring.BuyBox `json:"buybox" yaml:"buybox"`
}

type llmFileConfig struct {
	Enabled    *bool  `json:"enabled" yaml:"enabled"`
	Model      string `json:"model" yaml:"model"`
	BaseURL    string `json:"base_url" yaml:"base_url"`
	TimeoutSec *int   `json:"timeout_sec" yaml:"timeout_sec"`
}

const (
	defaultDataDir         = "runtime/deal_runs"
	defaultIntakeDir       = "runtime/intake"
	defaultIndexFile       = "deal_index.db"
	defaultSummaryInterval = 86400
	defaultLLMModel        = "gpt-4o-mini"
	defaultLLMBaseURL      = "https://api.openai.com"
	defaultLLMTimeoutSec   = 60
)

func defaultLLMConfig() LLMConfig {
	return LLMConfig{
		Enabled:    true,
		Model:      defaultLLMModel,
		BaseURL:    defaultLLMBaseURL,
		TimeoutSec: defaultLLMTimeoutSec,
	}
}

// Load reads configuration from the config file and environment
// variables, applying sane defaults. With STRICT_CONFIG set, any load or
// validation problem is fatal; otherwise it is logged and defaults apply.
func Load() (Config, error) {
	cfg := Config{
		DemoMode:           parseBoolEnv("DEMO_MODE"),
		StrictConfig:       parseBoolEnv("STRICT_CONFIG"),
		SummaryIntervalSec: defaultSummaryInterval,
		LLM:                defaultLLMConfig(),
		BuyBox:             scoring.DefaultBuyBox(),
	}

	configPath := getEnv("CONFIG_PATH", filepath.Join("config", "config.yaml"))
	fileCfg, fileErr := loadFileConfig(configPath)
	if fileErr != nil {
		if cfg.StrictConfig {
			return cfg, fmt.Errorf("config load failed (%s): %w", configPath, fileErr)
		}
		log.Printf("config load failed (%s): %v (using defaults)", configPath, fileErr)
	}

	cfg.DataDir = firstNonEmpty(os.Getenv("DATA_DIR"), fileCfg.DataDir, defaultDataDir)
	cfg.IntakeDir = firstNonEmpty(os.Getenv("INTAKE_DIR"), fileCfg.IntakeDir, defaultIntakeDir)
	if indexPath := os.Getenv("INDEX_PATH"); indexPath != "" {
		cfg.IndexPath = indexPath
	} else if fileCfg.IndexPath != "" {
		cfg.IndexPath = fileCfg.IndexPath
	} else {
		cfg.IndexPath = filepath.Join(cfg.DataDir, defaultIndexFile)
	}

	if fileCfg.SummaryIntervalSec != nil && *fileCfg.SummaryIntervalSec > 0 {
		cfg.SummaryIntervalSec = *fileCfg.SummaryIntervalSec
	}
	if v, ok, err := parseIntEnv("SUMMARY_INTERVAL_SEC"); err != nil {
		if cfg.StrictConfig {
			return cfg, fmt.Errorf("invalid SUMMARY_INTERVAL_SEC: %w", err)
		}
		log.Printf("invalid SUMMARY_INTERVAL_SEC: %v (using default)", err)
	} else if ok && v > 0 {
		cfg.SummaryIntervalSec = v
	}

	cfg.EvidenceSinks = fileCfg.EvidenceSinks
	if v := strings.TrimSpace(os.Getenv("EVIDENCE_SINKS")); v != "" {
		cfg.EvidenceSinks = splitList(v)
	}
	if len(cfg.EvidenceSinks) == 0 {
		cfg.EvidenceSinks = []string{"compliance_archive"}
	}

	cfg.LLM = applyLLMOverrides(cfg.LLM, fileCfg.LLM)
	if v := os.Getenv("LLM_ENABLED"); strings.TrimSpace(v) != "" {
		cfg.LLM.Enabled = parseBoolEnv("LLM_ENABLED")
	}
	if v := strings.TrimSpace(os.Getenv("LLM_MODEL")); v != "" {
		cfg.LLM.Model = v
	}
	cfg.LLM.BaseURL = firstNonEmpty(
		os.Getenv("LLM_BASE_URL"),
		os.Getenv("OPENAI_BASE_URL"),
		cfg.LLM.BaseURL,
	)
	cfg.LLM.APIKey = firstNonEmpty(os.Getenv("LLM_API_KEY"), os.Getenv("OPENAI_API_KEY"))
	if v, ok, err := parseIntEnv("LLM_TIMEOUT_SEC"); err != nil {
		if cfg.StrictConfig {
			return cfg, fmt.Errorf("invalid LLM_TIMEOUT_SEC: %w", err)
		}
		log.Printf("invalid LLM_TIMEOUT_SEC: %v (using default)", err)
	} else if ok && v > 0 {
		cfg.LLM.TimeoutSec = v
	}

	if fileCfg.BuyBox != nil {
		cfg.BuyBox = mergeBuyBox(cfg.BuyBox, *fileCfg.BuyBox)
	}

	if err := validateConfig(cfg); err != nil {
		if cfg.StrictConfig {
			return cfg, err
		}
		log.Printf("config validation failed: %v (continuing)", err)
	}

	return cfg, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if len(data) == 0 {
		return cfg, errors.New("empty config file")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("DATA_DIR is required")
	}
	if strings.TrimSpace(cfg.IntakeDir) == "" {
		return errors.New("INTAKE_DIR is required")
	}
	if cfg.SummaryIntervalSec <= 0 {
		return errors.New("summary interval must be positive")
	}
	if cfg.BuyBox.MinCapRate > cfg.BuyBox.MaxCapRate {
		return fmt.Errorf("buybox min_cap_rate %v exceeds max_cap_rate %v", cfg.BuyBox.MinCapRate, cfg.BuyBox.MaxCapRate)
	}
	if cfg.BuyBox.MinDealSize > cfg.BuyBox.MaxDealSize {
		return fmt.Errorf("buybox min_deal_size %v exceeds max_deal_size %v", cfg.BuyBox.MinDealSize, cfg.BuyBox.MaxDealSize)
	}
	if cfg.LLM.Enabled && strings.TrimSpace(cfg.LLM.BaseURL) == "" {
		return errors.New("llm base_url is required when llm is enabled")
	}
	return nil
}

func applyLLMOverrides(base LLMConfig, override llmFileConfig) LLMConfig {
	if override.Enabled != nil {
		base.Enabled = *override.Enabled
	}
	if strings.TrimSpace(override.Model) != "" {
		base.Model = strings.TrimSpace(override.Model)
	}
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = strings.TrimSpace(override.BaseURL)
	}
	if override.TimeoutSec != nil && *override.TimeoutSec > 0 {
		base.TimeoutSec = *override.TimeoutSec
	}
	return base
}

// mergeBuyBox overlays non-zero file values on the defaults, so a
// partial buybox section only overrides what it names.
func mergeBuyBox(base, override scoring.BuyBox) scoring.BuyBox {
	if override.MinCapRate > 0 {
		base.MinCapRate = override.MinCapRate
	}
	if override.MaxCapRate > 0 {
		base.MaxCapRate = override.MaxCapRate
	}
	if override.MaxLTV > 0 {
		base.MaxLTV = override.MaxLTV
	}
	if override.MinDealSize > 0 {
		base.MinDealSize = override.MinDealSize
	}
	if override.MaxDealSize > 0 {
		base.MaxDealSize = override.MaxDealSize
	}
	if len(override.PreferredMarkets) > 0 {
		base.PreferredMarkets = override.PreferredMarkets
	}
	if len(override.PreferredPropertyTypes) > 0 {
		base.PreferredPropertyTypes = override.PreferredPropertyTypes
	}
	return base
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if strings.TrimSpace(val) != "" {
			return val
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "1" || v == "true" || v == "yes" || v == "on" {
		return true
	}
	return false
}

func parseIntEnv(key string) (int, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	val, err := strconv.Atoi(raw)
	return val, true, err
}
