package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

type Config struct {
	ListenAddr          string `json:"listen_addr"`
	PlayerName          string `json:"player_name"`
	SaveDir             string `json:"save_dir"`
	LogLevel            string `json:"log_level"`
	LogDevelopment      bool   `json:"log_development"`
	AiThinkStepMs       int    `json:"ai_think_step_ms"`
	AiMediumJitter      int    `json:"ai_medium_jitter"`
	AiHardDepth         int    `json:"ai_hard_depth"`
	AiCandidateRadius   int    `json:"ai_candidate_radius"`
	AiEvalCacheSize     int    `json:"ai_eval_cache_size"`
	AiLogSearchStats    bool   `json:"ai_log_search_stats"`
	PeerAcceptTimeoutMs int    `json:"peer_accept_timeout_ms"`
	PeerDialTimeoutMs   int    `json:"peer_dial_timeout_ms"`
	PeerSendQueue       int    `json:"peer_send_queue"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		PlayerName: "Player",
		SaveDir:    "saves",
		LogLevel:   "info",

		// Cosmetic pacing: easy waits one step, hard three.
		AiThinkStepMs: 500,

		// Tuning constants; neither is a correctness requirement.
		AiMediumJitter:    10,
		AiHardDepth:       3,
		AiCandidateRadius: 2,

		AiEvalCacheSize:  1 << 16,
		AiLogSearchStats: false,

		PeerAcceptTimeoutMs: 30000,
		PeerDialTimeoutMs:   10000,
		PeerSendQueue:       32,
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

// LoadConfig layers an optional JSON file and then environment overrides on
// top of the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
		if err := json.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	config.ListenAddr = getenv("GOBANG_ADDR", config.ListenAddr)
	config.SaveDir = getenv("GOBANG_SAVE_DIR", config.SaveDir)
	config.PlayerName = getenv("GOBANG_PLAYER_NAME", config.PlayerName)
	config.LogLevel = getenv("GOBANG_LOG_LEVEL", config.LogLevel)
	config.AiThinkStepMs = getenvInt("GOBANG_AI_THINK_STEP_MS", config.AiThinkStepMs)
	return config, nil
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
