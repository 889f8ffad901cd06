package main

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/charmbracelet/log"
)

// AccessConfig is the session access policy gating the command webhook.
// Entries are "{type}_{id}" session keys, e.g. "group_12345"; "{type}_*"
// matches every session of that type.
type AccessConfig struct {
	Mode      string   `json:"mode"` // "whitelist" or "blacklist"
	Whitelist []string `json:"whitelist"`
	Blacklist []string `json:"blacklist"`
}

// LoadAccessConfig loads the access policy from a JSON file.
// If the file doesn't exist, returns the built-in default config.
func LoadAccessConfig(path string, logger *log.Logger) *AccessConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Info("access config not found, using built-in defaults", "path", path)
		return defaultAccessConfig()
	}

	var cfg AccessConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		logger.Warn("failed to parse access config, using built-in defaults", "path", path, "error", err)
		return defaultAccessConfig()
	}
	if cfg.Mode != "whitelist" && cfg.Mode != "blacklist" {
		logger.Warn("unknown access mode, using built-in defaults", "mode", cfg.Mode)
		return defaultAccessConfig()
	}

	logger.Info("loaded access config", "path", path, "mode", cfg.Mode)
	return &cfg
}

// Allow reports whether a session may use the plugin. A wildcard entry for the
// session's type short-circuits: it grants access under whitelist mode and
// denies it under blacklist mode. Otherwise the exact session key decides.
func (ac *AccessConfig) Allow(launcherType, launcherID string) bool {
	sessions := ac.sessions()

	if slices.Contains(sessions, launcherType+"_*") {
		return ac.Mode == "whitelist"
	}

	inList := slices.Contains(sessions, launcherType+"_"+launcherID)
	if ac.Mode == "whitelist" {
		return inList
	}
	return !inList
}

func (ac *AccessConfig) sessions() []string {
	if ac.Mode == "whitelist" {
		return ac.Whitelist
	}
	return ac.Blacklist
}

// defaultAccessConfig allows every session: blacklist mode with nothing listed.
func defaultAccessConfig() *AccessConfig {
	return &AccessConfig{Mode: "blacklist"}
}
