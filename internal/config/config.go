package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration. The decks directory is injected
// here rather than discovered relative to the binary; tests point it at a
// t.TempDir().
type Config struct {
	// DecksDir is the storage root holding one JSON file per deck.
	// Defaults to <base>/decks.
	DecksDir string `json:"decks_dir,omitempty"`

	// Bind and Port control the HTTP API listener.
	Bind string `json:"bind,omitempty"`
	Port int    `json:"port,omitempty"`

	// CORSOrigins is the list of origins allowed by the HTTP API.
	CORSOrigins []string `json:"cors_origins,omitempty"`

	// GeminiModel names the completion model used for deck generation.
	// The API key is read from the GEMINI_API_KEY environment variable.
	GeminiModel string `json:"gemini_model,omitempty"`

	// DefaultCardCount is the card count requested when a generation call
	// does not specify one. Capped at the deck card limit.
	DefaultCardCount int `json:"default_card_count,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration rooted at baseDir.
func DefaultConfig(baseDir string) *Config {
	return &Config{
		DecksDir:         filepath.Join(baseDir, "decks"),
		Bind:             "127.0.0.1",
		Port:             8475,
		CORSOrigins:      []string{"http://localhost:5173"},
		GeminiModel:      "gemini-2.0-flash",
		DefaultCardCount: 15,
	}
}

// Load loads configuration from baseDir/config.json, merged over defaults.
// A missing file yields the defaults.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(baseDir), cfg), nil
}

// loadFileRaw loads configuration from a specific file path. Returns a
// zero-valued config (not defaults) if the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values win for scalars;
// arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DecksDir = overlay.DecksDir
	if result.DecksDir == "" {
		result.DecksDir = base.DecksDir
	}
	result.Bind = overlay.Bind
	if result.Bind == "" {
		result.Bind = base.Bind
	}
	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}
	result.GeminiModel = overlay.GeminiModel
	if result.GeminiModel == "" {
		result.GeminiModel = base.GeminiModel
	}
	result.DefaultCardCount = overlay.DefaultCardCount
	if result.DefaultCardCount == 0 {
		result.DefaultCardCount = base.DefaultCardCount
	}

	result.CORSOrigins = mergeStringSlice(base.CORSOrigins, overlay.CORSOrigins)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes
// duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
