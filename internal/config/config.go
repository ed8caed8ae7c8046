package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config enthält alle Konfigurationseinstellungen
type Config struct {
	// Server-Einstellungen
	ServerPort string `json:"server_port"`
	BaseURL    string `json:"base_url"`

	// Pfade
	DocumentsPath string `json:"documents_path"`
	DatabasePath  string `json:"database_path"`

	// Gemini-Einstellungen (API-Key nur über Umgebung, nie in der Datei)
	GeminiAPIKey string `json:"-"`
	GeminiModel  string `json:"gemini_model"`
}

// Default gibt die Standardkonfiguration zurück
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		ServerPort:    "8080",
		BaseURL:       "http://localhost:8080",
		DocumentsPath: filepath.Join(homeDir, "unishare-documents"),
		DatabasePath:  "unishare.db",
		GeminiModel:   "gemini-3-flash-preview",
	}
}

// Load lädt die Konfiguration aus einer Datei und übernimmt Umgebungsvariablen
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		cfg.applyEnv()
		return cfg, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		cfg.applyEnv()
		return cfg, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save speichert die Konfiguration in eine Datei
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.ServerPort = v
	}
}
