package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where nutrisense stores its own data
	DSN string
	// Driver is the database driver (sqlite only for now)
	Driver string
	// Version is the current version of server
	Version string

	// Gemini configuration. The generation upstream is consumed through its
	// OpenAI-compatible endpoint.
	GeminiAPIKey  string // NUTRISENSE_GEMINI_API_KEY (legacy: GEMINI_API_KEY)
	GeminiBaseURL string // NUTRISENSE_GEMINI_BASE_URL
	GeminiModel   string // NUTRISENSE_GEMINI_MODEL (default: gemini-2.5-flash)

	// Places configuration.
	PlacesAPIKey   string // NUTRISENSE_PLACES_API_KEY (legacy: GOOGLE_MAPS_API_KEY)
	PlacesBaseURL  string // NUTRISENSE_PLACES_BASE_URL
	PlacesLanguage string // NUTRISENSE_PLACES_LANGUAGE (default: zh-TW)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if the generation upstream is configured.
// A missing key disables the AI routes only; the rest of the server still runs.
func (p *Profile) IsAIEnabled() bool {
	return p.GeminiAPIKey != ""
}

// IsPlacesEnabled returns true if the places upstream is configured.
func (p *Profile) IsPlacesEnabled() bool {
	return p.PlacesAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
// Supports both NUTRISENSE_* (new) and the bare legacy names older
// deployments used (GEMINI_API_KEY, GOOGLE_MAPS_API_KEY).
func (p *Profile) FromEnv() {
	getEnvWithFallback := func(newKey, legacyKey string) string {
		if val := os.Getenv(newKey); val != "" {
			return val
		}
		return os.Getenv(legacyKey)
	}

	p.GeminiAPIKey = getEnvWithFallback("NUTRISENSE_GEMINI_API_KEY", "GEMINI_API_KEY")
	p.GeminiBaseURL = getEnvOrDefault("NUTRISENSE_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	p.GeminiModel = getEnvOrDefault("NUTRISENSE_GEMINI_MODEL", "gemini-2.5-flash")

	p.PlacesAPIKey = getEnvWithFallback("NUTRISENSE_PLACES_API_KEY", "GOOGLE_MAPS_API_KEY")
	p.PlacesBaseURL = getEnvOrDefault("NUTRISENSE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place")
	p.PlacesLanguage = getEnvOrDefault("NUTRISENSE_PLACES_LANGUAGE", "zh-TW")
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" {
		return errors.Errorf("unsupported driver %q: only sqlite is supported", p.Driver)
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.DSN == "" {
		dbFile := fmt.Sprintf("nutrisense_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
