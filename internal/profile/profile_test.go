package profile

import (
	"os"
	"testing"
)

func TestProfileDefaults(t *testing.T) {
	clearEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	tests := []struct {
		name     string
		expected string
		actual   string
	}{
		{"GeminiBaseURL default", "https://generativelanguage.googleapis.com/v1beta/openai/", profile.GeminiBaseURL},
		{"GeminiModel default", "gemini-2.5-flash", profile.GeminiModel},
		{"PlacesBaseURL default", "https://maps.googleapis.com/maps/api/place", profile.PlacesBaseURL},
		{"PlacesLanguage default", "zh-TW", profile.PlacesLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, tt.actual)
			}
		})
	}

	if profile.IsAIEnabled() {
		t.Error("IsAIEnabled(): expected false without an API key")
	}
	if profile.IsPlacesEnabled() {
		t.Error("IsPlacesEnabled(): expected false without an API key")
	}
}

func TestProfileFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		field    func(*Profile) string
		expected string
	}{
		{
			name:     "NUTRISENSE_GEMINI_API_KEY",
			envVar:   "NUTRISENSE_GEMINI_API_KEY",
			envValue: "gemini-key-123",
			field:    func(p *Profile) string { return p.GeminiAPIKey },
			expected: "gemini-key-123",
		},
		{
			name:     "legacy GEMINI_API_KEY fallback",
			envVar:   "GEMINI_API_KEY",
			envValue: "legacy-gemini-key",
			field:    func(p *Profile) string { return p.GeminiAPIKey },
			expected: "legacy-gemini-key",
		},
		{
			name:     "NUTRISENSE_GEMINI_MODEL",
			envVar:   "NUTRISENSE_GEMINI_MODEL",
			envValue: "gemini-1.5-flash",
			field:    func(p *Profile) string { return p.GeminiModel },
			expected: "gemini-1.5-flash",
		},
		{
			name:     "NUTRISENSE_PLACES_API_KEY",
			envVar:   "NUTRISENSE_PLACES_API_KEY",
			envValue: "places-key-123",
			field:    func(p *Profile) string { return p.PlacesAPIKey },
			expected: "places-key-123",
		},
		{
			name:     "legacy GOOGLE_MAPS_API_KEY fallback",
			envVar:   "GOOGLE_MAPS_API_KEY",
			envValue: "legacy-maps-key",
			field:    func(p *Profile) string { return p.PlacesAPIKey },
			expected: "legacy-maps-key",
		},
		{
			name:     "NUTRISENSE_PLACES_LANGUAGE",
			envVar:   "NUTRISENSE_PLACES_LANGUAGE",
			envValue: "en",
			field:    func(p *Profile) string { return p.PlacesLanguage },
			expected: "en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			os.Setenv(tt.envVar, tt.envValue)
			defer clearEnvVars()

			profile := &Profile{}
			profile.FromEnv()

			actual := tt.field(profile)
			if actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, actual)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("unknown mode falls back to demo", func(t *testing.T) {
		p := &Profile{Mode: "staging", Data: t.TempDir()}
		if err := p.Validate(); err != nil {
			t.Fatalf("Validate() returned error: %v", err)
		}
		if p.Mode != "demo" {
			t.Errorf("expected mode demo, got %q", p.Mode)
		}
	})

	t.Run("sqlite DSN derived from data dir", func(t *testing.T) {
		p := &Profile{Mode: "dev", Data: t.TempDir()}
		if err := p.Validate(); err != nil {
			t.Fatalf("Validate() returned error: %v", err)
		}
		if p.DSN == "" {
			t.Error("expected DSN to be derived")
		}
	})

	t.Run("unsupported driver rejected", func(t *testing.T) {
		p := &Profile{Mode: "dev", Data: t.TempDir(), Driver: "mysql"}
		if err := p.Validate(); err == nil {
			t.Error("expected error for unsupported driver")
		}
	})
}

// Helper functions

func clearEnvVars() {
	envVars := []string{
		"NUTRISENSE_GEMINI_API_KEY",
		"NUTRISENSE_GEMINI_BASE_URL",
		"NUTRISENSE_GEMINI_MODEL",
		"NUTRISENSE_PLACES_API_KEY",
		"NUTRISENSE_PLACES_BASE_URL",
		"NUTRISENSE_PLACES_LANGUAGE",
		"GEMINI_API_KEY",
		"GOOGLE_MAPS_API_KEY",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}
