package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Radar.Playlist != "Release Radar" {
			t.Errorf("expected playlist Release Radar, got %s", config.Radar.Playlist)
		}

		if config.Radar.Days != 8 {
			t.Errorf("expected 8 days, got %d", config.Radar.Days)
		}

		if config.Radar.VariousArtistsID != "0LyfQWJT6nXafLPZqxe9Of" {
			t.Errorf("unexpected various artists id %s", config.Radar.VariousArtistsID)
		}

		if config.Server.Port != 9090 {
			t.Errorf("expected server port 9090, got %d", config.Server.Port)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Radar.Description != DefaultConfig().Radar.Description {
			t.Errorf("created config description doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig keeps defaults for missing keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[radar]
days = 14

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Radar.Days != 14 {
			t.Errorf("expected 14 days, got %d", config.Radar.Days)
		}
		if config.Radar.Playlist != "Release Radar" {
			t.Errorf("expected default playlist name, got %q", config.Radar.Playlist)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("SaveConfig round trips tokens", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		expiry := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		if err := config.Credentials.Spotify.Update(&oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: expiry}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("SaveConfig() error = %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		token := loaded.Credentials.Spotify.Token()
		if token == nil || token.AccessToken != "a" || token.RefreshToken != "r" {
			t.Fatalf("unexpected token after reload: %+v", token)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
		}
	})

	t.Run("Update keeps refresh token when omitted", func(t *testing.T) {
		sc := SpotifyConfig{RefreshToken: "keep"}
		if err := sc.Update(&oauth2.Token{AccessToken: "new"}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if sc.RefreshToken != "keep" {
			t.Errorf("expected refresh token to be kept, got %q", sc.RefreshToken)
		}
		if err := sc.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
	})

	t.Run("Token is nil without stored tokens", func(t *testing.T) {
		if tok := (SpotifyConfig{}).Token(); tok != nil {
			t.Errorf("expected nil token, got %+v", tok)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Credentials.Spotify.ClientID != "env_id" || config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("environment should override credentials, got %+v", config.Credentials.Spotify)
		}
	})

	t.Run("ApplyDotEnv", func(t *testing.T) {
		t.Run("reads credentials", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".env")
			if err := os.WriteFile(path, []byte("SPOTIFY_CLIENT_ID=dot_id\nSPOTIFY_CLIENT_SECRET=\"dot secret\"\n"), 0600); err != nil {
				t.Fatal(err)
			}

			config := DefaultConfig()
			if err := config.ApplyDotEnv(path); err != nil {
				t.Fatalf("ApplyDotEnv() error = %v", err)
			}
			if config.Credentials.Spotify.ClientID != "dot_id" || config.Credentials.Spotify.ClientSecret != "dot secret" {
				t.Errorf("dotenv should override credentials, got %+v", config.Credentials.Spotify)
			}
		})

		t.Run("missing file is ignored", func(t *testing.T) {
			config := DefaultConfig()
			before := config.Credentials.Spotify
			if err := config.ApplyDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
				t.Fatalf("ApplyDotEnv() error = %v", err)
			}
			if config.Credentials.Spotify != before {
				t.Error("credentials should be unchanged")
			}
		})
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "empty playlist", mutate: func(c *Config) { c.Radar.Playlist = "" }},
			{name: "zero days", mutate: func(c *Config) { c.Radar.Days = 0 }},
			{name: "empty various artists id", mutate: func(c *Config) { c.Radar.VariousArtistsID = "" }},
			{name: "negative rate", mutate: func(c *Config) { c.API.RequestsPerSecond = -1 }},
			{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
			})
		}
	})
}
