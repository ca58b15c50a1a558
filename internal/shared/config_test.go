package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Generator.ThrottleMillis != 100 {
		t.Errorf("ThrottleMillis = %d, want 100", config.Generator.ThrottleMillis)
	}
	if config.Generator.ArtistLimit != 20 {
		t.Errorf("ArtistLimit = %d, want 20", config.Generator.ArtistLimit)
	}
	if config.Database.Path == "" {
		t.Error("expected a default database path")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads values from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `[credentials.spotify]
client_id = "abc"
client_secret = "def"

[generator]
artist_limit = 5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("ClientID = %q", config.Credentials.Spotify.ClientID)
		}
		if config.Generator.ArtistLimit != 5 {
			t.Errorf("ArtistLimit = %d", config.Generator.ArtistLimit)
		}
	})

	t.Run("environment overrides file credentials", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(`[credentials.spotify]
client_id = "from-file"
`), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		t.Setenv("SPOTIFY_CLIENT_ID", "from-env")
		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Credentials.Spotify.ClientID != "from-env" {
			t.Errorf("ClientID = %q, want env value", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile failed: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Errorf("created config does not parse: %v", err)
	}
	if err := CreateConfigFile(path); err == nil {
		t.Error("expected an error when the file exists")
	}
}
