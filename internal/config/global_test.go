package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	// Save and restore XDG_CONFIG_HOME
	orig := os.Getenv("XDG_CONFIG_HOME")
	defer os.Setenv("XDG_CONFIG_HOME", orig)

	// Test with custom XDG_CONFIG_HOME
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/prof/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	// Test with empty XDG_CONFIG_HOME (should use ~/.config)
	os.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "prof", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadGlobalConfig() returned nil")
	}
	if cfg.DataDir != "" || cfg.MinimumAge != nil {
		t.Errorf("LoadGlobalConfig() = %+v, want empty config", cfg)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configDir := filepath.Join(tmpDir, "prof")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	content := `data_dir: /srv/profiles
db_file: people.db
minimum_age: 21
log_level: debug
log_format: json
default_location:
  lat: 18.5352
  long: 73.8111
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.DataDir != "/srv/profiles" {
		t.Errorf("DataDir = %q, want /srv/profiles", cfg.DataDir)
	}
	if cfg.DBFile != "people.db" {
		t.Errorf("DBFile = %q, want people.db", cfg.DBFile)
	}
	if cfg.MinimumAge == nil || *cfg.MinimumAge != 21 {
		t.Errorf("MinimumAge = %v, want 21", cfg.MinimumAge)
	}
	if cfg.DefaultLocation == nil || cfg.DefaultLocation.Lat == nil || *cfg.DefaultLocation.Lat != 18.5352 {
		t.Errorf("DefaultLocation = %+v, want lat 18.5352", cfg.DefaultLocation)
	}

	// Second load hits the cache even after the file is gone
	os.Remove(filepath.Join(configDir, "config.yml"))
	cached, err := LoadGlobalConfig()
	if err != nil || cached.DataDir != "/srv/profiles" {
		t.Errorf("cached LoadGlobalConfig() = %+v, %v", cached, err)
	}
}

func TestLoadGlobalConfig_Invalid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configDir := filepath.Join(tmpDir, "prof")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.yml"), []byte("minimum_age: [not, a, number"), 0644)

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() with invalid YAML should return error")
	}
}

func TestSaveGlobalConfig_RoundTrip(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	age := 25
	if err := SaveGlobalConfig(&GlobalConfig{DataDir: "/data", MinimumAge: &age}); err != nil {
		t.Fatalf("SaveGlobalConfig() error = %v", err)
	}

	ResetGlobalConfigCache()
	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.DataDir != "/data" || cfg.MinimumAge == nil || *cfg.MinimumAge != 25 {
		t.Errorf("LoadGlobalConfig() = %+v, want saved values", cfg)
	}
}
