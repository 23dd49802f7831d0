package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Query.DebounceDelay != 500*time.Millisecond {
		t.Errorf("Query.DebounceDelay = %v, want 500ms", cfg.Query.DebounceDelay)
	}
	if cfg.Query.StaleAutocomplete != 5*time.Second {
		t.Errorf("Query.StaleAutocomplete = %v, want 5s", cfg.Query.StaleAutocomplete)
	}
	if cfg.Query.StaleSearch != 2*time.Minute {
		t.Errorf("Query.StaleSearch = %v, want 2m", cfg.Query.StaleSearch)
	}
	if cfg.Query.StaleDetail != 5*time.Minute {
		t.Errorf("Query.StaleDetail = %v, want 5m", cfg.Query.StaleDetail)
	}
	if cfg.API.RetryCount != 1 {
		t.Errorf("API.RetryCount = %d, want 1", cfg.API.RetryCount)
	}
	if cfg.Screener.DefaultPageSize != 25 {
		t.Errorf("Screener.DefaultPageSize = %d, want 25", cfg.Screener.DefaultPageSize)
	}
	if len(cfg.Screener.PageSizeOptions) != 4 {
		t.Errorf("Screener.PageSizeOptions = %v, want 4 options", cfg.Screener.PageSizeOptions)
	}
	if cfg.Screener.DefaultSortBy != "ticker" || cfg.Screener.DefaultSortOrder != "ASC" {
		t.Errorf("default sort = %s %s, want ticker ASC", cfg.Screener.DefaultSortBy, cfg.Screener.DefaultSortOrder)
	}
	if cfg.API.UserAgent == "" {
		t.Error("API.UserAgent should not be empty")
	}
	if cfg.Browser.DefaultOpener == "" {
		t.Error("Browser.DefaultOpener should not be empty")
	}
	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("Keys.Bindings.Quit = %s, want 'q'", cfg.Keys.Bindings.Quit)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.Query.StaleSearch != 2*time.Minute {
		t.Errorf("Query.StaleSearch = %v, want 2m", cfg.Query.StaleSearch)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[api]
base_url = "https://screener.example.com"
http_timeout = "60s"
user_agent = "test-agent"

[query]
debounce_delay = "250ms"

[database]
path = "/tmp/test.db"
timeout = "10s"

[ui.colors]
primary = "#FF0000"
`

	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://screener.example.com" {
		t.Errorf("API.BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.HTTPTimeout != 60*time.Second {
		t.Errorf("API.HTTPTimeout = %v, want 60s", cfg.API.HTTPTimeout)
	}
	if cfg.API.UserAgent != "test-agent" {
		t.Errorf("API.UserAgent = %s, want 'test-agent'", cfg.API.UserAgent)
	}
	if cfg.Query.DebounceDelay != 250*time.Millisecond {
		t.Errorf("Query.DebounceDelay = %v, want 250ms", cfg.Query.DebounceDelay)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %s, want '/tmp/test.db'", cfg.Database.Path)
	}
	if cfg.Database.Timeout != 10*time.Second {
		t.Errorf("Database.Timeout = %v, want 10s", cfg.Database.Timeout)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VITE_API_BASE_URL", "https://vite.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://vite.example.com" {
		t.Errorf("API.BaseURL = %s, want VITE_API_BASE_URL value", cfg.API.BaseURL)
	}

	t.Setenv("SCREENER_API_BASE_URL", "https://env.example.com")
	t.Setenv("SCREENER_LOG_LEVEL", "debug")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("API.BaseURL = %s, want SCREENER_API_BASE_URL value", cfg.API.BaseURL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	// registered so the variable set by godotenv is cleared after the test
	t.Setenv("SCREENER_API_BASE_URL", "")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SCREENER_API_BASE_URL=https://dotenv.example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Unsetenv("SCREENER_API_BASE_URL"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://dotenv.example.com" {
		t.Errorf("API.BaseURL = %s, want value from .env", cfg.API.BaseURL)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.API.BaseURL = "https://saved.example.com"
	cfg.API.UserAgent = "test-save-agent"
	cfg.Database.Path = "/test/path.db"
	cfg.Query.StaleSearch = 90 * time.Second
	cfg.Screener.PageSizeOptions = []int{10, 20}
	cfg.Keys.Modifier = "alt"
	cfg.Keys.Bindings.ApplyAll = "y"

	savePath := filepath.Join(tmpDir, "saved-config.toml")
	if saveErr := Save(cfg, savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	if _, statErr := os.Stat(savePath); os.IsNotExist(statErr) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Database.Path != cfg.Database.Path {
		t.Errorf("Loaded Database.Path = %s, want %s", loaded.Database.Path, cfg.Database.Path)
	}
	if loaded.API.UserAgent != cfg.API.UserAgent {
		t.Errorf("Loaded API.UserAgent = %s, want %s", loaded.API.UserAgent, cfg.API.UserAgent)
	}
	if loaded.Query.StaleSearch != cfg.Query.StaleSearch {
		t.Errorf("Loaded Query.StaleSearch = %v, want %v", loaded.Query.StaleSearch, cfg.Query.StaleSearch)
	}
	if len(loaded.Screener.PageSizeOptions) != 2 || loaded.Screener.PageSizeOptions[1] != 20 {
		t.Errorf("Loaded Screener.PageSizeOptions = %v, want [10 20]", loaded.Screener.PageSizeOptions)
	}
	if loaded.Keys.Modifier != cfg.Keys.Modifier {
		t.Errorf("Loaded Keys.Modifier = %s, want %s", loaded.Keys.Modifier, cfg.Keys.Modifier)
	}
	if loaded.Keys.Bindings.ApplyAll != "y" {
		t.Errorf("Loaded Keys.Bindings.ApplyAll = %s, want y", loaded.Keys.Bindings.ApplyAll)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generated.toml")
	if genErr := GenerateDefaultConfig(configPath); genErr != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", genErr)
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		t.Fatal("GenerateDefaultConfig() did not create file")
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Query.DebounceDelay != 500*time.Millisecond {
		t.Errorf("Generated config has Query.DebounceDelay = %v, want 500ms", cfg.Query.DebounceDelay)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}

	if cfg.Database.Path != ":memory:" {
		t.Errorf("TestConfig Database.Path = %s, want ':memory:'", cfg.Database.Path)
	}
	if cfg.API.UserAgent != "screener-test/1.0" {
		t.Errorf("TestConfig API.UserAgent = %s, want 'screener-test/1.0'", cfg.API.UserAgent)
	}
}
