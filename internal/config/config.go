package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Query    QueryConfig    `mapstructure:"query"`
	Screener ScreenerConfig `mapstructure:"screener"`
	Database DatabaseConfig `mapstructure:"database"`
	News     NewsConfig     `mapstructure:"news"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	RetryCount  int           `mapstructure:"retry_count"`
}

type QueryConfig struct {
	DebounceDelay         time.Duration `mapstructure:"debounce_delay"`
	AutocompleteMinLength int           `mapstructure:"autocomplete_min_length"`
	StaleAutocomplete     time.Duration `mapstructure:"stale_autocomplete"`
	StaleSearch           time.Duration `mapstructure:"stale_search"`
	StaleDetail           time.Duration `mapstructure:"stale_detail"`
	CacheTime             time.Duration `mapstructure:"cache_time"`
}

type ScreenerConfig struct {
	DefaultPageSize  int    `mapstructure:"default_page_size"`
	PageSizeOptions  []int  `mapstructure:"page_size_options"`
	DefaultSortBy    string `mapstructure:"default_sort_by"`
	DefaultSortOrder string `mapstructure:"default_sort_order"`
	Preset           string `mapstructure:"preset"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
	MaxRecent   int           `mapstructure:"max_recent"`
}

type NewsConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	FeedURLTemplate string        `mapstructure:"feed_url_template"`
	MaxItems        int           `mapstructure:"max_items"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
}

type AuthConfig struct {
	Service   string `mapstructure:"service"`
	Account   string `mapstructure:"account"`
	SignInURL string `mapstructure:"sign_in_url"`
	SignUpURL string `mapstructure:"sign_up_url"`
}

type BrowserConfig struct {
	DefaultOpener    string `mapstructure:"default_opener"`
	QuoteURLTemplate string `mapstructure:"quote_url_template"`
}

type UIConfig struct {
	Colors  UIColors      `mapstructure:"colors"`
	Details DetailsConfig `mapstructure:"details"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type DetailsConfig struct {
	WordWrapMaxWidth int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth int `mapstructure:"word_wrap_min_width"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Search    string `mapstructure:"search"`
	ApplyAll  string `mapstructure:"apply_all"`
	Reset     string `mapstructure:"reset"`
	Watch     string `mapstructure:"watch"`
	Dashboard string `mapstructure:"dashboard"`
	SignIn    string `mapstructure:"sign_in"`
	SignOut   string `mapstructure:"sign_out"`
	Open      string `mapstructure:"open"`
	Back      string `mapstructure:"back"`
	Help      string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".screener")

	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8080",
			HTTPTimeout: 15 * time.Second,
			UserAgent:   "screener/1.0 (https://github.com/pders01/screener)",
			RetryCount:  1,
		},
		Query: QueryConfig{
			DebounceDelay:         500 * time.Millisecond,
			AutocompleteMinLength: 1,
			StaleAutocomplete:     5 * time.Second,
			StaleSearch:           2 * time.Minute,
			StaleDetail:           5 * time.Minute,
			CacheTime:             5 * time.Minute,
		},
		Screener: ScreenerConfig{
			DefaultPageSize:  25,
			PageSizeOptions:  []int{5, 10, 25, 50},
			DefaultSortBy:    "ticker",
			DefaultSortOrder: "ASC",
		},
		Database: DatabaseConfig{
			Path:        filepath.Join(homeDir, ".screener.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(dataDir, "symbols.bleve"),
			MaxRecent:   20,
		},
		News: NewsConfig{
			Enabled:         true,
			FeedURLTemplate: "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US",
			MaxItems:        8,
			HTTPTimeout:     10 * time.Second,
		},
		Auth: AuthConfig{
			Service:   "screener",
			Account:   "session",
			SignInURL: "http://localhost:8080/sign-in",
			SignUpURL: "http://localhost:8080/sign-up",
		},
		Browser: BrowserConfig{
			DefaultOpener:    getDefaultOpener(),
			QuoteURLTemplate: "https://finance.yahoo.com/quote/%s",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#4ADE80",
				Secondary:  "#60A5FA",
				Accent:     "#FBBF24",
				Background: "#0F172A",
				Surface:    "#1E293B",
				Text:       "#E2E8F0",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Details: DetailsConfig{
				WordWrapMaxWidth: 100,
				WordWrapMinWidth: 40,
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:      "q",
				Search:    "s",
				ApplyAll:  "a",
				Reset:     "r",
				Watch:     "w",
				Dashboard: "d",
				SignIn:    "l",
				SignOut:   "x",
				Open:      "o",
				Back:      "esc",
				Help:      "?",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(dataDir, "screener.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// Load reads the TOML config file, then applies SCREENER_* environment
// overrides. A .env file in the working directory is loaded first so it can
// supply those variables. VITE_API_BASE_URL is honoured as a fallback for
// the API base URL.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	cfg := defaultConfig()
	setLeafDefaults(v, cfg)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("keys", cfg.Keys)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "screener")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SCREENER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnv(&config)
	expandPaths(&config)

	return &config, nil
}

// setLeafDefaults registers per-key defaults so a partial section in the
// config file keeps the defaults of the keys it omits.
func setLeafDefaults(v *viper.Viper, cfg *Config) {
	defaults := map[string]interface{}{
		"api.base_url":                  cfg.API.BaseURL,
		"api.http_timeout":              cfg.API.HTTPTimeout,
		"api.user_agent":                cfg.API.UserAgent,
		"api.retry_count":               cfg.API.RetryCount,
		"query.debounce_delay":          cfg.Query.DebounceDelay,
		"query.autocomplete_min_length": cfg.Query.AutocompleteMinLength,
		"query.stale_autocomplete":      cfg.Query.StaleAutocomplete,
		"query.stale_search":            cfg.Query.StaleSearch,
		"query.stale_detail":            cfg.Query.StaleDetail,
		"query.cache_time":              cfg.Query.CacheTime,
		"screener.default_page_size":    cfg.Screener.DefaultPageSize,
		"screener.page_size_options":    cfg.Screener.PageSizeOptions,
		"screener.default_sort_by":      cfg.Screener.DefaultSortBy,
		"screener.default_sort_order":   cfg.Screener.DefaultSortOrder,
		"screener.preset":               cfg.Screener.Preset,
		"database.path":                 cfg.Database.Path,
		"database.timeout":              cfg.Database.Timeout,
		"database.search_index":         cfg.Database.SearchIndex,
		"database.max_recent":           cfg.Database.MaxRecent,
		"news.enabled":                  cfg.News.Enabled,
		"news.feed_url_template":        cfg.News.FeedURLTemplate,
		"news.max_items":                cfg.News.MaxItems,
		"news.http_timeout":             cfg.News.HTTPTimeout,
		"auth.service":                  cfg.Auth.Service,
		"auth.account":                  cfg.Auth.Account,
		"auth.sign_in_url":              cfg.Auth.SignInURL,
		"auth.sign_up_url":              cfg.Auth.SignUpURL,
		"browser.default_opener":        cfg.Browser.DefaultOpener,
		"browser.quote_url_template":    cfg.Browser.QuoteURLTemplate,
		"log.level":                     cfg.Log.Level,
		"log.file":                      cfg.Log.File,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// applyEnv falls back to the frontend-style base URL variable when no
// SCREENER_API_BASE_URL is set.
func applyEnv(cfg *Config) {
	if os.Getenv("SCREENER_API_BASE_URL") != "" {
		return
	}
	if u := os.Getenv("VITE_API_BASE_URL"); u != "" {
		cfg.API.BaseURL = u
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Screener.Preset = expandPath(cfg.Screener.Preset)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings so the TOML stays readable
	v.Set("api", map[string]interface{}{
		"base_url":     config.API.BaseURL,
		"http_timeout": config.API.HTTPTimeout.String(),
		"user_agent":   config.API.UserAgent,
		"retry_count":  config.API.RetryCount,
	})
	v.Set("query", map[string]interface{}{
		"debounce_delay":          config.Query.DebounceDelay.String(),
		"autocomplete_min_length": config.Query.AutocompleteMinLength,
		"stale_autocomplete":      config.Query.StaleAutocomplete.String(),
		"stale_search":            config.Query.StaleSearch.String(),
		"stale_detail":            config.Query.StaleDetail.String(),
		"cache_time":              config.Query.CacheTime.String(),
	})
	v.Set("database", map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
		"max_recent":   config.Database.MaxRecent,
	})
	v.Set("news", map[string]interface{}{
		"enabled":           config.News.Enabled,
		"feed_url_template": config.News.FeedURLTemplate,
		"max_items":         config.News.MaxItems,
		"http_timeout":      config.News.HTTPTimeout.String(),
	})
	v.Set("screener", map[string]interface{}{
		"default_page_size":  config.Screener.DefaultPageSize,
		"page_size_options":  config.Screener.PageSizeOptions,
		"default_sort_by":    config.Screener.DefaultSortBy,
		"default_sort_order": config.Screener.DefaultSortOrder,
		"preset":             config.Screener.Preset,
	})
	v.Set("auth", map[string]interface{}{
		"service":     config.Auth.Service,
		"account":     config.Auth.Account,
		"sign_in_url": config.Auth.SignInURL,
		"sign_up_url": config.Auth.SignUpURL,
	})
	v.Set("browser", map[string]interface{}{
		"default_opener":     config.Browser.DefaultOpener,
		"quote_url_template": config.Browser.QuoteURLTemplate,
	})
	v.Set("ui", map[string]interface{}{
		"colors": config.UI.Colors,
		"details": map[string]interface{}{
			"word_wrap_max_width": config.UI.Details.WordWrapMaxWidth,
			"word_wrap_min_width": config.UI.Details.WordWrapMinWidth,
		},
	})
	b := config.Keys.Bindings
	v.Set("keys", map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":      b.Quit,
			"search":    b.Search,
			"apply_all": b.ApplyAll,
			"reset":     b.Reset,
			"watch":     b.Watch,
			"dashboard": b.Dashboard,
			"sign_in":   b.SignIn,
			"sign_out":  b.SignOut,
			"open":      b.Open,
			"back":      b.Back,
			"help":      b.Help,
		},
	})
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
