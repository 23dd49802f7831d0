package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	def := defaultConfig()
	return &Config{
		API: APIConfig{
			BaseURL:     "http://127.0.0.1:0",
			HTTPTimeout: 2 * time.Second,
			UserAgent:   "screener-test/1.0",
			RetryCount:  1,
		},
		Query: QueryConfig{
			DebounceDelay:         10 * time.Millisecond,
			AutocompleteMinLength: 1,
			StaleAutocomplete:     5 * time.Second,
			StaleSearch:           2 * time.Minute,
			StaleDetail:           5 * time.Minute,
			CacheTime:             5 * time.Minute,
		},
		Screener: def.Screener,
		Database: DatabaseConfig{
			Path:      ":memory:",
			Timeout:   1 * time.Second,
			MaxRecent: 5,
		},
		News: NewsConfig{
			MaxItems:    3,
			HTTPTimeout: 2 * time.Second,
		},
		Auth: AuthConfig{
			Service:   "screener-test",
			Account:   "session",
			SignInURL: "http://127.0.0.1/sign-in",
			SignUpURL: "http://127.0.0.1/sign-up",
		},
		Browser: def.Browser,
		UI:      def.UI,
		Keys:    def.Keys,
		Log:     LogConfig{Level: "off"},
	}
}
