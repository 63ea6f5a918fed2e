package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
	Locale    string `mapstructure:"locale"`     // fallback locale for month labels
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StoreConfig selects where the template collection is persisted.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // file, redis or memory
	Dir     string `mapstructure:"dir"`     // file backend directory
	Key     string `mapstructure:"key"`     // record name holding the collection
}

// DirectoryConfig points at the address-book service used to resolve
// recipients. An empty BaseURL disables lookups.
type DirectoryConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout string `mapstructure:"timeout"` // duration string, e.g., "10s"
}

// ComposeConfig locates the draft being composed.
type ComposeConfig struct {
	DraftPath string `mapstructure:"draft_path"`
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Store     StoreConfig     `mapstructure:"store"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Compose   ComposeConfig   `mapstructure:"compose"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.App.Locale == "" {
		c.App.Locale = "en-US"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "./data"
	}
	if c.Store.Key == "" {
		c.Store.Key = "templates"
	}
	if c.Directory.Timeout == "" {
		c.Directory.Timeout = "10s"
	}
	if c.Compose.DraftPath == "" {
		c.Compose.DraftPath = "./draft.yaml"
	}
}
