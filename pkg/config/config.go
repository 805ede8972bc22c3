package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	apperrors "github.com/killallgit/transcript-search/pkg/errors"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. TRANSCRIPTS_SERVER_PORT
	EnvPrefix = "TRANSCRIPTS"

	DefaultConfigFile = "./config/settings.yaml"
)

var (
	once        sync.Once
	initErr     error
	initialized bool
	mu          sync.RWMutex
)

// Init loads the configuration once from ./config/settings.yaml, the environment and defaults
func Init() error {
	once.Do(func() {
		initErr = Load(DefaultConfigFile)
	})
	return initErr
}

// Load reads configuration from path (a missing file is not an error), applies environment
// overrides and validates the result
func Load(path string) error {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPath := filepath.Clean(path)
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "invalid configuration")
	}

	mu.Lock()
	initialized = true
	mu.Unlock()
	return nil
}

// IsInitialized reports whether configuration has been loaded
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return initialized
}

// Reset clears loaded configuration so tests can load again
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	viper.Reset()
	once = sync.Once{}
	initErr = nil
	initialized = false
}

// GetConfig returns the current configuration as a struct
func GetConfig() (*Config, error) {
	var config Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		byteSizeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := viper.Unmarshal(&config, hooks); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Get returns a config value by key using Viper directly
func Get(key string) any {
	return viper.Get(key)
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetBytes returns a size config value in bytes, or 0 when it cannot be parsed
func GetBytes(key string) int64 {
	n, err := parseBytes(viper.GetString(key))
	if err != nil {
		return 0
	}
	return n
}

func parseBytes(s string) (int64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

// byteSizeHook decodes "256MiB" style strings into ByteSize fields
func byteSizeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(ByteSize(0)) || from.Kind() != reflect.String {
			return data, nil
		}
		n, err := parseBytes(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", data, err)
		}
		return ByteSize(n), nil
	}
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	for _, key := range []string{"server.max_upload_size", "import.max_file_size"} {
		n, err := parseBytes(viper.GetString(key))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if n <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}

	if viper.GetString("database.path") == "" {
		return fmt.Errorf("database path is not configured")
	}

	defaultLimit := viper.GetInt("search.default_limit")
	maxLimit := viper.GetInt("search.max_limit")
	if defaultLimit <= 0 || maxLimit <= 0 {
		return fmt.Errorf("search limits must be positive")
	}
	if defaultLimit > maxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)", defaultLimit, maxLimit)
	}

	// Auto-correct invalid rate limits
	if viper.GetInt("server.rate_limit") <= 0 {
		viper.Set("server.rate_limit", 20)
	}
	if viper.GetInt("server.rate_burst") <= 0 {
		viper.Set("server.rate_burst", 40)
	}

	switch strings.ToLower(viper.GetString("logging.format")) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging format %q (want text or json)", viper.GetString("logging.format"))
	}

	return nil
}

// Validate validates a Config struct
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return invalid("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadSize <= 0 {
		return invalid("server.max_upload_size must be positive")
	}
	if c.Import.MaxFileSize <= 0 {
		return invalid("import.max_file_size must be positive")
	}
	if c.Database.Path == "" {
		return invalid("database path is not configured")
	}
	if c.Search.DefaultLimit <= 0 || c.Search.MaxLimit <= 0 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return invalid("invalid search limits: default %d, max %d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}

	if c.Server.RateLimit <= 0 {
		c.Server.RateLimit = 20
	}
	if c.Server.RateBurst <= 0 {
		c.Server.RateBurst = 40
	}

	return nil
}

func invalid(format string, args ...any) error {
	return apperrors.New(apperrors.ErrCodeConfigInvalid, fmt.Sprintf(format, args...))
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_upload_size", "256MiB")
	viper.SetDefault("server.rate_limit", 20)
	viper.SetDefault("server.rate_burst", 40)

	// Database defaults
	viper.SetDefault("database.path", "./data/transcripts.db")
	viper.SetDefault("database.verbose", false)
	viper.SetDefault("database.lock_file", "")

	// Import defaults
	viper.SetDefault("import.max_file_size", "100MiB")
	viper.SetDefault("import.lock_timeout", 5*time.Second)

	// Search defaults
	viper.SetDefault("search.default_limit", 50)
	viper.SetDefault("search.max_limit", 500)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
