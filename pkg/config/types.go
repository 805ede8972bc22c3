package config

import (
	"net"
	"strconv"
	"time"
)

// ByteSize is a size in bytes. Config values may be plain integers or strings like "100MiB".
type ByteSize int64

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Import   ImportConfig   `mapstructure:"import"`
	Search   SearchConfig   `mapstructure:"search"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadSize   ByteSize      `mapstructure:"max_upload_size"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst"`
}

// DatabaseConfig contains corpus database settings
type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	Verbose  bool   `mapstructure:"verbose"`
	LockFile string `mapstructure:"lock_file"`
}

// ImportConfig contains extraction settings
type ImportConfig struct {
	MaxFileSize ByteSize      `mapstructure:"max_file_size"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// SearchConfig contains query defaults
type SearchConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// SecurityConfig contains CORS settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LockPath returns the import lock file, derived from the database path when unset
func (d DatabaseConfig) LockPath() string {
	if d.LockFile != "" {
		return d.LockFile
	}
	if d.Path == "" || d.Path == ":memory:" {
		return ""
	}
	return d.Path + ".lock"
}

// Address returns host:port for the HTTP listener
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
