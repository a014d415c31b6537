package nsfix

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/flate"
)

// Config contains all configuration options for the Transcoder
type Config struct {
	// CompressionLevel is the deflate level for written entries, 1 (fastest)
	// to 9 (smallest). 0 and -1 select the library default.
	CompressionLevel int
	// DeflateStored compresses entries that the source stores uncompressed.
	// HWPX readers expect the leading mimetype entry to stay stored, so this
	// is off by default.
	DeflateStored bool
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// Logger overrides the global logger when set. LogLevel is ignored then.
	Logger *Logger
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CompressionLevel: flate.DefaultCompression,
		DeflateStored:    false,
		LogLevel:         "warn",
	}
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.CompressionLevel == 0 {
		config.CompressionLevel = defaults.CompressionLevel
	}

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CompressionLevel != flate.DefaultCompression &&
		(c.CompressionLevel < flate.BestSpeed || c.CompressionLevel > flate.BestCompression) {
		return fmt.Errorf("compression level must be between %d and %d, got %d",
			flate.BestSpeed, flate.BestCompression, c.CompressionLevel)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}

// logger returns the configured logger, or a child of the global logger
// at LogLevel. The global logger's own level is left as it is.
func (c *Config) logger() *Logger {
	if c.Logger != nil {
		return c.Logger
	}
	l := GetLogger().WithFields(nil)
	l.SetLevel(parseLogLevel(c.LogLevel))
	return l
}
