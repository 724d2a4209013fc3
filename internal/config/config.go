package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cbout22/latestlayer/internal/logging"
)

const (
	// DefaultConfigFile is read from the working directory when no path is given.
	DefaultConfigFile = "latestlayer.toml"
	// ConfigPathEnvVar names an alternative config file.
	ConfigPathEnvVar = "LATESTLAYER_CONFIG"
	// DefaultFunctionName is the log prefix outside of Lambda.
	DefaultFunctionName = "latestlayer"
	// DefaultHTTPTimeout bounds the single ListLayerVersions call.
	DefaultHTTPTimeout = 10 * time.Second
)

// regionEnvVars lists the environment variables checked for the AWS region,
// in priority order.
var regionEnvVars = []string{
	"AWS_REGION",
	"AWS_DEFAULT_REGION",
}

// Config holds the process-wide settings. Every field can be set in the
// TOML file and most can be overridden from the environment.
type Config struct {
	LogLevel     string `toml:"log_level,omitempty"`
	LogFormat    string `toml:"log_format,omitempty"` // empty: the command's default
	Region       string `toml:"region,omitempty"`
	EndpointURL  string `toml:"endpoint_url,omitempty"`
	HTTPTimeout  string `toml:"http_timeout,omitempty"` // Go duration, e.g. "5s"
	FunctionName string `toml:"function_name,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		HTTPTimeout:  DefaultHTTPTimeout.String(),
		FunctionName: DefaultFunctionName,
	}
}

// Path returns the config file to read: explicit wins, then
// $LATESTLAYER_CONFIG, then DefaultConfigFile.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(ConfigPathEnvVar); v != "" {
		return v
	}
	return DefaultConfigFile
}

// Load reads the TOML file at path on top of the defaults, applies
// environment overrides and validates the result.
// If the file does not exist the defaults are used (no error).
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	for _, env := range regionEnvVars {
		if v := os.Getenv(env); v != "" {
			c.Region = v
			break
		}
	}
	if v := os.Getenv("LATESTLAYER_ENDPOINT_URL"); v != "" {
		c.EndpointURL = v
	}
	if v := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); v != "" {
		c.FunctionName = v
	}
}

// Validate checks the values that cannot be checked by the TOML decoder.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("invalid log_format %q: must be %s or %s", c.LogFormat, logging.FormatJSON, logging.FormatText)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the parsed HTTP timeout; zero means no timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.HTTPTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid http_timeout %q: %w", c.HTTPTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid http_timeout %q: must not be negative", c.HTTPTimeout)
	}
	return d, nil
}

// LoggingOptions returns the logger settings derived from c.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Prefix: c.FunctionName,
		Level:  c.LogLevel,
		Format: c.LogFormat,
	}
}
