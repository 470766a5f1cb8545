/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config resolves the verification client's settings.
//
// Values are layered, highest precedence first: explicit overrides (command
// line flags or Set options), environment variables, a YAML file and finally
// built-in defaults.  The result is an immutable snapshot that is shared by
// every test worker.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/unikorn-cloud/bookcatalog/pkg/constants"
)

var (
	// ErrInvalidConfig is raised when a resolved value makes no sense.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Configuration keys.
const (
	KeyBaseURL          = "base_url"
	KeyUsername         = "auth.username"
	KeyPassword         = "auth.password"
	KeyTimeout          = "timeout"
	KeyMaxRetryAttempts = "retry.max_attempts"
	KeyLoggingEnabled   = "logging.enabled"
	KeyLogLevel         = "logging.level"
)

// Defaults.
const (
	DefaultBaseURL          = "http://localhost:3000"
	DefaultUsername         = "admin"
	DefaultPassword         = "test123"
	DefaultTimeout          = 10000 * time.Millisecond
	DefaultMaxRetryAttempts = 3
	DefaultLoggingEnabled   = true
	DefaultLogLevel         = "info"
)

// Config is a read-only snapshot of resolved settings.  It is built once
// before any test runs and must not be modified afterwards.
type Config struct {
	// BaseURL is the root of the book catalog service.
	BaseURL string `yaml:"baseURL"`
	// Username is the default login name.
	Username string `yaml:"username"`
	// Password is the default login password.
	Password string `yaml:"password"`
	// Timeout bounds every HTTP request.
	Timeout time.Duration `yaml:"timeout"`
	// MaxRetryAttempts is the total number of attempts a flaky test gets.
	MaxRetryAttempts int `yaml:"maxRetryAttempts"`
	// LoggingEnabled turns on request and response logging.
	LoggingEnabled bool `yaml:"loggingEnabled"`
	// LogLevel is the minimum log level, one of debug, info or error.
	LogLevel string `yaml:"logLevel"`
}

// Validate checks the snapshot is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base URL %q: %w", ErrInvalidConfig, c.BaseURL, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base URL %q must be absolute", ErrInvalidConfig, c.BaseURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}

	if c.MaxRetryAttempts < 1 {
		return fmt.Errorf("%w: at least one attempt is required, got %d", ErrInvalidConfig, c.MaxRetryAttempts)
	}

	return nil
}

// Options control how configuration is loaded.
type Options struct {
	// ConfigFile is an optional YAML file.
	ConfigFile string
	// EnvFiles are dotenv files merged into the environment before
	// resolution.  Variables that are already set win.
	EnvFiles []string
	// Overrides are explicit values with the highest precedence.
	Overrides map[string]any

	flags *pflag.FlagSet
}

// AddFlags registers the command line flags that feed the explicit layer.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.ConfigFile, "config", "", "YAML configuration file.")
	f.StringSliceVar(&o.EnvFiles, "env-file", nil, "Dotenv files to load into the environment.")
	f.String("base-url", DefaultBaseURL, "Book catalog service base URL.")
	f.String("username", DefaultUsername, "Default login username.")
	f.String("password", DefaultPassword, "Default login password.")
	f.Duration("timeout", DefaultTimeout, "Per-request timeout.")
	f.Int("max-retry-attempts", DefaultMaxRetryAttempts, "Total attempts for a retried test.")
	f.Bool("logging", DefaultLoggingEnabled, "Log requests and responses.")
	f.String("log-level", DefaultLogLevel, "Log level, one of debug, info or error.")

	o.flags = f
}

// flagKeys maps flag names onto configuration keys.
func flagKeys() map[string]string {
	return map[string]string{
		"base-url":           KeyBaseURL,
		"username":           KeyUsername,
		"password":           KeyPassword,
		"timeout":            KeyTimeout,
		"max-retry-attempts": KeyMaxRetryAttempts,
		"logging":            KeyLoggingEnabled,
		"log-level":          KeyLogLevel,
	}
}

// Load resolves the configuration.
func Load(o *Options) (*Config, error) {
	if o == nil {
		o = &Options{}
	}

	if err := loadEnvFiles(o.EnvFiles); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyUsername, DefaultUsername)
	v.SetDefault(KeyPassword, DefaultPassword)
	v.SetDefault(KeyTimeout, DefaultTimeout.String())
	v.SetDefault(KeyMaxRetryAttempts, DefaultMaxRetryAttempts)
	v.SetDefault(KeyLoggingEnabled, DefaultLoggingEnabled)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	v.SetEnvPrefix(constants.EnvironmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := o.ConfigFile
	if configFile == "" {
		configFile = v.GetString("config")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrInvalidConfig, configFile, err)
		}
	}

	// Only flags explicitly set on the command line take part, otherwise
	// their defaults would shadow the environment.
	if o.flags != nil {
		for name, key := range flagKeys() {
			if flag := o.flags.Lookup(name); flag != nil && flag.Changed {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, err
				}
			}
		}
	}

	for key, value := range o.Overrides {
		v.Set(key, value)
	}

	timeout, err := parseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return nil, err
	}

	c := &Config{
		BaseURL:          strings.TrimSuffix(v.GetString(KeyBaseURL), "/"),
		Username:         v.GetString(KeyUsername),
		Password:         v.GetString(KeyPassword),
		Timeout:          timeout,
		MaxRetryAttempts: v.GetInt(KeyMaxRetryAttempts),
		LoggingEnabled:   v.GetBool(KeyLoggingEnabled),
		LogLevel:         v.GetString(KeyLogLevel),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// parseTimeout accepts either a Go duration or a bare integer of milliseconds.
func parseTimeout(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout %q: %w", ErrInvalidConfig, s, err)
	}

	return d, nil
}

func loadEnvFiles(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	// Load does not override variables already present in the environment.
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("%w: loading env files: %w", ErrInvalidConfig, err)
	}

	return nil
}
