// Package config resolves runtime settings from command-line flags,
// SWAGGERUI_* environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is prepended to every environment variable, e.g. SWAGGERUI_PORT.
const EnvPrefix = "SWAGGERUI"

const (
	keyHost      = "host"
	keyPort      = "port"
	keyAssetsDir = "assets_dir"
	keyLogLevel  = "log_level"
)

// Defaults.
const (
	DefaultHost      = "localhost"
	DefaultPort      = 8080
	DefaultAssetsDir = "./swagger-ui"
	DefaultLogLevel  = "info"
)

// Config holds the settings of a running server.
type Config struct {
	Host      string
	Port      int
	AssetsDir string
	LogLevel  string
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}
	if strings.TrimSpace(c.AssetsDir) == "" {
		errs = append(errs, errors.New("assets dir must not be empty"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	return errors.Join(errs...)
}

// BindFlags registers the server flags on flags and binds them, together
// with their environment variables, to v. PORT is honoured as a fallback
// for SWAGGERUI_PORT, as container platforms set it.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	flags.String("host", DefaultHost, "host to bind")
	flags.Int("port", DefaultPort, "port to bind")
	flags.String("assets-dir", DefaultAssetsDir, "directory holding the Swagger UI distribution")
	flags.String("log-level", DefaultLogLevel, "minimum log level (debug, info, warn, error)")

	bindings := []struct {
		key  string
		flag string
		env  []string
	}{
		{keyHost, "host", []string{EnvPrefix + "_HOST"}},
		{keyPort, "port", []string{EnvPrefix + "_PORT", "PORT"}},
		{keyAssetsDir, "assets-dir", []string{EnvPrefix + "_ASSETS_DIR"}},
		{keyLogLevel, "log-level", []string{EnvPrefix + "_LOG_LEVEL"}},
	}
	for _, b := range bindings {
		if err := v.BindPFlag(b.key, flags.Lookup(b.flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", b.flag, err)
		}
		if err := v.BindEnv(append([]string{b.key}, b.env...)...); err != nil {
			return fmt.Errorf("bind env %s: %w", b.key, err)
		}
	}
	return nil
}

// Load reads the bound settings from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Host:      v.GetString(keyHost),
		Port:      v.GetInt(keyPort),
		AssetsDir: v.GetString(keyAssetsDir),
		LogLevel:  strings.ToLower(v.GetString(keyLogLevel)),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
