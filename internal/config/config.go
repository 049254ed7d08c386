package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// RuntimeConfig holds everything the host needs to open a store and run the
// engine for one user.
type RuntimeConfig struct {
	DatabasePath   string `yaml:"database_path"`
	UserID         string `yaml:"user_id"`
	Timezone       string `yaml:"timezone"`
	Locale         string `yaml:"locale"`
	DigestTime     string `yaml:"digest_time"`
	Debug          bool   `yaml:"debug"`
	LogFile        string `yaml:"log_file"`
	RolloverBuffer int    `yaml:"rollover_buffer"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DatabasePath:   "routined.db",
		UserID:         "local",
		Timezone:       "Local",
		Locale:         "en",
		DigestTime:     "21:00",
		RolloverBuffer: 16,
	}
}

// Load layers the YAML file at path (skipped when path is empty or the file
// does not exist) and then the ROUTINED_* environment over the defaults.
func Load(path string) (RuntimeConfig, error) {
	cfg, err := FromFile(DefaultRuntimeConfig(), path)
	if err != nil {
		return RuntimeConfig{}, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func FromFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	cfg := base
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return RuntimeConfig{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("ROUTINED_DB"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := getEnvString("ROUTINED_USER"); ok {
		cfg.UserID = v
	}
	if v, ok := getEnvString("ROUTINED_TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := getEnvString("ROUTINED_LOCALE"); ok {
		cfg.Locale = v
	}
	if v, ok := getEnvString("ROUTINED_DIGEST_TIME"); ok {
		cfg.DigestTime = v
	}
	if v, ok := getEnvBool("ROUTINED_DEBUG"); ok {
		cfg.Debug = v
	}
	if v, ok := getEnvString("ROUTINED_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvInt("ROUTINED_ROLLOVER_BUFFER"); ok && v > 0 {
		cfg.RolloverBuffer = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("%w: database_path is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := time.Parse("15:04", c.DigestTime); err != nil {
		return fmt.Errorf("%w: digest_time %q is not HH:MM", ErrInvalidConfig, c.DigestTime)
	}
	if c.RolloverBuffer <= 0 {
		return fmt.Errorf("%w: rollover_buffer must be positive", ErrInvalidConfig)
	}
	return nil
}

// Location resolves Timezone. An empty value or "Local" means the process
// zone.
func (c RuntimeConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, name, err)
	}
	return loc, nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
