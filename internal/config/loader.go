package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and
// environment variables. If configFile is empty, it searches standard
// locations for caregate.yaml/.yml; when none exists, environment
// variables and defaults still apply.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		viper.SetConfigName("caregate")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: CAREGATE_BASE_URL, CAREGATE_USERNAME, ...
	viper.SetEnvPrefix("CAREGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindEnvKeys()
}

// findConfigFile searches standard locations for a caregate config file
// with an explicit YAML extension.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".caregate"),
		"/etc/caregate",
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "caregate"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindEnvKeys binds all config keys so environment variables can
// override them even when no config file sets them.
func bindEnvKeys() {
	_ = viper.BindEnv("base_url")
	_ = viper.BindEnv("schema_url")
	_ = viper.BindEnv("username")
	_ = viper.BindEnv("password")
	_ = viper.BindEnv("access_token")
	_ = viper.BindEnv("server_name")
	_ = viper.BindEnv("server_version")
	_ = viper.BindEnv("whitelist_file")
	_ = viper.BindEnv("enhancements_file")
	_ = viper.BindEnv("audit_file")
	_ = viper.BindEnv("metrics_addr")
	_ = viper.BindEnv("http_timeout")
	_ = viper.BindEnv("dev_mode")
}

// Load reads the configuration: defaults, then file, then environment.
// A missing config file is not an error; an unreadable or invalid one
// is.
func Load() (Config, error) {
	cfg := Default()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
