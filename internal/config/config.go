// Package config provides configuration types and loading for caregate.
// Configuration is file-based (caregate.yaml) with environment variable
// overrides under the CAREGATE_ prefix.
package config

import "time"

// Config is the top-level caregate configuration.
type Config struct {
	// BaseURL is the root of the Care API deployment.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// SchemaURL points at the OpenAPI document describing the API.
	SchemaURL string `yaml:"schema_url" mapstructure:"schema_url" validate:"required,url"`

	// Username and Password authenticate against the Care API.
	// Optional: when absent (and no access token), only public
	// endpoints are usable.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// AccessToken is a pre-issued bearer token. When set it bypasses
	// the login flow entirely.
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`

	// ServerName and ServerVersion identify the MCP server to clients.
	ServerName    string `yaml:"server_name" mapstructure:"server_name" validate:"required"`
	ServerVersion string `yaml:"server_version" mapstructure:"server_version" validate:"required"`

	// WhitelistFile overrides the built-in allow-list when set.
	WhitelistFile string `yaml:"whitelist_file" mapstructure:"whitelist_file"`

	// EnhancementsFile overrides the built-in tool metadata when set.
	EnhancementsFile string `yaml:"enhancements_file" mapstructure:"enhancements_file"`

	// AuditFile enables the JSONL invocation audit trail when set.
	AuditFile string `yaml:"audit_file" mapstructure:"audit_file"`

	// MetricsAddr serves Prometheus metrics on this address when set
	// (e.g. ":9100"). Empty disables the listener.
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`

	// HTTPTimeout bounds each tool invocation's API call.
	HTTPTimeout time.Duration `yaml:"http_timeout" mapstructure:"http_timeout" validate:"min=0"`

	// DevMode enables debug logging.
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// Default returns the configuration defaults for the upstream Care
// deployment.
func Default() Config {
	return Config{
		BaseURL:       "https://careapi.ohc.network",
		SchemaURL:     "https://careapi.ohc.network/api/schema/",
		ServerName:    "Care Healthcare Platform",
		ServerVersion: "0.1.0",
		HTTPTimeout:   60 * time.Second,
	}
}

// HasCredentials reports whether any authentication material is
// configured.
func (c Config) HasCredentials() bool {
	return c.AccessToken != "" || (c.Username != "" && c.Password != "")
}
