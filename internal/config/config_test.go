package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.BaseURL == "" || cfg.SchemaURL == "" {
		t.Error("defaults missing API URLs")
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v, want 60s", cfg.HTTPTimeout)
	}
	if err := Validate(&cfg); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestHasCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"none", Config{}, false},
		{"token", Config{AccessToken: "tok"}, true},
		{"username and password", Config{Username: "u", Password: "p"}, true},
		{"username only", Config{Username: "u"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.HasCredentials(); got != tt.want {
				t.Errorf("HasCredentials = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Default()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing base url", func(c *Config) { c.BaseURL = "" }, "BaseURL"},
		{"bad schema url", func(c *Config) { c.SchemaURL = "not a url" }, "SchemaURL"},
		{"missing server name", func(c *Config) { c.ServerName = "" }, "ServerName"},
		{"username without password", func(c *Config) { c.Username = "admin" }, "together"},
		{"password without username", func(c *Config) { c.Password = "secret" }, "together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := Validate(&cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
