package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "prod" {
		t.Errorf("expected Env=prod, got %q", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %q", cfg.LogLevel)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("expected Host=127.0.0.1, got %q", cfg.Host)
	}
	if cfg.Port != 53 {
		t.Errorf("expected Port=53, got %d", cfg.Port)
	}
	if cfg.ZoneDir != "/etc/ktdns/zones/" {
		t.Errorf("expected ZoneDir=/etc/ktdns/zones/, got %q", cfg.ZoneDir)
	}
	if cfg.ZoneGlob != "*.zone" {
		t.Errorf("expected ZoneGlob=*.zone, got %q", cfg.ZoneGlob)
	}
	if cfg.WatchZones || cfg.NXDomain || cfg.FormatErrors {
		t.Errorf("expected all switches off by default, got watch=%v nxdomain=%v formerr=%v",
			cfg.WatchZones, cfg.NXDomain, cfg.FormatErrors)
	}
	if cfg.Addr() != "127.0.0.1:53" {
		t.Errorf("expected Addr()=127.0.0.1:53, got %q", cfg.Addr())
	}
}

func TestLoad_ValidOverrides(t *testing.T) {
	t.Setenv("DNS_ENV", "dev")
	t.Setenv("DNS_LOG_LEVEL", "debug")
	t.Setenv("DNS_HOST", "::1")
	t.Setenv("DNS_PORT", "5353")
	t.Setenv("DNS_ZONE_DIR", "/tmp/zones/")
	t.Setenv("DNS_ZONE_GLOB", "*.yaml")
	t.Setenv("DNS_WATCH_ZONES", "true")
	t.Setenv("DNS_NXDOMAIN", "true")
	t.Setenv("DNS_FORMAT_ERRORS", " true ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "dev" {
		t.Errorf("expected Env=dev, got %q", cfg.Env)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %q", cfg.LogLevel)
	}
	if cfg.Port != 5353 {
		t.Errorf("expected Port=5353, got %d", cfg.Port)
	}
	if cfg.ZoneDir != "/tmp/zones/" {
		t.Errorf("expected ZoneDir=/tmp/zones/, got %q", cfg.ZoneDir)
	}
	if cfg.ZoneGlob != "*.yaml" {
		t.Errorf("expected ZoneGlob=*.yaml, got %q", cfg.ZoneGlob)
	}
	if !cfg.WatchZones {
		t.Error("expected WatchZones=true")
	}
	if !cfg.NXDomain {
		t.Error("expected NXDomain=true")
	}
	if !cfg.FormatErrors {
		t.Error("expected FormatErrors=true")
	}
	if cfg.Addr() != "[::1]:5353" {
		t.Errorf("expected Addr()=[::1]:5353, got %q", cfg.Addr())
	}
}

func TestLoad_WhenKoanfDefaultLoadFails(t *testing.T) {
	orig := defaultLoader
	defaultLoader = func(k *koanf.Koanf) error { return errors.New("mocked error") }
	defer func() { defaultLoader = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked error") {
		t.Fatal("expected error when loading defaults, got nil")
	}
}

func TestLoad_WhenKoanfEnvLoadFails(t *testing.T) {
	orig := envLoader
	envLoader = func(k *koanf.Koanf) error { return errors.New("mocked error") }
	defer func() { envLoader = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked error") {
		t.Fatal("expected error when loading env, got nil")
	}
}

func TestLoad_RegisterValidationFails(t *testing.T) {
	orig := registerValidation
	registerValidation = func(v *validator.Validate) error { return errors.New("mocked validation error") }
	defer func() { registerValidation = orig }()

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "mocked validation error") {
		t.Fatal("expected error when registering validation, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"env", "DNS_ENV", "staging"},
		{"log level", "DNS_LOG_LEVEL", "trace"},
		{"port out of range", "DNS_PORT", "99999"},
		{"port zero", "DNS_PORT", "0"},
		{"port not a number", "DNS_PORT", "not_a_number"},
		{"host name", "DNS_HOST", "localhost"},
		{"host empty", "DNS_HOST", ""},
		{"zone dir empty", "DNS_ZONE_DIR", ""},
		{"zone glob malformed", "DNS_ZONE_GLOB", "[a-"},
		{"watch not a bool", "DNS_WATCH_ZONES", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q, got nil", tt.key, tt.val)
			}
		})
	}
}

func TestValidListenHost(t *testing.T) {
	cases := []struct {
		input    string
		expected bool
	}{
		{"127.0.0.1", true},
		{"0.0.0.0", true},
		{"::", true},
		{"::1", true},
		{"[::1]", false},
		{"127.0.0.1:53", false},
		{"localhost", false},
		{"", false},
	}

	validate := validator.New()
	_ = validate.RegisterValidation("listen_host", validListenHost)

	type S struct {
		Host string `validate:"listen_host"`
	}
	for _, tc := range cases {
		err := validate.Struct(S{Host: tc.input})
		if tc.expected && err != nil {
			t.Errorf("validListenHost(%q) = false, want true", tc.input)
		}
		if !tc.expected && err == nil {
			t.Errorf("validListenHost(%q) = true, want false", tc.input)
		}
	}
}

func TestValidGlob(t *testing.T) {
	validate := validator.New()
	_ = validate.RegisterValidation("glob", validGlob)

	type S struct {
		Pattern string `validate:"glob"`
	}
	for _, ok := range []string{"*.zone", "*", "db.*", "zone-[0-9].json"} {
		if err := validate.Struct(S{Pattern: ok}); err != nil {
			t.Errorf("validGlob(%q) = false, want true", ok)
		}
	}
	if err := validate.Struct(S{Pattern: "[a-"}); err == nil {
		t.Error("validGlob(\"[a-\") = true, want false")
	}
}

func TestDefaultLoader_LoadsDefaults(t *testing.T) {
	k := koanf.New(".")
	if err := defaultLoader(k); err != nil {
		t.Fatalf("defaultLoader returned error: %v", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cfg != DEFAULT_APP_CONFIG {
		t.Errorf("expected defaults %+v, got %+v", DEFAULT_APP_CONFIG, cfg)
	}
}

func TestDefaultLoader_InvalidDefault_ValidationFails(t *testing.T) {
	orig := DEFAULT_APP_CONFIG
	defer func() { DEFAULT_APP_CONFIG = orig }()

	DEFAULT_APP_CONFIG.Host = "not_an_ip"

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation failure for invalid default host, got %v", err)
	}
}
