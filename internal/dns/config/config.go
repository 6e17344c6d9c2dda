package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Host is the IP address the UDP listener binds to.
	Host string `koanf:"host" validate:"required,listen_host"`

	// Port is the UDP port the DNS server will bind to.
	Port int `koanf:"port" validate:"required,gte=1,lte=65535"`

	// ZoneDir is the directory where zone sources are located.
	ZoneDir string `koanf:"zone_dir" validate:"required"`

	// ZoneGlob selects zone sources inside ZoneDir.
	ZoneGlob string `koanf:"zone_glob" validate:"required,glob"`

	// WatchZones reloads the zone store when ZoneDir changes.
	WatchZones bool `koanf:"watch_zones"`

	// NXDomain answers names outside every zone with NXDOMAIN instead of NOERROR.
	NXDomain bool `koanf:"nxdomain"`

	// FormatErrors answers malformed queries with FORMERR instead of dropping them.
	FormatErrors bool `koanf:"format_errors"`
}

// Addr returns the host:port pair the listener binds to.
func (c *AppConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DEFAULT_APP_CONFIG defines the default application configuration settings for the DNS service.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:          "prod",
	LogLevel:     "info",
	Host:         "127.0.0.1",
	Port:         53,
	ZoneDir:      "/etc/ktdns/zones/",
	ZoneGlob:     "*.zone",
	WatchZones:   false,
	NXDomain:     false,
	FormatErrors: false,
}

// validListenHost accepts literal IPv4 or IPv6 addresses, including the unspecified ones.
// Hostnames are rejected; the listener never resolves its own bind address.
func validListenHost(fl validator.FieldLevel) bool {
	host := fl.Field().String()
	if host == "" {
		return false
	}
	return net.ParseIP(host) != nil
}

// validGlob accepts any pattern filepath.Match can compile.
func validGlob(fl validator.FieldLevel) bool {
	_, err := filepath.Match(fl.Field().String(), "")
	return err == nil
}

// envLoader is a function that loads environment variables with the prefix "DNS_".
// It transforms the keys to lowercase and removes the prefix,
// and can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNS_"))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG into the provided Koanf instance
// using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "listen_host" and "glob" tags.
var registerValidation = func(v *validator.Validate) error {
	if err := v.RegisterValidation("listen_host", validListenHost); err != nil {
		return err
	}
	return v.RegisterValidation("glob", validGlob)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
