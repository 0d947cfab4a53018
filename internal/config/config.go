// Package config loads hostprobe settings from flags, environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"hostprobe/internal/firewall"
	"hostprobe/internal/logger"
	"hostprobe/internal/parse"
	"hostprobe/internal/platform"
	"hostprobe/internal/sysutil"
)

// EnvPrefix prefixes every environment variable, e.g. HOSTPROBE_LOG_LEVEL.
const EnvPrefix = "HOSTPROBE"

// Config is the resolved hostprobe configuration.
type Config struct {
	LogLevel  string
	Firewall  FirewallConfig
	Platform  PlatformConfig
	Preflight PreflightConfig
}

// FirewallConfig controls how the firewall check runs.
type FirewallConfig struct {
	ServiceCmd     string
	WindowsService string
	PowerShell     string
	// Timeout bounds one check; zero means wait for the command to exit.
	Timeout time.Duration
}

// PlatformConfig overrides detected platform facts. Empty fields are detected.
type PlatformConfig struct {
	OSType         string
	OSFamily       string
	OSMajorVersion int
}

// PreflightConfig controls the preflight run.
type PreflightConfig struct {
	Parallel      int
	ModuleTimeout time.Duration
	Out           string
	EncryptAge    string
	KeepTmp       bool
}

// NewViper returns a viper instance with hostprobe defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("hostprobe")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/hostprobe")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("firewall.service_cmd", firewall.DefaultServiceCmd)
	v.SetDefault("firewall.windows_service", firewall.DefaultWindowsService)
	v.SetDefault("firewall.powershell", sysutil.DefaultPowerShell)
	v.SetDefault("firewall.timeout", time.Duration(0))

	v.SetDefault("platform.os_type", "")
	v.SetDefault("platform.os_family", "")
	v.SetDefault("platform.os_major_version", 0)

	v.SetDefault("preflight.parallel", 2)
	v.SetDefault("preflight.module_timeout", 60*time.Second)
	v.SetDefault("preflight.out", "")
	v.SetDefault("preflight.encrypt_age", "")
	v.SetDefault("preflight.keep_tmp", false)
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads the config file and resolves the configuration. cfgFile may be
// empty, in which case the default search paths are tried and a missing file
// is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		LogLevel: v.GetString("log.level"),
		Firewall: FirewallConfig{
			ServiceCmd:     v.GetString("firewall.service_cmd"),
			WindowsService: v.GetString("firewall.windows_service"),
			PowerShell:     v.GetString("firewall.powershell"),
			Timeout:        v.GetDuration("firewall.timeout"),
		},
		Platform: PlatformConfig{
			OSType:         v.GetString("platform.os_type"),
			OSFamily:       v.GetString("platform.os_family"),
			OSMajorVersion: v.GetInt("platform.os_major_version"),
		},
		Preflight: PreflightConfig{
			Parallel:      v.GetInt("preflight.parallel"),
			ModuleTimeout: v.GetDuration("preflight.module_timeout"),
			Out:           v.GetString("preflight.out"),
			EncryptAge:    v.GetString("preflight.encrypt_age"),
			KeepTmp:       v.GetBool("preflight.keep_tmp"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	if c.Firewall.Timeout < 0 {
		return fmt.Errorf("invalid firewall.timeout: must not be negative")
	}
	if c.Platform.OSMajorVersion < 0 {
		return fmt.Errorf("invalid platform.os_major_version: must not be negative")
	}
	if c.Preflight.ModuleTimeout <= 0 {
		return fmt.Errorf("invalid preflight.module_timeout: must be positive")
	}
	if _, err := parse.ValidateAgeKey(c.Preflight.EncryptAge); err != nil {
		return err
	}
	return nil
}

// FirewallOptions returns the strategy options.
func (c *Config) FirewallOptions() firewall.Options {
	return firewall.Options{
		ServiceCmd:     c.Firewall.ServiceCmd,
		WindowsService: c.Firewall.WindowsService,
	}
}

// PlatformProvider returns the host provider wrapped with any configured overrides.
func (c *Config) PlatformProvider() platform.Provider {
	o := platform.Override{
		Base:         platform.HostProvider{},
		MajorVersion: c.Platform.OSMajorVersion,
	}
	if c.Platform.OSType != "" {
		o.Type = platform.ParseOSType("", c.Platform.OSType)
	}
	if c.Platform.OSFamily != "" {
		o.Family = platform.ParseFamily(c.Platform.OSFamily)
	}
	if o.Empty() {
		return o.Base
	}
	return o
}
