package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostprobe/internal/platform"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/sbin/service", cfg.Firewall.ServiceCmd)
	assert.Equal(t, "MpsSvc", cfg.Firewall.WindowsService)
	assert.Equal(t, "powershell", cfg.Firewall.PowerShell)
	assert.Zero(t, cfg.Firewall.Timeout)
	assert.Equal(t, 2, cfg.Preflight.Parallel)
	assert.Equal(t, 60*time.Second, cfg.Preflight.ModuleTimeout)
	assert.Empty(t, cfg.Preflight.EncryptAge)

	_, isHost := cfg.PlatformProvider().(platform.HostProvider)
	assert.True(t, isHost, "no overrides means the plain host provider")
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HOSTPROBE_FIREWALL_SERVICE_CMD", "/usr/sbin/service")
	t.Setenv("HOSTPROBE_LOG_LEVEL", "debug")
	t.Setenv("HOSTPROBE_FIREWALL_TIMEOUT", "15s")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "/usr/sbin/service", cfg.Firewall.ServiceCmd)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.Firewall.Timeout)
	assert.Equal(t, "/usr/sbin/service", cfg.FirewallOptions().ServiceCmd)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: warning
platform:
  os_type: fedora
  os_major_version: 18
preflight:
  parallel: 4
  module_timeout: 90s
`)
	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Preflight.Parallel)
	assert.Equal(t, 90*time.Second, cfg.Preflight.ModuleTimeout)

	o, ok := cfg.PlatformProvider().(platform.Override)
	require.True(t, ok)
	assert.Equal(t, platform.OSFedora, o.Type)
	assert.Equal(t, 18, o.MajorVersion)
}

func TestLoad_EnvironmentBeatsFile(t *testing.T) {
	path := writeConfig(t, "firewall:\n  windows_service: SharedAccess\n")
	t.Setenv("HOSTPROBE_FIREWALL_WINDOWS_SERVICE", "MpsSvc")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "MpsSvc", cfg.Firewall.WindowsService)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(NewViper(), "")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.LogLevel = "chatty"
	assert.ErrorContains(t, cfg.Validate(), "log.level")

	cfg = base()
	cfg.Preflight.ModuleTimeout = 0
	assert.ErrorContains(t, cfg.Validate(), "module_timeout")

	cfg = base()
	cfg.Firewall.Timeout = -time.Second
	assert.ErrorContains(t, cfg.Validate(), "firewall.timeout")

	cfg = base()
	cfg.Preflight.EncryptAge = "ssh-ed25519 AAAA"
	assert.ErrorContains(t, cfg.Validate(), "encrypt-age")
}

func TestPlatformProvider_Overrides(t *testing.T) {
	cfg := &Config{Platform: PlatformConfig{OSType: "opensuse-leap", OSFamily: "suse", OSMajorVersion: 15}}
	info, err := cfg.PlatformProvider().Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, platform.OSOpenSUSE, info.Type)
	assert.Equal(t, platform.FamilySuse, info.Family)
	assert.Equal(t, 15, info.MajorVersion)
}
