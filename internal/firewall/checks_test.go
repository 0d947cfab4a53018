package firewall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostprobe/internal/sysutil"
)

type interpretCase struct {
	name   string
	res    sysutil.Result
	active bool
}

func runInterpretCases(t *testing.T, s Strategy, cases []interpretCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := s.Interpret(tc.res)
			require.NoError(t, err)
			assert.Equal(t, tc.active, v.Active)
		})
	}
}

func TestGenericCheck(t *testing.T) {
	c := NewGenericCheck("")
	assert.Equal(t, "/sbin/service iptables status", c.Command())
	assert.Equal(t, "iptables", c.ServiceName())
	assert.Equal(t, KindGeneric, c.Kind())
	assert.Equal(t, "/usr/sbin/service iptables status", NewGenericCheck("/usr/sbin/service").Command())

	runInterpretCases(t, c, []interpretCase{
		{"stopped", sysutil.Result{ExitCode: 3, Stdout: "iptables: Firewall is not running."}, false},
		{"stopped ignores stdout", sysutil.Result{ExitCode: 3, Stdout: "Table: filter"}, false},
		{"filter table listed", sysutil.Result{ExitCode: 0, Stdout: "Table: filter\nChain INPUT (policy ACCEPT)\n"}, true},
		{"running without filter table", sysutil.Result{ExitCode: 0, Stdout: "Table: nat\n"}, false},
		{"unexpected exit", sysutil.Result{ExitCode: 1, Stdout: "Table: filter"}, false},
	})
}

func TestUbuntuCheck(t *testing.T) {
	c := NewUbuntuCheck()
	assert.Equal(t, "ufw status", c.Command())
	assert.Equal(t, "ufw", c.ServiceName())

	runInterpretCases(t, c, []interpretCase{
		{"active", sysutil.Result{Stdout: "Status: active\n\nTo Action From\n"}, true},
		{"inactive", sysutil.Result{Stdout: "Status: inactive"}, false},
		{"no status line", sysutil.Result{Stdout: "ERROR: You need to be root to run this script"}, false},
		{"non-zero exit", sysutil.Result{ExitCode: 1, Stdout: "Status: active"}, false},
	})
}

func TestFedora18Check(t *testing.T) {
	c := NewFedora18Check()
	assert.Equal(t, "systemctl is-active iptables", c.Command())

	runInterpretCases(t, c, []interpretCase{
		{"active", sysutil.Result{Stdout: "active\n"}, true},
		{"inactive with exit 0", sysutil.Result{Stdout: "inactive\n"}, false},
		{"inactive", sysutil.Result{ExitCode: 3, Stdout: "inactive\n"}, false},
		{"unknown unit", sysutil.Result{ExitCode: 4, Stdout: "unknown\n"}, false},
	})
}

func TestSuseCheck(t *testing.T) {
	c := NewSuseCheck()
	assert.Equal(t, "SuSEfirewall2 status", c.Command())
	assert.Equal(t, "SuSEfirewall2", c.ServiceName())

	runInterpretCases(t, c, []interpretCase{
		{"tables listed", sysutil.Result{Stdout: "### iptables filter\nChain INPUT (policy DROP)\n"}, true},
		{"not active wins", sysutil.Result{Stdout: "SuSEfirewall2 not active\n### iptables filter\n"}, false},
		{"empty", sysutil.Result{}, false},
		{"non-zero exit", sysutil.Result{ExitCode: 1, Stdout: "### iptables"}, false},
	})
}

func TestWindowsCheck_Interpret(t *testing.T) {
	c := NewWindowsCheck("")
	assert.Equal(t, "MpsSvc", c.ServiceName())
	assert.Equal(t, CheckFirewallScript, c.Command())

	t.Run("all disabled", func(t *testing.T) {
		v, err := c.Interpret(sysutil.Result{Stdout: "0\n0\n0"})
		require.NoError(t, err)
		assert.False(t, v.Active)
		assert.Empty(t, v.Warnings)
	})

	t.Run("domain enabled", func(t *testing.T) {
		v, err := c.Interpret(sysutil.Result{Stdout: "1\n0\n0"})
		require.NoError(t, err)
		assert.True(t, v.Active)
		assert.Equal(t, []string{"DomainProfile"}, v.EnabledProfiles)
		require.Len(t, v.Warnings, 1)
		assert.Contains(t, v.Warnings[0], "Following firewall profiles are enabled:DomainProfile.")
	})

	t.Run("crlf and blank lines", func(t *testing.T) {
		v, err := c.Interpret(sysutil.Result{Stdout: "\r\n0\r\n1\r\n\r\n1\r\n"})
		require.NoError(t, err)
		assert.True(t, v.Active)
		assert.Equal(t, []string{"StandardProfile", "PublicProfile"}, v.EnabledProfiles)
		assert.Contains(t, v.Warnings[0], "enabled:StandardProfile,PublicProfile.")
	})

	t.Run("script failed", func(t *testing.T) {
		v, err := c.Interpret(sysutil.Result{ExitCode: 1, Stdout: "1\n1\n1", Stderr: "Access is denied"})
		require.NoError(t, err)
		assert.False(t, v.Active)
		assert.Equal(t, []string{"Unable to check firewall status:Access is denied"}, v.Warnings)
	})

	t.Run("service stopped", func(t *testing.T) {
		v, err := c.Interpret(sysutil.Result{})
		require.NoError(t, err)
		assert.False(t, v.Active)
	})

	t.Run("too few values", func(t *testing.T) {
		v, err := c.Interpret(sysutil.Result{Stdout: "1\n0"})
		assert.ErrorIs(t, err, ErrProfileOutput)
		assert.False(t, v.Active)
	})

	t.Run("too few values all disabled", func(t *testing.T) {
		v, err := c.Interpret(sysutil.Result{Stdout: "0"})
		require.NoError(t, err)
		assert.False(t, v.Active)
	})
}
