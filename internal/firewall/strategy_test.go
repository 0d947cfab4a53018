package firewall

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hostprobe/internal/platform"
)

func TestSelectKind(t *testing.T) {
	tests := []struct {
		name string
		info platform.Info
		want Kind
	}{
		{"windows", platform.Info{Type: platform.OSWindows, Family: platform.FamilyWindows, MajorVersion: 10}, KindWindows},
		{"windows family wins over type", platform.Info{Type: platform.OSUbuntu, Family: platform.FamilyWindows}, KindWindows},
		{"ubuntu", platform.Info{Type: platform.OSUbuntu, Family: platform.FamilyDebian, MajorVersion: 22}, KindUbuntu},
		{"fedora 18", platform.Info{Type: platform.OSFedora, Family: platform.FamilyRedHat, MajorVersion: 18}, KindFedora18},
		{"fedora 39", platform.Info{Type: platform.OSFedora, Family: platform.FamilyRedHat, MajorVersion: 39}, KindFedora18},
		{"fedora 17", platform.Info{Type: platform.OSFedora, Family: platform.FamilyRedHat, MajorVersion: 17}, KindGeneric},
		{"sles", platform.Info{Type: platform.OSSLES, Family: platform.FamilySuse, MajorVersion: 12}, KindSuse},
		{"opensuse", platform.Info{Type: platform.OSOpenSUSE, Family: platform.FamilySuse, MajorVersion: 15}, KindSuse},
		{"centos", platform.Info{Type: platform.OSCentOS, Family: platform.FamilyRedHat, MajorVersion: 7}, KindGeneric},
		{"debian", platform.Info{Type: platform.OSDebian, Family: platform.FamilyDebian, MajorVersion: 12}, KindGeneric},
		{"darwin", platform.Info{Type: platform.OSDarwin, Family: platform.FamilyDarwin, MajorVersion: 14}, KindGeneric},
		{"unknown", platform.Info{}, KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectKind(tt.info))
			assert.Equal(t, tt.want, Select(tt.info, Options{}).Kind())
		})
	}
}

func TestSelectIsPure(t *testing.T) {
	info := platform.Info{Type: platform.OSFedora, Family: platform.FamilyRedHat, MajorVersion: 20}
	a := Select(info, DefaultOptions())
	b := Select(info, DefaultOptions())
	assert.Equal(t, a, b)
	assert.NotSame(t, a, b)
}

func TestNew_AppliesOptions(t *testing.T) {
	g := New(KindGeneric, Options{ServiceCmd: "/usr/sbin/service"})
	assert.Equal(t, "/usr/sbin/service iptables status", g.Command())

	w := New(KindWindows, Options{WindowsService: "SharedAccess"})
	assert.Equal(t, "SharedAccess", w.ServiceName())

	assert.Equal(t, DefaultWindowsService, New(KindWindows, Options{}).ServiceName())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "generic", KindGeneric.String())
	assert.Equal(t, "ubuntu", KindUbuntu.String())
	assert.Equal(t, "fedora18", KindFedora18.String())
	assert.Equal(t, "suse", KindSuse.String())
	assert.Equal(t, "windows", KindWindows.String())
}
