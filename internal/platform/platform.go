// Package platform reports the operating-system facts used to pick a firewall check.
package platform

import (
	"strconv"
	"strings"
)

// OSType identifies a distribution or operating system.
type OSType string

const (
	OSUbuntu   OSType = "ubuntu"
	OSDebian   OSType = "debian"
	OSFedora   OSType = "fedora"
	OSCentOS   OSType = "centos"
	OSRedHat   OSType = "redhat"
	OSSLES     OSType = "sles"
	OSOpenSUSE OSType = "opensuse"
	OSWindows  OSType = "windows"
	OSDarwin   OSType = "darwin"
	OSUnknown  OSType = "unknown"
)

// Family groups distributions that share service tooling.
type Family string

const (
	FamilyWindows Family = "windows"
	FamilyDebian  Family = "debian"
	FamilyRedHat  Family = "redhat"
	FamilySuse    Family = "suse"
	FamilyDarwin  Family = "darwin"
	FamilyOther   Family = "other"
)

// Info holds the platform facts for one host.
// Type, Family and MajorVersion drive strategy selection; the rest is informational.
type Info struct {
	Type         OSType `json:"os_type"`
	Family       Family `json:"os_family"`
	MajorVersion int    `json:"os_major_version"`
	Platform     string `json:"platform,omitempty"`
	Version      string `json:"version,omitempty"`
	Kernel       string `json:"kernel,omitempty"`
	Hostname     string `json:"hostname,omitempty"`
}

// IsWindows reports whether the host belongs to the Windows family.
func (i Info) IsWindows() bool {
	return i.Family == FamilyWindows
}

// Normalize maps raw provider strings onto Info.
// goos is the runtime OS name ("linux", "windows", ...); platform, family and
// version are the distribution identifiers as gopsutil reports them.
func Normalize(goos, platform, family, version string) Info {
	t := ParseOSType(goos, platform)
	return Info{
		Type:         t,
		Family:       parseFamily(goos, family, t),
		MajorVersion: ParseMajorVersion(version),
		Platform:     platform,
		Version:      version,
	}
}

// ParseOSType maps a distribution identifier to an OSType. Unrecognised
// identifiers are kept verbatim in lower case.
func ParseOSType(goos, platform string) OSType {
	if strings.EqualFold(goos, "windows") {
		return OSWindows
	}

	p := strings.ToLower(strings.TrimSpace(platform))
	switch {
	case p == "":
		if strings.EqualFold(goos, "darwin") {
			return OSDarwin
		}
		return OSUnknown
	case p == "ubuntu":
		return OSUbuntu
	case p == "debian":
		return OSDebian
	case p == "fedora":
		return OSFedora
	case p == "centos":
		return OSCentOS
	case p == "redhat" || p == "rhel":
		return OSRedHat
	case p == "sles" || p == "suse":
		return OSSLES
	case strings.HasPrefix(p, "opensuse"):
		return OSOpenSUSE
	case p == "darwin" || p == "macos":
		return OSDarwin
	case strings.Contains(p, "windows"):
		return OSWindows
	default:
		return OSType(p)
	}
}

// ParseFamily maps a configured family name to a Family. Unknown names map
// to FamilyOther.
func ParseFamily(name string) Family {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "windows", "winsrv":
		return FamilyWindows
	case "debian", "ubuntu":
		return FamilyDebian
	case "redhat", "rhel", "fedora":
		return FamilyRedHat
	case "suse":
		return FamilySuse
	case "darwin":
		return FamilyDarwin
	default:
		return FamilyOther
	}
}

func parseFamily(goos, family string, t OSType) Family {
	if strings.EqualFold(goos, "windows") || t == OSWindows {
		return FamilyWindows
	}
	if f := ParseFamily(family); f != FamilyOther {
		return f
	}
	return FamilyForType(t)
}

// FamilyForType returns the family a known OSType belongs to.
func FamilyForType(t OSType) Family {
	switch t {
	case OSWindows:
		return FamilyWindows
	case OSUbuntu, OSDebian:
		return FamilyDebian
	case OSFedora, OSCentOS, OSRedHat:
		return FamilyRedHat
	case OSSLES, OSOpenSUSE:
		return FamilySuse
	case OSDarwin:
		return FamilyDarwin
	default:
		return FamilyOther
	}
}

// ParseMajorVersion returns the leading integer of a version string,
// e.g. 22 for "22.04" and 10 for "10.0.19045 Build 19045". It returns 0 when
// the version does not start with a digit.
func ParseMajorVersion(version string) int {
	version = strings.TrimSpace(version)
	end := 0
	for end < len(version) && version[end] >= '0' && version[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(version[:end])
	if err != nil {
		return 0
	}
	return n
}
