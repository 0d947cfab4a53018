package core

import (
	"os"
	"regexp"
	"strings"
)

var (
	unsafeNameChars = regexp.MustCompile(`[^a-z0-9_-]`)
	repeatedUnders  = regexp.MustCompile(`_+`)
)

// SanitizeName turns a module or host name into a safe path component.
func SanitizeName(name string) string {
	name = strings.ToLower(name)
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = repeatedUnders.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		name = "unknown"
	}
	return name
}

// CreateTempDir creates a temporary directory for probe artifacts.
func CreateTempDir() (string, error) {
	return os.MkdirTemp("", "hostprobe_*")
}

// RemoveTempDir removes a temporary directory and its contents.
func RemoveTempDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}
