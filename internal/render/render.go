// Package render formats hostprobe results for terminals.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"hostprobe/internal/firewall"
	"hostprobe/internal/platform"
)

// Options controls text rendering.
type Options struct {
	// Color enables ANSI styling when w is a terminal.
	Color bool
}

type styles struct {
	label    lipgloss.Style
	active   lipgloss.Style
	inactive lipgloss.Style
	warning  lipgloss.Style
	failure  lipgloss.Style
}

func newStyles(w io.Writer, opts Options) styles {
	r := lipgloss.NewRenderer(w)
	if !opts.Color {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		label:    r.NewStyle().Width(12).Foreground(lipgloss.Color("8")),
		active:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		inactive: r.NewStyle().Foreground(lipgloss.Color("10")),
		warning:  r.NewStyle().Foreground(lipgloss.Color("11")),
		failure:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (s styles) row(b *strings.Builder, label, value string) {
	b.WriteString(s.label.Render(label))
	b.WriteString(value)
	b.WriteByte('\n')
}

// Firewall writes a firewall report as aligned label/value rows.
func Firewall(w io.Writer, info platform.Info, report firewall.Report, opts Options) error {
	s := newStyles(w, opts)
	var b strings.Builder

	status := s.inactive.Render("inactive")
	if report.Active {
		status = s.active.Render("ACTIVE")
	}
	s.row(&b, "Firewall", status)
	s.row(&b, "Platform", platformLine(info))
	s.row(&b, "Strategy", report.Strategy)
	s.row(&b, "Service", report.Service)
	s.row(&b, "Command", firstLine(report.Command))
	s.row(&b, "Exit code", strconv.Itoa(report.ExitCode))
	if len(report.EnabledProfiles) > 0 {
		s.row(&b, "Profiles", strings.Join(report.EnabledProfiles, ", "))
	}
	for _, warning := range report.Warnings {
		s.row(&b, "Warning", s.warning.Render(warning))
	}
	if report.Error != "" {
		s.row(&b, "Error", s.failure.Render(report.Error))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Platform writes detected platform facts and the strategy they select.
func Platform(w io.Writer, info platform.Info, kind firewall.Kind, opts Options) error {
	s := newStyles(w, opts)
	var b strings.Builder

	s.row(&b, "Platform", platformLine(info))
	s.row(&b, "Hostname", info.Hostname)
	s.row(&b, "Kernel", info.Kernel)
	s.row(&b, "Strategy", kind.String())

	_, err := io.WriteString(w, b.String())
	return err
}

func platformLine(info platform.Info) string {
	line := fmt.Sprintf("%s (%s family)", info.Type, info.Family)
	if info.MajorVersion > 0 {
		line = fmt.Sprintf("%s %d (%s family)", info.Type, info.MajorVersion, info.Family)
	}
	return line
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
