// Package cli provides the hostprobe command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hostprobe/internal/config"
	"hostprobe/internal/firewall"
	"hostprobe/internal/logger"
	"hostprobe/internal/platform"
	"hostprobe/internal/sysutil"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config

	// provider and checkerOpts replace host access in tests.
	provider    platform.Provider
	checkerOpts []firewall.Option
}

func newApp() *app {
	return &app{v: config.NewViper()}
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() error {
	return newRootCmd(newApp()).Execute()
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hostprobe",
		Short: "Probe a host before cluster installation",
		Long: `hostprobe inspects a host ahead of a cluster installation. It reports
whether the host firewall is active, shows the platform facts the check was
selected from, and can bundle a preflight report into an optionally
age-encrypted archive.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./hostprobe.yaml or /etc/hostprobe/hostprobe.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warning, error")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(newFirewallCmd(a), newPlatformCmd(a), newPreflightCmd(a))
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	config.LoadDotEnv()

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if err := logger.Init(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// detectPlatform reads platform facts. When detection fails the host is
// treated as unknown, which selects the generic check.
func (a *app) detectPlatform(ctx context.Context) platform.Info {
	p := a.provider
	if p == nil {
		p = a.cfg.PlatformProvider()
	}

	info, err := p.Info(ctx)
	if err != nil {
		logger.Warningf("Unable to detect platform, using the generic firewall check: %v", err)
		return platform.Info{Type: platform.OSUnknown, Family: platform.FamilyOther}
	}
	logger.Debugf("Detected platform %s family=%s major=%d", info.Type, info.Family, info.MajorVersion)
	return info
}

func (a *app) newChecker(info platform.Info) *firewall.Checker {
	opts := []firewall.Option{
		firewall.WithScriptRunner(sysutil.PowerShell{Binary: a.cfg.Firewall.PowerShell}),
		firewall.WithLogger(logger.Default()),
	}
	opts = append(opts, a.checkerOpts...)
	return firewall.NewChecker(firewall.Select(info, a.cfg.FirewallOptions()), opts...)
}

func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}
