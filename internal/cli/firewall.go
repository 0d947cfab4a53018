package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"hostprobe/internal/logger"
	"hostprobe/internal/parse"
	"hostprobe/internal/render"
	"hostprobe/internal/schema"
)

// ErrFirewallActive is returned by "firewall --fail-on-active" when the firewall is active.
var ErrFirewallActive = errors.New("firewall is active")

func newFirewallCmd(a *app) *cobra.Command {
	var (
		format       string
		failOnActive bool
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:   "firewall",
		Short: "Report whether the host firewall is active",
		Long: `The firewall command selects the status check for this platform, runs it
and prints the result. A check that cannot run reports the firewall as
inactive and logs a warning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parse.ValidateFormat(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout := a.cfg.Firewall.Timeout; timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			logger.Infof("Checking firewall status...")
			info := a.detectPlatform(ctx)
			report, err := a.newChecker(info).Check(ctx)
			if err != nil {
				logger.Warningf("Unable to determine firewall status: %v", err)
			}

			w := cmd.OutOrStdout()
			if f == parse.FormatText {
				err = render.Firewall(w, info, report, render.Options{Color: !noColor})
			} else {
				err = writeJSON(w, schema.NewFirewallOutput(info, report))
			}
			if err != nil {
				return err
			}

			if failOnActive && report.Active {
				return ErrFirewallActive
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&format, "format", parse.FormatText, "output format: json or text")
	flags.BoolVar(&failOnActive, "fail-on-active", false, "exit with an error when the firewall is active")
	flags.BoolVar(&noColor, "no-color", false, "disable colored text output")
	flags.Duration("timeout", time.Duration(0), "bound the status check (0 waits for the command)")
	_ = a.v.BindPFlag("firewall.timeout", flags.Lookup("timeout"))

	return cmd
}
