package cli

import (
	"github.com/spf13/cobra"

	"hostprobe/internal/firewall"
	"hostprobe/internal/parse"
	"hostprobe/internal/render"
	"hostprobe/internal/schema"
)

func newPlatformCmd(a *app) *cobra.Command {
	var (
		format  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Show detected platform facts and the firewall check they select",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parse.ValidateFormat(format)
			if err != nil {
				return err
			}

			info := a.detectPlatform(cmd.Context())
			strategy := firewall.Select(info, a.cfg.FirewallOptions())

			w := cmd.OutOrStdout()
			if f == parse.FormatText {
				return render.Platform(w, info, strategy.Kind(), render.Options{Color: !noColor})
			}
			return writeJSON(w, schema.PlatformOutput{
				Command:  "platform",
				Platform: info,
				Strategy: strategy.Kind().String(),
				Service:  strategy.ServiceName(),
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", parse.FormatJSON, "output format: json or text")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored text output")
	return cmd
}
