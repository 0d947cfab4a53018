package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hostprobe/internal/core"
	"hostprobe/internal/logger"
	"hostprobe/internal/modules/fwstatus"
	"hostprobe/internal/modules/hostinfo"
	"hostprobe/internal/parse"
	"hostprobe/internal/platform"
	"hostprobe/internal/schema"
)

func newPreflightCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Run every probe and bundle the results",
		Long: `The preflight command runs the hostinfo and firewall probes, writes their
JSON into a temporary directory, packages it as a tar.gz archive and
optionally encrypts the archive to an age public key. A JSON summary is
printed to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPreflight(cmd)
		},
	}

	flags := cmd.Flags()
	flags.Int("parallel", 2, fmt.Sprintf("maximum concurrent modules (%d-%d)", parse.MinParallel, parse.MaxParallel))
	flags.Duration("module-timeout", 60*time.Second, "per-module timeout")
	flags.String("out", "", "output directory for the archive (default: temp directory)")
	flags.String("encrypt-age", "", "age public key for encryption (must start with age1)")
	flags.Bool("keep-tmp", false, "keep the temporary artifacts directory")

	_ = a.v.BindPFlag("preflight.parallel", flags.Lookup("parallel"))
	_ = a.v.BindPFlag("preflight.module_timeout", flags.Lookup("module-timeout"))
	_ = a.v.BindPFlag("preflight.out", flags.Lookup("out"))
	_ = a.v.BindPFlag("preflight.encrypt_age", flags.Lookup("encrypt-age"))
	_ = a.v.BindPFlag("preflight.keep_tmp", flags.Lookup("keep-tmp"))

	return cmd
}

func (a *app) runPreflight(cmd *cobra.Command) error {
	ctx := cmd.Context()
	now := time.Now()
	opts := a.cfg.Preflight
	runID := uuid.NewString()

	parallel := parse.ClampParallel(opts.Parallel)
	ageRecipientSet, err := parse.ValidateAgeKey(opts.EncryptAge)
	if err != nil {
		return err
	}

	info := a.detectPlatform(ctx)
	hostname := info.Hostname
	if hostname == "" {
		if hostname, err = os.Hostname(); err != nil {
			hostname = "unknown"
		}
	}

	artifactsDir, err := core.CreateTempDir()
	if err != nil {
		return fmt.Errorf("failed to create temporary directory: %w", err)
	}
	if !opts.KeepTmp {
		defer func() {
			if err := core.RemoveTempDir(artifactsDir); err != nil {
				logger.Warningf("Failed to clean up temporary directory %s: %v", artifactsDir, err)
			}
		}()
	}

	var outDir string
	if opts.Out == "" {
		// Parent of the artifacts directory, so the archive never includes itself.
		outDir = filepath.Dir(artifactsDir)
		logger.Infof("Using temporary output directory: %s", outDir)
	} else {
		outDir, err = filepath.Abs(opts.Out)
		if err != nil {
			return fmt.Errorf("failed to resolve output directory: %w", err)
		}
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	run := core.NewRun(parallel, opts.ModuleTimeout, artifactsDir, core.SystemClock{}, logger.Default())
	run.Register(hostinfo.New(platform.Static(info)))
	fw := fwstatus.New(a.newChecker(info))
	run.Register(fw)

	logger.Infof("Starting preflight %s with %d modules, %d parallel, %s timeout",
		runID, len(run.Names()), parallel, opts.ModuleTimeout)

	results, collectErr := run.CollectAll(ctx)
	if collectErr != nil {
		logger.Warningf("Preflight completed with errors: %v", collectErr)
	} else {
		logger.Infof("Preflight completed successfully")
	}

	logger.Infof("Creating archive...")
	pkg, err := core.BundleAndMaybeEncrypt(ctx, artifactsDir, outDir, hostname, now, opts.EncryptAge)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	logger.Infof("Archive created: %s", pkg.Path)

	finalArtifactsDir := artifactsDir
	if !opts.KeepTmp {
		finalArtifactsDir = ""
	}

	output := schema.NewRunOutput(runID, finalArtifactsDir, pkg, ageRecipientSet, parallel,
		opts.ModuleTimeout, run.Names(), results, now)
	output.Platform = &info
	output.Firewall = fw.Report()

	if err := writeJSON(cmd.OutOrStdout(), output); err != nil {
		return err
	}
	return collectErr
}
