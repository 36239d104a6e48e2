package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/adrianmusante/descriptor-tools/internal/compile"
	"github.com/adrianmusante/descriptor-tools/internal/logging"
	"github.com/adrianmusante/descriptor-tools/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Compile once, then recompile whenever a field table changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveDurationFlagFromEnv(cmd, flagDebounce, envWatchDebounce); err != nil {
			return err
		}
		if err := resolveDurationFlagFromEnv(cmd, flagMinInterval, envWatchMinInterval); err != nil {
			return err
		}
		debounce, _ := cmd.Flags().GetDuration(flagDebounce)
		minInterval, _ := cmd.Flags().GetDuration(flagMinInterval)

		opts, cleanup, err := compileOptions(cmd, "watch")
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		log := logging.FromContext(ctx)

		recompile := func(ctx context.Context) error {
			res, err := compile.Run(ctx, opts)
			if err != nil {
				return err
			}
			logResult(log, opts, res)
			return nil
		}

		// The first pass reports a missing directory like compile does.
		if err := recompile(ctx); err != nil {
			return err
		}

		return watch.Run(ctx, watch.Options{
			Dir:         opts.InputDir,
			Debounce:    debounce,
			MinInterval: minInterval,
			Ignore:      []string{opts.OutputPath},
		}, recompile)
	},
}

func init() {
	watchCmd.Flags().Duration(flagDebounce, watch.DefaultDebounce, "Quiet period after the last change before recompiling")
	watchCmd.Flags().Duration(flagMinInterval, watch.DefaultMinInterval, "Minimum time between two recompiles (0 disables)")
}
