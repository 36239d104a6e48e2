package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/adrianmusante/descriptor-tools/internal/compile"
	"github.com/adrianmusante/descriptor-tools/internal/fs"
	"github.com/adrianmusante/descriptor-tools/internal/logging"
	"github.com/adrianmusante/descriptor-tools/internal/run"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the field tables of the input directory into the descriptor file",
	Args:  cobra.NoArgs,
	RunE:  runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	opts, cleanup, err := compileOptions(cmd, "compile")
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	log.Debug("running compile", "opts", opts)

	res, err := compile.Run(ctx, opts)
	if err != nil {
		return err
	}
	logResult(log, opts, res)
	return nil
}

// compileOptions resolves the compile flags (flag > env > default) into
// compile.Options with absolute paths and a fresh per-run workdir. The returned
// cleanup removes the workdir, except in dry-run mode where the result lives
// there.
func compileOptions(cmd *cobra.Command, workdirPrefix string) (compile.Options, func(), error) {
	noop := func() {}
	if err := resolveStringFlagFromEnv(cmd, flagInputDir, envInputDir); err != nil {
		return compile.Options{}, noop, err
	}
	if err := resolveStringFlagFromEnv(cmd, flagOutput, envOutput); err != nil {
		return compile.Options{}, noop, err
	}
	if err := resolveBoolFlagFromEnv(cmd, flagDryRun, envDryRun); err != nil {
		return compile.Options{}, noop, err
	}
	if err := resolveStringFlagFromEnv(cmd, flagWorkdir, envWorkdir); err != nil {
		return compile.Options{}, noop, err
	}

	inputDir, _ := cmd.Flags().GetString(flagInputDir)
	outputPath, _ := cmd.Flags().GetString(flagOutput)
	dryRun, _ := cmd.Flags().GetBool(flagDryRun)
	workdir, _ := cmd.Flags().GetString(flagWorkdir)

	var err error
	if inputDir, err = fs.ResolveAbsPath(inputDir); err != nil {
		return compile.Options{}, noop, err
	}
	if outputPath, err = fs.ResolveAbsPath(outputPath); err != nil {
		return compile.Options{}, noop, err
	}
	if workdir != "" {
		if workdir, err = fs.ResolveAbsPath(workdir); err != nil {
			return compile.Options{}, noop, err
		}
	}

	runWorkdir, cleanup, err := run.NewWorkdir(workdir, workdirPrefix)
	if err != nil {
		return compile.Options{}, noop, err
	}
	logging.FromContext(cmd.Context()).Debug("using workdir", "workdir", runWorkdir)
	if dryRun {
		cleanup = noop
	}

	return compile.Options{
		InputDir:   inputDir,
		OutputPath: outputPath,
		DryRun:     dryRun,
		WorkDir:    runWorkdir,
	}, cleanup, nil
}

func logResult(log *slog.Logger, opts compile.Options, res compile.Result) {
	attrs := []any{
		"path", res.WrittenPath,
		"records", res.Records,
	}
	if n := len(res.SkippedFiles); n > 0 {
		attrs = append(attrs, "skipped_files", n)
	}
	if res.MalformedRows > 0 {
		attrs = append(attrs, "malformed_rows", res.MalformedRows)
	}

	switch {
	case opts.DryRun:
		log.Info("dry run; descriptors written to workdir", attrs...)
	case res.Unchanged:
		log.Info("descriptors unchanged", attrs...)
	default:
		log.Info("descriptors written", attrs...)
	}
}
