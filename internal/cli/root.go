package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/adrianmusante/descriptor-tools/internal/compile"
	"github.com/adrianmusante/descriptor-tools/internal/logging"
)

var (
	verbose   bool
	logFormat string
)

// version and commit are set at build time via -ldflags.
// If left empty, they show as "dev".
var version = ""
var commit = ""

var rootCmd = &cobra.Command{
	Use:           "descriptor-tools",
	Short:         "Compile directories of field tables (CSV) into descriptor files",
	Long:          "Compile every <name>.csv field table of the input directory into one line\n<name>,<field>:<type>,... of the output descriptor file.\n\nWithout a subcommand, runs compile.",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Variables already present in the environment are never overridden.
		_ = godotenv.Load()

		if err := resolveBoolFlagFromEnv(cmd, flagVerbose, envVerbose); err != nil {
			return err
		}
		if err := resolveStringFlagFromEnv(cmd, flagLogFormat, envLogFormat); err != nil {
			return err
		}
		format, err := logging.ParseFormat(logFormat)
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := logging.New(os.Stderr, level, format)
		slog.SetDefault(logger)
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
	RunE: runCompile,
}

// Execute runs the CLI until completion or SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func addCompileFlags(flags *pflag.FlagSet) {
	flags.StringP(flagInputDir, flagInputDirShorthand, compile.DefaultInputDir, "Directory containing the field tables (*.csv)")
	flags.StringP(flagOutput, flagOutputShorthand, compile.DefaultOutputPath, "Descriptor file to write")
	flags.Bool(flagDryRun, false, "Write the descriptor file to the workdir and leave the output untouched")
	flags.StringP(flagWorkdir, flagWorkdirShorthand, "", "Working directory base. If set, a unique subdirectory is created per run")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, flagVerbose, flagVerboseShorthand, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, flagLogFormat, string(logging.FormatText), "Log format: text or json")
	addCompileFlags(rootCmd.PersistentFlags())

	v := version
	if v == "" {
		v = "dev"
	}
	if commit != "" {
		rootCmd.Version = v + " (" + commit + ")"
	} else {
		rootCmd.Version = v
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(watchCmd)
}
