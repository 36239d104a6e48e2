package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const envPrefix = "DESCRIPTOR_TOOLS_"

const (
	envVerbose   = envPrefix + "VERBOSE"
	envLogFormat = envPrefix + "LOG_FORMAT"
	envInputDir  = envPrefix + "INPUT_DIR"
	envOutput    = envPrefix + "OUTPUT"
	envDryRun    = envPrefix + "DRY_RUN"
	envWorkdir   = envPrefix + "WORKDIR"
	// Watch tuning.
	envWatchDebounce    = envPrefix + "WATCH_DEBOUNCE"
	envWatchMinInterval = envPrefix + "WATCH_MIN_INTERVAL"
)

const (
	flagDebounce          = "debounce"
	flagDryRun            = "dry-run"
	flagInputDir          = "input-dir"
	flagInputDirShorthand = "i"
	flagLogFormat         = "log-format"
	flagMinInterval       = "min-interval"
	flagOutput            = "output"
	flagOutputShorthand   = "o"
	flagVerbose           = "verbose"
	flagVerboseShorthand  = "v"
	flagWorkdir           = "workdir"
	flagWorkdirShorthand  = "w"
)

func parseEnvBool(key string) (bool, bool, error) {
	v, ok := envString(key)
	if !ok {
		return false, false, nil
	}

	switch strings.ToLower(v) {
	case "1", "t", "true", "y", "yes", "on":
		return true, true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, true, nil
	default:
		return false, false, fmt.Errorf("invalid %s=%q (expected true/false)", key, v)
	}
}

func envString(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	return v, true
}

// envFlagUnset reports whether the flag exists and was not given on the command
// line. A flag given on the command line always wins over env vars.
func envFlagUnset(cmd *cobra.Command, flagName string) bool {
	f := cmd.Flags().Lookup(flagName)
	return f != nil && !f.Changed
}

func resolveBoolFlagFromEnv(cmd *cobra.Command, flagName, envKey string) error {
	if !envFlagUnset(cmd, flagName) {
		return nil
	}
	b, ok, err := parseEnvBool(envKey)
	if err != nil || !ok {
		return err
	}
	return cmd.Flags().Set(flagName, strconv.FormatBool(b))
}

func resolveStringFlagFromEnv(cmd *cobra.Command, flagName, envKey string) error {
	if !envFlagUnset(cmd, flagName) {
		return nil
	}
	v, ok := envString(envKey)
	if !ok {
		return nil
	}
	return cmd.Flags().Set(flagName, v)
}

func resolveDurationFlagFromEnv(cmd *cobra.Command, flagName, envKey string) error {
	if !envFlagUnset(cmd, flagName) {
		return nil
	}
	v, ok := envString(envKey)
	if !ok {
		return nil
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q (expected duration, e.g. 500ms): %w", envKey, v, err)
	}
	return cmd.Flags().Set(flagName, dur.String())
}
