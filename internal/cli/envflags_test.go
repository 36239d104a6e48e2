package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestResolveBoolFlagFromEnv_FlagTakesPrecedence(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().Bool(flagDryRun, false, "")
	_ = cmd.Flags().Set(flagDryRun, "true")

	t.Setenv(envDryRun, "false")

	if err := resolveBoolFlagFromEnv(cmd, flagDryRun, envDryRun); err != nil {
		t.Fatalf("resolveBoolFlagFromEnv: %v", err)
	}

	got, _ := cmd.Flags().GetBool(flagDryRun)
	if got != true {
		t.Fatalf("expected dry-run=true from flag, got %v", got)
	}
}

func TestResolveBoolFlagFromEnv_UsesEnvWhenFlagMissing(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().Bool(flagDryRun, false, "")

	t.Setenv(envDryRun, "yes")

	if err := resolveBoolFlagFromEnv(cmd, flagDryRun, envDryRun); err != nil {
		t.Fatalf("resolveBoolFlagFromEnv: %v", err)
	}

	got, _ := cmd.Flags().GetBool(flagDryRun)
	if got != true {
		t.Fatalf("expected dry-run=true from env, got %v", got)
	}
}

func TestResolveBoolFlagFromEnv_InvalidValueErrors(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().Bool(flagDryRun, false, "")

	t.Setenv(envDryRun, "nope")

	if err := resolveBoolFlagFromEnv(cmd, flagDryRun, envDryRun); err == nil {
		t.Fatalf("expected error for invalid env bool")
	}
}

func TestResolveBoolFlagFromEnv_BlankEnvIsIgnored(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().Bool(flagDryRun, false, "")

	t.Setenv(envDryRun, "   ")

	if err := resolveBoolFlagFromEnv(cmd, flagDryRun, envDryRun); err != nil {
		t.Fatalf("resolveBoolFlagFromEnv: %v", err)
	}
	if cmd.Flags().Lookup(flagDryRun).Changed {
		t.Fatalf("blank env var should not set the flag")
	}
}

func TestResolveStringFlagFromEnv_FlagTakesPrecedence(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().String(flagInputDir, "fields", "")
	_ = cmd.Flags().Set(flagInputDir, "/from-flag")

	t.Setenv(envInputDir, "/from-env")

	if err := resolveStringFlagFromEnv(cmd, flagInputDir, envInputDir); err != nil {
		t.Fatalf("resolveStringFlagFromEnv: %v", err)
	}

	got, _ := cmd.Flags().GetString(flagInputDir)
	if got != "/from-flag" {
		t.Fatalf("expected input-dir=/from-flag, got %q", got)
	}
}

func TestResolveStringFlagFromEnv_UsesEnvWhenFlagMissing(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().String(flagInputDir, "fields", "")

	t.Setenv(envInputDir, " /from-env ")

	if err := resolveStringFlagFromEnv(cmd, flagInputDir, envInputDir); err != nil {
		t.Fatalf("resolveStringFlagFromEnv: %v", err)
	}

	got, _ := cmd.Flags().GetString(flagInputDir)
	if got != "/from-env" {
		t.Fatalf("expected input-dir=/from-env, got %q", got)
	}
}

func TestResolveStringFlagFromEnv_UnknownFlagIsIgnored(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	t.Setenv(envInputDir, "/from-env")

	if err := resolveStringFlagFromEnv(cmd, flagInputDir, envInputDir); err != nil {
		t.Fatalf("resolveStringFlagFromEnv: %v", err)
	}
}

func TestResolveDurationFlagFromEnv_UsesEnvWhenFlagMissing(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().Duration(flagDebounce, time.Second, "")

	t.Setenv(envWatchDebounce, "250ms")

	if err := resolveDurationFlagFromEnv(cmd, flagDebounce, envWatchDebounce); err != nil {
		t.Fatalf("resolveDurationFlagFromEnv: %v", err)
	}

	got, _ := cmd.Flags().GetDuration(flagDebounce)
	if got != 250*time.Millisecond {
		t.Fatalf("expected debounce=250ms from env, got %v", got)
	}
}

func TestResolveDurationFlagFromEnv_FlagTakesPrecedence(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().Duration(flagDebounce, time.Second, "")
	_ = cmd.Flags().Set(flagDebounce, "2s")

	t.Setenv(envWatchDebounce, "250ms")

	if err := resolveDurationFlagFromEnv(cmd, flagDebounce, envWatchDebounce); err != nil {
		t.Fatalf("resolveDurationFlagFromEnv: %v", err)
	}

	got, _ := cmd.Flags().GetDuration(flagDebounce)
	if got != 2*time.Second {
		t.Fatalf("expected debounce=2s from flag, got %v", got)
	}
}

func TestResolveDurationFlagFromEnv_InvalidValueErrors(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().Duration(flagDebounce, time.Second, "")

	t.Setenv(envWatchDebounce, "soon")

	if err := resolveDurationFlagFromEnv(cmd, flagDebounce, envWatchDebounce); err == nil {
		t.Fatalf("expected error for invalid env duration")
	}
}
