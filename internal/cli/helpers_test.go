package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag of cmd to its default and clears Changed,
// so tests do not leak flag state into each other.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
}

// setFlags resets cmd and then applies name/value pairs.
func setFlags(t *testing.T, cmd *cobra.Command, pairs ...string) {
	t.Helper()
	resetFlags(t, cmd)
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := cmd.Flags().Set(pairs[i], pairs[i+1]); err != nil {
			t.Fatalf("Failed to set --%s: %v", pairs[i], err)
		}
	}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
