// Package tuitest holds helpers shared by the view tests.
package tuitest

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update snapshot files")

var ansi = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// Plain strips terminal escapes and trailing blanks so views compare as text.
func Plain(view string) string {
	lines := strings.Split(ansi.ReplaceAllString(view, ""), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// AssertSnapshot compares a rendered view with testdata/<test name>.snap.
// Run with -update to write new snapshots.
func AssertSnapshot(t *testing.T, view string) {
	t.Helper()

	output := Plain(view)
	snapshotPath := filepath.Join("testdata", strings.ToLower(strings.ReplaceAll(t.Name(), "/", "_"))+".snap")

	if *update {
		require.NoError(t, os.MkdirAll(filepath.Dir(snapshotPath), 0o755))
		require.NoError(t, os.WriteFile(snapshotPath, []byte(output), 0o644))
		t.Logf("updated snapshot: %s", snapshotPath)
		return
	}

	snapshot, err := os.ReadFile(snapshotPath)
	if os.IsNotExist(err) {
		t.Fatalf("snapshot file not found: %s. run with -update to create it.", snapshotPath)
	}
	require.NoError(t, err)

	require.Equal(t, string(snapshot), output, "snapshot does not match. run with -update to update it.")
}
