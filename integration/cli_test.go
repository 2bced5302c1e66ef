//go:build basic

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCLISmoke exercises the main commands end to end with a local fixture.
func TestCLISmoke(t *testing.T) {
	require.NoError(t, runDevinsight(t, "version"))
	require.NoError(t, runDevinsight(t, "dictionary"))
	require.NoError(t, runDevinsight(t, "dictionary", "Contributor Analysis"))

	fixtureDir := writeFixtureDir(t)
	outputDir := t.TempDir()
	require.NoError(t, runDevinsight(t, "report", fixtureDir,
		"--output-dir", outputDir,
		"--filename", "smoke_run",
		"--export-json",
		"--export-parquet",
		"--export-backend", "sqlite"))

	for _, name := range []string{
		"smoke_run.xlsx",
		"smoke_run.json",
		"smoke_run_commits.parquet",
		"smoke_run_contributors.parquet",
		"devinsight.db",
	} {
		_, err := os.Stat(filepath.Join(outputDir, name))
		require.NoError(t, err, "expected output %s", name)
	}
}
