//go:build basic || database || integration

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a shared devinsight binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// flatReportFixture is a minimal flat-family report with two
// contributors, one pull request and a direct commit.
const flatReportFixture = `{
  "commits": [
    {
      "sha": "a1b2c3d",
      "author": "Alice Doe",
      "userId": "alice",
      "repository": "acme/payments",
      "type": "direct",
      "date": "2024-03-16T22:15:00Z",
      "stats": {"additions": 10, "deletions": 2, "total": 12},
      "files": [{"filename": "main.go", "status": "modified", "additions": 10, "deletions": 2}]
    },
    {
      "sha": "d4e5f6a",
      "author": "Alice Doe",
      "userId": "alice",
      "repository": "acme/checkout",
      "type": "pull_request",
      "pullRequest": "42",
      "date": "2024-03-12T10:00:00Z",
      "stats": {"additions": 5, "deletions": 1, "total": 6}
    },
    {
      "sha": "b7c8d9e",
      "author": "Bob Ray",
      "userId": "bob",
      "repository": "acme/payments",
      "type": "direct",
      "date": "2024-03-13T09:30:00Z",
      "stats": {"additions": 3, "deletions": 0, "total": 3}
    }
  ],
  "metaTags": {"team": "platform"}
}`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getDevinsightBinary returns the path to the devinsight binary, building it once if needed.
func getDevinsightBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "devinsight-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "devinsight")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build devinsight: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// writeFixtureDir creates a report directory holding one flat report file.
func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alice_report.json"), []byte(flatReportFixture), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return dir
}

// runDevinsight runs the shared binary with the given arguments.
func runDevinsight(t *testing.T, args ...string) error {
	t.Helper()
	binaryPath := getDevinsightBinary()
	cmd := exec.Command(binaryPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
