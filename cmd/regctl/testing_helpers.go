package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testHivePath returns a path to a not-yet-existing hive file under a
// fresh temp directory, which openHive creates on first use.
func testHivePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.hive")
}

// captureOutput captures stdout while running fn.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// resetFlags restores the package-level CLI flags to their defaults
// between table-driven test cases, except that the delete-key and
// delete-value force flags are set to true so no test waits on a prompt.
func resetFlags() {
	quiet = false
	verbose = false
	jsonOut = false
	createKeyVolatile = false
	deleteKeyForce = true
	deleteValueForce = true
	setType = "sz"
	setCreateKey = false
	getShowType = false
	loadNoLazyFlush = false
}
