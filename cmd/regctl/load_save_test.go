package main

import (
	"path/filepath"
	"testing"
)

func TestRunSaveAndLoad(t *testing.T) {
	hivePath := testHivePath(t)
	savedPath := filepath.Join(filepath.Dir(hivePath), "saved.hive")

	resetFlags()
	if _, err := captureOutput(t, func() error { return runCreateKey([]string{hivePath, `Software\MyApp`}) }); err != nil {
		t.Fatalf("create-key: %v", err)
	}
	if _, err := captureOutput(t, func() error {
		return runSet([]string{hivePath, `Software\MyApp`, "Version", "1.0.0"})
	}); err != nil {
		t.Fatalf("set: %v", err)
	}

	t.Run("save writes a standalone hive file", func(t *testing.T) {
		resetFlags()
		output, err := captureOutput(t, func() error {
			return runSave([]string{hivePath, `Software\MyApp`, savedPath})
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertContains(t, output, []string{"saved"})
	})

	t.Run("load mounts the saved hive under a new key", func(t *testing.T) {
		resetFlags()
		output, err := captureOutput(t, func() error {
			return runLoad([]string{hivePath, `Software\Mounted\MyApp`, savedPath})
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertContains(t, output, []string{"mounted"})

		valOutput, err := captureOutput(t, func() error {
			return runGet([]string{hivePath, `Software\Mounted\MyApp`, "Version"})
		})
		if err != nil {
			t.Fatalf("unexpected error querying the mounted hive: %v", err)
		}
		assertContains(t, valOutput, []string{"1.0.0"})
	})

	t.Run("load with --no-lazy-flush still mounts successfully", func(t *testing.T) {
		resetFlags()
		loadNoLazyFlush = true
		if _, err := captureOutput(t, func() error {
			return runLoad([]string{hivePath, `Software\MountedEager`, savedPath})
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
