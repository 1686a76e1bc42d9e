package main

import "testing"

func TestRunSetGetValues(t *testing.T) {
	hivePath := testHivePath(t)

	setCases := []struct {
		name, value, typ string
	}{
		{"Version", "1.0.0", "sz"},
		{"Enabled", "1", "dword"},
		{"Tags", "a,b,c", "multi_sz"},
	}
	for _, sc := range setCases {
		resetFlags()
		setType = sc.typ
		if _, err := captureOutput(t, func() error {
			return runSet([]string{hivePath, `Software\MyApp`, sc.name, sc.value})
		}); err != nil {
			t.Fatalf("set %s: %v", sc.name, err)
		}
	}

	t.Run("values lists all entries", func(t *testing.T) {
		resetFlags()
		output, err := captureOutput(t, func() error { return runValues([]string{hivePath, `Software\MyApp`}) })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertContains(t, output, []string{"Version", "Enabled", "Tags"})
	})

	t.Run("values json output", func(t *testing.T) {
		resetFlags()
		jsonOut = true
		output, err := captureOutput(t, func() error { return runValues([]string{hivePath, `Software\MyApp`}) })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertJSON(t, output)
	})

	t.Run("get returns the stored string", func(t *testing.T) {
		resetFlags()
		output, err := captureOutput(t, func() error { return runGet([]string{hivePath, `Software\MyApp`, "Version"}) })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertContains(t, output, []string{"1.0.0"})
	})

	t.Run("get with --type shows the type name", func(t *testing.T) {
		resetFlags()
		getShowType = true
		output, err := captureOutput(t, func() error { return runGet([]string{hivePath, `Software\MyApp`, "Enabled"}) })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertContains(t, output, []string{"Enabled", "REG_DWORD", "1"})
	})

	t.Run("get unknown value errors", func(t *testing.T) {
		resetFlags()
		if _, err := captureOutput(t, func() error {
			return runGet([]string{hivePath, `Software\MyApp`, "NoSuchValue"})
		}); err == nil {
			t.Fatalf("expected error, got none")
		}
	})

	t.Run("set with --create-key makes the parent", func(t *testing.T) {
		resetFlags()
		setCreateKey = true
		if _, err := captureOutput(t, func() error {
			return runSet([]string{hivePath, `Software\NewApp`, "Name", "Test"})
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output, err := captureOutput(t, func() error { return runGet([]string{hivePath, `Software\NewApp`, "Name"}) })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertContains(t, output, []string{"Test"})
	})
}
