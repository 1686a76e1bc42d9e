package main

import "testing"

func TestRunCreateKeyVolatile(t *testing.T) {
	hivePath := testHivePath(t)

	tests := []struct {
		name     string
		path     string
		volatile bool
	}{
		{name: "stable key", path: `Software\Stable`, volatile: false},
		{name: "volatile key", path: `Software\Volatile`, volatile: true},
		{name: "nested path creates intermediates", path: `Software\A\B\C`, volatile: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags()
			createKeyVolatile = tc.volatile

			output, err := captureOutput(t, func() error { return runCreateKey([]string{hivePath, tc.path}) })
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertContains(t, output, []string{"created"})
		})
	}

	t.Run("creating the same key twice does not error", func(t *testing.T) {
		resetFlags()
		if _, err := captureOutput(t, func() error { return runCreateKey([]string{hivePath, `Software\Stable`}) }); err != nil {
			t.Fatalf("unexpected error re-creating an existing key: %v", err)
		}
	})
}
