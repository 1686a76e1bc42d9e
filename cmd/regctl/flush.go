package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "flush <hive> [path]",
		Short: "Flush a key's hive to disk",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlush(args)
		},
	})
}

func runFlush(args []string) error {
	hivePath := args[0]
	keyPath := ""
	if len(args) == 2 {
		keyPath = args[1]
	}

	rc, root, err := openHive(hivePath)
	if err != nil {
		return err
	}
	ko := root
	if keyPath != "" {
		ko, err = resolveKey(rc, root, keyPath, false)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", keyPath, err)
		}
	}

	if err := rc.FlushKey(ko); err != nil {
		return fmt.Errorf("flush %q: %w", hivePath, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"hive": hivePath, "success": true})
	}
	printInfo("✓ %s flushed\n", hivePath)
	return nil
}
