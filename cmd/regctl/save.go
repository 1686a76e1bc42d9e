package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "save <hive> <path> <dest>",
		Short: "Save a key's subtree to a new hive file",
		Long: `The save command deep-copies a key and its subtree (excluding volatile
keys and values) into a fresh hive file at dest.

Example:
  regctl save system.hive "Software\\MyApp" myapp-backup.hive`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(args)
		},
	})
}

func runSave(args []string) error {
	hivePath, keyPath, destPath := args[0], args[1], args[2]

	rc, root, err := openHive(hivePath)
	if err != nil {
		return err
	}
	ko, err := resolveKey(rc, root, keyPath, false)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", keyPath, err)
	}

	if err := rc.SaveKey(ko, destPath); err != nil {
		return fmt.Errorf("save %q: %w", keyPath, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"path": keyPath, "dest": destPath, "success": true})
	}
	printInfo("✓ %s saved to %s\n", keyPath, destPath)
	return nil
}
