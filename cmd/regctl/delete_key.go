package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteKeyForce bool

func init() {
	cmd := &cobra.Command{
		Use:   "delete-key <hive> <path>",
		Short: "Delete a registry key (the key must have no subkeys)",
		Long: `The delete-key command deletes a registry key from a hive.

A key with subkeys cannot be deleted directly; delete the subkeys first.

Example:
  regctl delete-key system.hive "Software\\OldApp"
  regctl delete-key system.hive "Software\\OldApp" --force`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteKey(args)
		},
	}
	cmd.Flags().BoolVarP(&deleteKeyForce, "force", "f", false, "Don't prompt for confirmation")
	rootCmd.AddCommand(cmd)
}

func runDeleteKey(args []string) error {
	hivePath, keyPath := args[0], args[1]

	rc, root, err := openHive(hivePath)
	if err != nil {
		return err
	}
	ko, err := resolveKey(rc, root, keyPath, false)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", keyPath, err)
	}

	if !deleteKeyForce && !quiet {
		printInfo("Delete key %s\\%s? [y/N]: ", hivePath, keyPath)
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(response)) != "y" {
			printInfo("Aborted.\n")
			return nil
		}
	}

	if err := rc.DeleteKey(ko); err != nil {
		return fmt.Errorf("delete %q: %w", keyPath, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"path": keyPath, "success": true})
	}
	printInfo("✓ %s deleted\n", keyPath)
	return nil
}
