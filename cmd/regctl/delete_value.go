package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteValueForce bool

func init() {
	cmd := &cobra.Command{
		Use:   "delete-value <hive> <path> <name>",
		Short: "Delete a value from a registry key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteValue(args)
		},
	}
	cmd.Flags().BoolVarP(&deleteValueForce, "force", "f", false, "Don't prompt for confirmation")
	rootCmd.AddCommand(cmd)
}

func runDeleteValue(args []string) error {
	hivePath, keyPath, valueName := args[0], args[1], args[2]

	rc, root, err := openHive(hivePath)
	if err != nil {
		return err
	}
	ko, err := resolveKey(rc, root, keyPath, false)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", keyPath, err)
	}

	if !deleteValueForce && !quiet {
		printInfo("Delete value %s\\%s\\%s? [y/N]: ", hivePath, keyPath, valueName)
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(response)) != "y" {
			printInfo("Aborted.\n")
			return nil
		}
	}

	if err := rc.DeleteValueKey(ko, valueName); err != nil {
		return fmt.Errorf("delete value %q: %w", valueName, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"path": keyPath, "name": valueName, "success": true})
	}
	printInfo("✓ %s\\%s deleted\n", keyPath, valueName)
	return nil
}
