package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	setType      string
	setCreateKey bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "set <hive> <path> <name> <value>",
		Short: "Set a registry value",
		Long: `The set command sets a registry value at the specified key path.

Example:
  regctl set system.hive "Software\\MyApp" "Version" "1.0.0"
  regctl set system.hive "Software\\MyApp" "Enabled" "1" --type dword
  regctl set system.hive "Software\\NewApp" "Name" "Test" --create-key`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
	cmd.Flags().StringVar(&setType, "type", "sz", "Value type (sz, expand_sz, multi_sz, dword, qword, binary, link)")
	cmd.Flags().BoolVar(&setCreateKey, "create-key", false, "Create the key if it doesn't exist")
	rootCmd.AddCommand(cmd)
}

func runSet(args []string) error {
	hivePath, keyPath, valueName, valueStr := args[0], args[1], args[2], args[3]

	rc, root, err := openHive(hivePath)
	if err != nil {
		return err
	}
	ko, err := resolveKey(rc, root, keyPath, setCreateKey)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", keyPath, err)
	}

	typ, data, err := parseValueString(valueStr, setType)
	if err != nil {
		return err
	}
	if err := rc.SetValueKey(ko, valueName, typ, data); err != nil {
		return fmt.Errorf("set value %q: %w", valueName, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"path": keyPath, "name": valueName, "type": typ.String(), "success": true})
	}
	printInfo("✓ %s\\%s set\n", keyPath, valueName)
	return nil
}
