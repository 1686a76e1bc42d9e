package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmkernel/cmreg/cm"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "info <hive> [path]",
		Short: "Query aggregate metadata for a key (KEY_FULL_INFORMATION)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	})
}

func runInfo(args []string) error {
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

	out, _, err := rc.QueryKey(ko, cm.KeyFullInformation, 4096)
	if err != nil {
		return fmt.Errorf("query %q: %w", keyPath, err)
	}

	classLen := int(uint32FromBuf(out, 16))
	subkeys := uint32FromBuf(out, 20)
	maxNameLen := uint32FromBuf(out, 24)
	maxClassLen := uint32FromBuf(out, 28)
	values := uint32FromBuf(out, 32)
	maxValueNameLen := uint32FromBuf(out, 36)
	maxValueDataLen := uint32FromBuf(out, 40)
	class := decodeUTF16(out[cm.KeyFullHeaderSize : cm.KeyFullHeaderSize+classLen])

	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":               keyPath,
			"class":              class,
			"subkeys":            subkeys,
			"max_name_len":       maxNameLen,
			"max_class_len":      maxClassLen,
			"values":             values,
			"max_value_name_len": maxValueNameLen,
			"max_value_data_len": maxValueDataLen,
		})
	}

	printInfo("Key: %s\n", keyPath)
	if class != "" {
		printInfo("  Class: %s\n", class)
	}
	printInfo("  Subkeys: %d\n", subkeys)
	printInfo("  Values: %d\n", values)
	printInfo("  Max subkey name length: %d\n", maxNameLen)
	printInfo("  Max subkey class length: %d\n", maxClassLen)
	printInfo("  Max value name length: %d\n", maxValueNameLen)
	printInfo("  Max value data length: %d\n", maxValueDataLen)
	return nil
}
