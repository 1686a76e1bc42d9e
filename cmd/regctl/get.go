package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmkernel/cmreg/cm"
)

var getShowType bool

func init() {
	cmd := &cobra.Command{
		Use:   "get <hive> <path> <name>",
		Short: "Query a specific registry value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	cmd.Flags().BoolVar(&getShowType, "type", false, "Show the value's type")
	rootCmd.AddCommand(cmd)
}

func runGet(args []string) error {
	hivePath, keyPath, valueName := args[0], args[1], args[2]

	rc, root, err := openHive(hivePath)
	if err != nil {
		return err
	}
	ko, err := resolveKey(rc, root, keyPath, false)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", keyPath, err)
	}

	out, resultLen, err := rc.QueryValueKey(ko, valueName, cm.KeyValueFullInformation, 4096)
	if err != nil {
		return fmt.Errorf("query %q: %w", valueName, err)
	}

	typ := uint32FromBuf(out, 4)
	dataOffset := int(uint32FromBuf(out, 8))
	dataLen := int(uint32FromBuf(out, 12))
	data := out[dataOffset:min(dataOffset+dataLen, resultLen)]
	regType := regTypeFromU32(typ)
	value := formatValue(regType, data)

	if jsonOut {
		return printJSON(map[string]interface{}{"name": valueName, "type": regType.String(), "value": value})
	}
	if getShowType {
		printInfo("%s (%s) = %s\n", valueName, regType.String(), value)
	} else {
		printInfo("%s\n", value)
	}
	return nil
}
