package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmkernel/cmreg/cm"
	"github.com/cmkernel/cmreg/ntstatus"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "keys <hive> [path]",
		Short: "List the immediate subkeys at a path",
		Long: `The keys command lists all subkeys at a given path in a registry hive.
If no path is given, lists keys at the root.

Example:
  regctl keys system.hive
  regctl keys system.hive "ControlSet001\\Services"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(args)
		},
	})
}

func runKeys(args []string) error {
	var keyPath string
	if len(args) > 1 {
		keyPath = args[1]
	}

	rc, root, err := openHive(args[0])
	if err != nil {
		return err
	}
	ko, err := resolveKey(rc, root, keyPath, false)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", keyPath, err)
	}

	var names []string
	for i := uint32(0); ; i++ {
		out, resultLen, err := rc.EnumerateKey(ko, i, cm.KeyBasicInformation, 4096)
		if err != nil {
			if errors.Is(err, ntstatus.NoMoreEntries) {
				break
			}
			return err
		}
		names = append(names, decodeUTF16(out[cm.KeyBasicHeaderSize:resultLen]))
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"path": keyPath, "keys": names})
	}
	for _, n := range names {
		printInfo("%s\n", n)
	}
	return nil
}
