package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmkernel/cmreg/hive"
)

var createKeyVolatile bool

func init() {
	cmd := &cobra.Command{
		Use:   "create-key <hive> <path>",
		Short: "Create a registry key, including any missing intermediate keys",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateKey(args)
		},
	}
	cmd.Flags().BoolVar(&createKeyVolatile, "volatile", false, "Create the final key as volatile (REG_OPTION_VOLATILE)")
	rootCmd.AddCommand(cmd)
}

func runCreateKey(args []string) error {
	hivePath, keyPath := args[0], args[1]

	rc, root, err := openHive(hivePath)
	if err != nil {
		return err
	}

	trimmed := strings.Trim(keyPath, `\`)
	parent := root
	if i := strings.LastIndex(trimmed, `\`); i >= 0 {
		parent, err = resolveKey(rc, root, trimmed[:i], true)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", trimmed[:i], err)
		}
		trimmed = trimmed[i+1:]
	}

	leafOpts := hive.CreateOptions{}
	if createKeyVolatile {
		leafOpts.Volatile = true
	}
	if _, _, err := rc.CreateKey(parent, trimmed, leafOpts, nil); err != nil {
		return fmt.Errorf("create %q: %w", keyPath, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"path": keyPath, "volatile": createKeyVolatile, "success": true})
	}
	printInfo("✓ %s created\n", keyPath)
	return nil
}
