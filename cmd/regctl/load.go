package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var loadNoLazyFlush bool

func init() {
	cmd := &cobra.Command{
		Use:   "load <hive> <mount-path> <source>",
		Short: "Load a hive file and mount it under an existing key",
		Long: `The load command mounts source as a new key named by the last segment
of mount-path, underneath the rest of mount-path.

Example:
  regctl load system.hive "Software\\Vendor\\Profile" profile.hive`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(args)
		},
	}
	cmd.Flags().BoolVar(&loadNoLazyFlush, "no-lazy-flush", false, "Flush the newly mounted hive immediately")
	rootCmd.AddCommand(cmd)
}

func runLoad(args []string) error {
	hivePath, mountPath, sourcePath := args[0], args[1], args[2]

	rc, root, err := openHive(hivePath)
	if err != nil {
		return err
	}

	trimmed := strings.Trim(mountPath, `\`)
	parent := root
	name := trimmed
	if i := strings.LastIndex(trimmed, `\`); i >= 0 {
		parent, err = resolveKey(rc, root, trimmed[:i], true)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", trimmed[:i], err)
		}
		name = trimmed[i+1:]
	}

	if _, err := rc.LoadKey2(parent, name, sourcePath, loadNoLazyFlush); err != nil {
		return fmt.Errorf("load %q: %w", sourcePath, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"mount": mountPath, "source": sourcePath, "success": true})
	}
	printInfo("✓ %s mounted at %s\n", sourcePath, mountPath)
	return nil
}
