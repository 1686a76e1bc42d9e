package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmkernel/cmreg/cm"
	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "values <hive> <path>",
		Short: "List the values stored directly on a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(args)
		},
	})
}

type valueEntry struct {
	Name  string
	Type  string
	Value string
}

func runValues(args []string) error {
	rc, root, err := openHive(args[0])
	if err != nil {
		return err
	}
	ko, err := resolveKey(rc, root, args[1], false)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", args[1], err)
	}

	var entries []valueEntry
	for i := uint32(0); ; i++ {
		out, resultLen, err := rc.EnumerateValueKey(ko, i, cm.KeyValueFullInformation, 4096)
		if err != nil {
			if errors.Is(err, ntstatus.NoMoreEntries) {
				break
			}
			return err
		}
		typ := hive.RegType(uint32FromBuf(out, 4))
		dataOffset := int(uint32FromBuf(out, 8))
		dataLen := int(uint32FromBuf(out, 12))
		nameLen := int(uint32FromBuf(out, 16))
		name := decodeUTF16(out[cm.KeyValueFullHeaderSize : cm.KeyValueFullHeaderSize+nameLen])
		data := out[dataOffset : dataOffset+dataLen]
		entries = append(entries, valueEntry{Name: name, Type: typ.String(), Value: formatValue(typ, data)})
	}

	if jsonOut {
		return printJSON(entries)
	}
	for _, e := range entries {
		printInfo("%-24s %-14s %s\n", e.Name, e.Type, e.Value)
	}
	return nil
}

func uint32FromBuf(b []byte, off int) uint32 {
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}
