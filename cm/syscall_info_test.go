package cm

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
)

func TestQueryKeyBasicInformation(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	out, resultLen, err := rc.QueryKey(ko, KeyBasicInformation, 64)
	require.NoError(t, err)
	require.Equal(t, len(out), resultLen)
	require.Equal(t, "Software", decodeUTF16(t, out[keyBasicHeaderSize:resultLen]))
}

func TestQueryKeyFullInformationValuesCount(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	require.NoError(t, rc.SetValueKey(ko, "a", hive.RegDword, []byte{1, 0, 0, 0}))
	require.NoError(t, rc.SetValueKey(ko, "b", hive.RegDword, []byte{2, 0, 0, 0}))

	out, _, err := rc.QueryKey(ko, KeyFullInformation, 256)
	require.NoError(t, err)
	require.Equal(t, uint32(2), uint32FromHeader(out, 32)) // Values field
}

func TestSetInformationKeyWrongSizeIsInvalidParameter(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	err = rc.SetInformationKey(ko, []byte{1, 2, 3})
	require.ErrorIs(t, err, ntstatus.InvalidParameter)
}

func TestSetInformationKeyUpdatesWriteTimeAndAlwaysSucceeds(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	before, err := ko.LastWriteTime()
	require.NoError(t, err)

	future := before.Add(48 * time.Hour)
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(future.UnixNano()/100))

	require.NoError(t, rc.SetInformationKey(ko, buf))

	after, err := ko.LastWriteTime()
	require.NoError(t, err)
	require.True(t, after.After(before))
}
