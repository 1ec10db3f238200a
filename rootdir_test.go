package fat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootDirCreateFindDelete(t *testing.T) {
	var rd rootDir

	require.Equal(t, frOK, rd.create("a.txt"))
	require.Equal(t, frExists, rd.create("a.txt"))

	idx, fr := rd.find("a.txt")
	require.Equal(t, frOK, fr)
	require.EqualValues(t, fatEOC, rd.entries[idx].first)
	require.EqualValues(t, 0, rd.entries[idx].size)

	rd.delete(idx)
	_, fr = rd.find("a.txt")
	require.Equal(t, frNotFound, fr)
}

func TestRootDirInvalidNames(t *testing.T) {
	var rd rootDir
	require.Equal(t, frInvalidName, rd.create(""))
	require.Equal(t, frInvalidName, rd.create(strings.Repeat("x", filenameMaxLen)))
	require.Equal(t, frOK, rd.create(strings.Repeat("x", filenameMaxLen-1)))
}

func TestRootDirFull(t *testing.T) {
	var rd rootDir
	for i := 0; i < fileMaxCount; i++ {
		require.Equal(t, frOK, rd.create(string(rune('a'+i%26))+string(rune('0'+i/26))))
	}
	require.Equal(t, frFull, rd.create("one.more"))
}

func TestRootDirEncodeDecodeRoundTrip(t *testing.T) {
	var rd rootDir
	require.Equal(t, frOK, rd.create("keep.me"))
	idx, _ := rd.find("keep.me")
	rd.entries[idx].size = 1234
	rd.entries[idx].first = 7

	rd.encodeAll()
	var rd2 rootDir
	rd2.raw = rd.raw
	rd2.decodeAll()

	idx2, fr := rd2.find("keep.me")
	require.Equal(t, frOK, fr)
	require.EqualValues(t, 1234, rd2.entries[idx2].size)
	require.EqualValues(t, 7, rd2.entries[idx2].first)
}

func TestRootDirPaddingRoundTrips(t *testing.T) {
	var rd rootDir
	require.Equal(t, frOK, rd.create("a"))
	rd.encodeAll()
	rd.raw[direntPaddingOff] = 0x7A
	rd.encodeAll() // Re-encoding must not disturb bytes outside name/size/first.
	require.Equal(t, byte(0x7A), rd.raw[direntPaddingOff])
}
