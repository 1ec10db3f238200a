package fat

import "testing"

// FuzzWriteReadRoundTrip checks that for any sequence of bytes written to
// an empty file, seeking to 0 and reading the same length back yields the
// original bytes, byte-for-byte.
func FuzzWriteReadRoundTrip(f *testing.F) {
	f.Add([]byte("hello world"))
	f.Add([]byte{})
	f.Add(make([]byte, BlockSize))
	f.Add(make([]byte, BlockSize+17))
	f.Add(make([]byte, 3*BlockSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 64*BlockSize {
			t.Skip("too large for this volume")
		}
		numDataBlocks := len(data)/BlockSize + 4
		dev := newTestVolume(2, uint16(numDataBlocks))
		fsys := mustMount(t, dev)
		defer fsys.Unmount()

		if err := fsys.Create("f"); err != nil {
			t.Fatalf("create: %v", err)
		}
		fd, err := fsys.Open("f")
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		n, err := fsys.Write(fd, data)
		if err != nil {
			t.Fatalf("write: %v", err)
		}
		if n != len(data) {
			t.Fatalf("short write: wrote %d of %d", n, len(data))
		}
		if err := fsys.Seek(fd, 0); err != nil {
			t.Fatalf("seek: %v", err)
		}
		got := make([]byte, len(data))
		n, err = fsys.Read(fd, got)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if n != len(data) {
			t.Fatalf("short read: read %d of %d", n, len(data))
		}
		for i := range data {
			if got[i] != data[i] {
				t.Fatalf("byte %d: got %#x want %#x", i, got[i], data[i])
			}
		}
	})
}

// FuzzFATChainWalk exercises the FAT table's walkTo arithmetic directly
// against varying hop counts, checking it never panics or loops
// forever on any chain length within bounds.
func FuzzFATChainWalk(f *testing.F) {
	f.Add(uint16(3), 0)
	f.Add(uint16(3), 2)
	f.Add(uint16(3), 5)

	f.Fuzz(func(t *testing.T, chainLen uint16, hops int) {
		if chainLen > 512 || hops < 0 || hops > 1024 {
			t.Skip("out of range")
		}
		tbl := newTestFAT(t, int(chainLen)+2)
		start, fr := tbl.allocateFree()
		if fr != frOK {
			t.Skip("allocation failed")
		}
		cur := start
		for i := uint16(0); i < chainLen; i++ {
			next, fr := tbl.allocateFree()
			if fr != frOK {
				t.Skip("allocation failed")
			}
			tbl.set(cur, next)
			cur = next
		}
		_, _, fr = tbl.walkTo(start, hops)
		if fr != frOK && fr != frCorrupt {
			t.Fatalf("unexpected result: %v", fr)
		}
	})
}
