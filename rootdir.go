package fat

import "encoding/binary"

// rootEntry is one 32-byte root directory entry, decoded into its three
// meaningful fields. The 10 bytes of on-disk padding are not modeled here;
// rootDir keeps the raw per-entry bytes so that padding round-trips
// unchanged (same reasoning as fatTable's raw buffer).
type rootEntry struct {
	name  [filenameMaxLen]byte
	size  uint32
	first uint16
}

func (e rootEntry) empty() bool {
	return e.name[0] == 0
}

// nameString returns the entry's filename as a Go string, stopping at the
// first NUL.
func (e rootEntry) nameString() string {
	for i, b := range e.name {
		if b == 0 {
			return string(e.name[:i])
		}
	}
	return string(e.name[:])
}

// rootDir is the fixed 128-entry flat directory, block rootIndex.
type rootDir struct {
	raw     [BlockSize]byte
	entries [fileMaxCount]rootEntry
}

func loadRootDir(dev BlockDevice, sb superblock) (*rootDir, fsResult) {
	rd := &rootDir{}
	if err := dev.Read(uint32(sb.rootIndex), rd.raw[:]); err != nil {
		return nil, frDiskErr
	}
	rd.decodeAll()
	return rd, frOK
}

func (rd *rootDir) storeTo(dev BlockDevice, sb superblock) fsResult {
	rd.encodeAll()
	if err := dev.Write(uint32(sb.rootIndex), rd.raw[:]); err != nil {
		return frDiskErr
	}
	return frOK
}

func (rd *rootDir) decodeAll() {
	for i := range rd.entries {
		off := i * direntEntrySize
		e := &rd.entries[i]
		copy(e.name[:], rd.raw[off+direntNameOff:off+direntNameOff+filenameMaxLen])
		e.size = binary.LittleEndian.Uint32(rd.raw[off+direntSizeOff:])
		e.first = binary.LittleEndian.Uint16(rd.raw[off+direntFirstOff:])
	}
}

// encodeAll writes every entry's name/size/first fields back into raw,
// leaving each entry's 10 padding bytes untouched.
func (rd *rootDir) encodeAll() {
	for i := range rd.entries {
		off := i * direntEntrySize
		e := &rd.entries[i]
		copy(rd.raw[off+direntNameOff:off+direntNameOff+filenameMaxLen], e.name[:])
		binary.LittleEndian.PutUint32(rd.raw[off+direntSizeOff:], e.size)
		binary.LittleEndian.PutUint16(rd.raw[off+direntFirstOff:], e.first)
	}
}

// find returns the index of the entry named name, or frNotFound.
func (rd *rootDir) find(name string) (int, fsResult) {
	for i := range rd.entries {
		if !rd.entries[i].empty() && rd.entries[i].nameString() == name {
			return i, frOK
		}
	}
	return 0, frNotFound
}

// validName reports whether name can be stored as a NUL-terminated,
// filenameMaxLen-byte on-disk field.
func validName(name string) bool {
	return len(name) > 0 && len(name) < filenameMaxLen
}

// create adds a new, empty entry named name.
func (rd *rootDir) create(name string) fsResult {
	if !validName(name) {
		return frInvalidName
	}
	if _, fr := rd.find(name); fr == frOK {
		return frExists
	}
	for i := range rd.entries {
		if rd.entries[i].empty() {
			var buf [filenameMaxLen]byte
			copy(buf[:], name)
			rd.entries[i] = rootEntry{name: buf, size: 0, first: fatEOC}
			return frOK
		}
	}
	return frFull
}

// delete clears the entry at index idx. It does not touch the FAT: the
// caller frees the entry's chain and checks that no fd references it
// first (frBusy is returned by the mount-level Delete, not here).
func (rd *rootDir) delete(idx int) {
	rd.entries[idx] = rootEntry{}
}

// freeCount returns the number of empty entries in the root directory.
func (rd *rootDir) freeCount() int {
	n := 0
	for i := range rd.entries {
		if rd.entries[i].empty() {
			n++
		}
	}
	return n
}
