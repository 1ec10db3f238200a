package fat

import (
	"context"
	"log/slog"
	"strconv"
)

// MountConfig carries the ambient knobs for a mount: an optional logger
// and an opt-in invariant checker.
type MountConfig struct {
	// Logger receives trace-level lines from Mount, Unmount, Create,
	// Delete, Open and Close when non-nil; Read, Write and Seek do not log.
	// A nil Logger (the zero value) disables logging entirely.
	Logger *slog.Logger
	// StrictInvariants re-validates the on-disk consistency invariants
	// in Unmount, before anything is flushed, surfacing frCorrupt instead
	// of silently flushing a corrupted mount. Off by default; meant for test suites that want
	// every mount/unmount cycle checked.
	StrictInvariants bool
}

// FS is a single ECS150FS mount. The zero value is an unmounted
// filesystem ready for Mount. Only one volume may be mounted on a given
// FS at a time; all operations are synchronous and expect single-threaded,
// cooperative use.
type FS struct {
	device  BlockDevice
	sb      superblock
	fat     *fatTable
	root    *rootDir
	fds     fdTable
	mounted bool
	cfg     MountConfig
}

const slogLevelTrace = slog.LevelDebug - 2

func (fsys *FS) logattrs(level slog.Level, msg string, attrs ...slog.Attr) {
	if fsys.cfg.Logger != nil {
		fsys.cfg.Logger.LogAttrs(context.Background(), level, msg, attrs...)
	}
}

func (fsys *FS) trace(msg string, attrs ...slog.Attr) { fsys.logattrs(slogLevelTrace, msg, attrs...) }
func (fsys *FS) warn(msg string, attrs ...slog.Attr)  { fsys.logattrs(slog.LevelWarn, msg, attrs...) }

// Mount opens device at path and mounts the ECS150FS volume found there.
// Only one volume may be mounted per FS value at a time.
func (fsys *FS) Mount(device BlockDevice, path string, cfg MountConfig) error {
	if fsys.mounted {
		return frAlreadyMounted.asError()
	}
	fsys.cfg = cfg
	fsys.trace("mount", slog.String("path", path))

	if err := device.Open(path); err != nil {
		return frDiskErr.asError()
	}

	sb, fr := loadSuperblock(device)
	if fr != frOK {
		device.Close()
		return fr.asError()
	}
	fatTbl, fr := loadFATTable(device, sb)
	if fr != frOK {
		device.Close()
		return fr.asError()
	}
	root, fr := loadRootDir(device, sb)
	if fr != frOK {
		device.Close()
		return fr.asError()
	}

	fsys.device = device
	fsys.sb = sb
	fsys.fat = fatTbl
	fsys.root = root
	fsys.fds.reset()
	fsys.mounted = true
	return nil
}

// Unmount flushes the superblock, every FAT block, and the root directory
// back to disk, in that order, then closes the device. Unmount fails with
// ErrBusy if any fd is still open.
func (fsys *FS) Unmount() error {
	if !fsys.mounted {
		return frNotMounted.asError()
	}
	fsys.trace("unmount")
	for i := range fsys.fds.slots {
		if fsys.fds.slots[i].used {
			return frBusy.asError()
		}
	}

	if fsys.cfg.StrictInvariants {
		if fr := fsys.checkInvariants(); fr != frOK {
			fsys.warn("unmount: invariant check failed", slog.String("result", fr.String()))
			return fr.asError()
		}
	}

	var firstErr fsResult
	if fr := storeSuperblock(fsys.device, fsys.sb); fr != frOK && firstErr == frOK {
		firstErr = fr
	}
	if fr := fsys.fat.storeTo(fsys.device); fr != frOK && firstErr == frOK {
		firstErr = fr
	}
	if fr := fsys.root.storeTo(fsys.device, fsys.sb); fr != frOK && firstErr == frOK {
		firstErr = fr
	}
	if err := fsys.device.Close(); err != nil && firstErr == frOK {
		firstErr = frDiskErr
	}

	fsys.mounted = false
	fsys.device = nil
	fsys.fat = nil
	fsys.root = nil
	fsys.fds.reset()
	return firstErr.asError()
}

// Create adds an empty file named name to the root directory.
func (fsys *FS) Create(name string) error {
	if !fsys.mounted {
		return frNotMounted.asError()
	}
	fsys.trace("create", slog.String("name", name))
	return fsys.root.create(name).asError()
}

// Delete removes the named file, freeing its FAT chain. It fails with
// ErrBusy if any fd currently has the file open.
func (fsys *FS) Delete(name string) error {
	if !fsys.mounted {
		return frNotMounted.asError()
	}
	fsys.trace("delete", slog.String("name", name))
	idx, fr := fsys.root.find(name)
	if fr != frOK {
		return fr.asError()
	}
	if fsys.fds.referencesRoot(idx) {
		return frBusy.asError()
	}
	ent := &fsys.root.entries[idx]
	if fr := fsys.fat.freeChain(ent.first); fr != frOK {
		return fr.asError()
	}
	fsys.root.delete(idx)
	return nil
}

// Open opens the named file and returns a file descriptor in [0, 32).
func (fsys *FS) Open(name string) (int, error) {
	if !fsys.mounted {
		return 0, frNotMounted.asError()
	}
	idx, fr := fsys.root.find(name)
	if fr != frOK {
		return 0, fr.asError()
	}
	fd, fr := fsys.fds.open(idx)
	if fr != frOK {
		return 0, fr.asError()
	}
	fsys.trace("open", slog.String("name", name), slog.Int("fd", fd))
	return fd, nil
}

// Close closes fd.
func (fsys *FS) Close(fd int) error {
	if !fsys.mounted {
		return frNotMounted.asError()
	}
	fsys.trace("close", slog.Int("fd", fd))
	return fsys.fds.close(fd).asError()
}

// Stat returns the size, in bytes, of the file open on fd.
func (fsys *FS) Stat(fd int) (uint32, error) {
	if !fsys.mounted {
		return 0, frNotMounted.asError()
	}
	if !fsys.fds.valid(fd) {
		return 0, frBadFd.asError()
	}
	idx := fsys.fds.slots[fd].rootIndex
	return fsys.root.entries[idx].size, nil
}

// Seek repositions fd's offset. Seeking exactly to the file's current
// size is legal and positions the handle at EOF.
func (fsys *FS) Seek(fd int, offset uint32) error {
	if !fsys.mounted {
		return frNotMounted.asError()
	}
	if !fsys.fds.valid(fd) {
		return frBadFd.asError()
	}
	idx := fsys.fds.slots[fd].rootIndex
	if offset > fsys.root.entries[idx].size {
		return frOutOfRange.asError()
	}
	fsys.fds.slots[fd].offset = offset
	return nil
}

// Read reads up to len(buf) bytes from fd at its current offset, advancing
// the offset by the number of bytes read.
func (fsys *FS) Read(fd int, buf []byte) (int, error) {
	if !fsys.mounted {
		return 0, frNotMounted.asError()
	}
	n, fr := fsys.doRead(fd, buf)
	return n, fr.asError()
}

// Write writes len(buf) bytes to fd at its current offset, extending the
// file's FAT chain as needed, and advances the offset by the number of
// bytes actually written. A short write (fewer bytes than len(buf)) means
// the volume ran out of free blocks; it is not reported as an error.
func (fsys *FS) Write(fd int, buf []byte) (int, error) {
	if !fsys.mounted {
		return 0, frNotMounted.asError()
	}
	n, fr := fsys.doWrite(fd, buf)
	return n, fr.asError()
}

// DirEntry is one entry returned by List.
type DirEntry struct {
	Name       string
	Size       uint32
	FirstBlock uint16
}

// List returns every non-empty root directory entry, in index order.
func (fsys *FS) List() ([]DirEntry, error) {
	if !fsys.mounted {
		return nil, frNotMounted.asError()
	}
	var out []DirEntry
	for i := range fsys.root.entries {
		e := &fsys.root.entries[i]
		if e.empty() {
			continue
		}
		out = append(out, DirEntry{Name: e.nameString(), Size: e.size, FirstBlock: e.first})
	}
	return out, nil
}

// Ls renders a fixed, line-oriented listing of every file in the volume.
func (fsys *FS) Ls() (string, error) {
	entries, err := fsys.List()
	if err != nil {
		return "", err
	}
	buf := []byte("FS Ls:\n")
	for _, e := range entries {
		buf = append(buf, "file: "...)
		buf = append(buf, e.Name...)
		buf = append(buf, ", size: "...)
		buf = strconv.AppendUint(buf, uint64(e.Size), 10)
		buf = append(buf, ", data_blk: "...)
		buf = strconv.AppendUint(buf, uint64(e.FirstBlock), 10)
		buf = append(buf, '\n')
	}
	return string(buf), nil
}

// Info renders a fixed, line-oriented report of the mounted volume's
// geometry and free-space ratios.
func (fsys *FS) Info() (string, error) {
	if !fsys.mounted {
		return "", frNotMounted.asError()
	}
	freeFAT := fsys.fat.freeCount()
	freeRoot := fsys.root.freeCount()

	buf := []byte("FS Info:\n")
	appendField := func(label string, v uint64) {
		buf = append(buf, label...)
		buf = append(buf, '=')
		buf = strconv.AppendUint(buf, v, 10)
		buf = append(buf, '\n')
	}
	appendField("total_blk_count", uint64(fsys.sb.totalBlocks))
	appendField("fat_blk_count", uint64(fsys.sb.numFATBlocks))
	appendField("rdir_blk", uint64(fsys.sb.rootIndex))
	appendField("data_blk", uint64(fsys.sb.dataStartIndex))
	appendField("data_blk_count", uint64(fsys.sb.totalDataBlocks))

	buf = append(buf, "fat_free_ratio="...)
	buf = strconv.AppendUint(buf, uint64(freeFAT), 10)
	buf = append(buf, '/')
	buf = strconv.AppendUint(buf, uint64(fsys.sb.totalDataBlocks), 10)
	buf = append(buf, '\n')

	buf = append(buf, "rdir_free_ratio="...)
	buf = strconv.AppendUint(buf, uint64(freeRoot), 10)
	buf = append(buf, '/')
	buf = strconv.AppendUint(buf, uint64(fileMaxCount), 10)
	buf = append(buf, '\n')
	return string(buf), nil
}
