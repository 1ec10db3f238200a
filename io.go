package fat

// io.go implements the I/O engine: translating (fd, buf, count) requests
// into bounded block-device transfers. This is the largest single
// component because it is where offset arithmetic, the bounce buffer,
// and FAT chain extension all meet.

// physicalBlock converts a FAT arena index (0-based into the data region)
// into the absolute block index on the device.
func (fsys *FS) physicalBlock(chainIdx uint16) uint32 {
	return uint32(fsys.sb.dataStartIndex) + uint32(chainIdx)
}

// doRead reads up to len(buf) bytes from fd's file at its current offset.
func (fsys *FS) doRead(fd int, buf []byte) (int, fsResult) {
	if !fsys.fds.valid(fd) {
		return 0, frBadFd
	}
	slot := &fsys.fds.slots[fd]
	ent := &fsys.root.entries[slot.rootIndex]
	off := slot.offset
	size := ent.size
	if off >= size {
		return 0, frOK
	}
	count := len(buf)
	if uint32(count) > size-off {
		count = int(size - off)
	}
	hops := int(off / BlockSize)
	cur, ranOut, fr := fsys.fat.walkTo(ent.first, hops)
	if fr != frOK {
		return 0, fr
	}
	if ranOut {
		// A consistent chain always has a block at every offset < size.
		return 0, frCorrupt
	}

	intra := int(off % BlockSize)
	var bounce [BlockSize]byte
	written := 0
	remaining := count
	for remaining > 0 {
		if err := fsys.device.Read(fsys.physicalBlock(cur), bounce[:]); err != nil {
			return written, frDiskErr
		}
		take := min(remaining, BlockSize-intra)
		copy(buf[written:written+take], bounce[intra:intra+take])
		written += take
		remaining -= take
		intra = 0
		if remaining > 0 {
			next := fsys.fat.get(cur)
			if next == fatEOC {
				return written, frCorrupt
			}
			cur = next
		}
	}
	slot.offset += uint32(written)
	return written, frOK
}

// walkOrExtendTo follows hops successors from start, allocating and
// linking a fresh block whenever the walk would otherwise step off the
// end of the chain. This only happens when off == size and size is an
// exact multiple of BlockSize.
func (fsys *FS) walkOrExtendTo(start uint16, hops int) (uint16, fsResult) {
	cur := start
	for i := 0; i < hops; i++ {
		next := fsys.fat.get(cur)
		if next == fatEOC {
			newBlk, fr := fsys.fat.allocateFree()
			if fr != frOK {
				return cur, fr
			}
			fsys.fat.set(cur, newBlk)
			next = newBlk
		}
		cur = next
	}
	return cur, frOK
}

// doWrite writes len(buf) bytes to fd's file at its current offset,
// extending the FAT chain as needed.
func (fsys *FS) doWrite(fd int, buf []byte) (int, fsResult) {
	if !fsys.fds.valid(fd) {
		return 0, frBadFd
	}
	slot := &fsys.fds.slots[fd]
	ent := &fsys.root.entries[slot.rootIndex]
	off := slot.offset
	count := len(buf)

	if count > 0 && ent.first == fatEOC {
		head, fr := fsys.fat.allocateFree()
		if fr == frNoSpace {
			return 0, frOK
		} else if fr != frOK {
			return 0, fr
		}
		ent.first = head
	}
	if count == 0 {
		return 0, frOK
	}

	hops := int(off / BlockSize)
	cur, fr := fsys.walkOrExtendTo(ent.first, hops)
	if fr == frNoSpace {
		return 0, frOK
	} else if fr != frOK {
		return 0, fr
	}

	intra := int(off % BlockSize)
	var bounce [BlockSize]byte
	written := 0
	remaining := count
	for remaining > 0 {
		take := min(remaining, BlockSize-intra)
		phys := fsys.physicalBlock(cur)
		if intra != 0 || take != BlockSize {
			if err := fsys.device.Read(phys, bounce[:]); err != nil {
				return written, frDiskErr
			}
			copy(bounce[intra:intra+take], buf[written:written+take])
			if err := fsys.device.Write(phys, bounce[:]); err != nil {
				return written, frDiskErr
			}
		} else {
			if err := fsys.device.Write(phys, buf[written:written+take]); err != nil {
				return written, frDiskErr
			}
		}
		written += take
		remaining -= take
		intra = 0
		if remaining > 0 {
			next := fsys.fat.get(cur)
			if next == fatEOC {
				newBlk, fr := fsys.fat.allocateFree()
				if fr != frOK {
					break // Disk full: report the truthful partial write.
				}
				fsys.fat.set(cur, newBlk)
				next = newBlk
			}
			cur = next
		}
	}

	newEnd := off + uint32(written)
	if newEnd > ent.size {
		ent.size = newEnd
	}
	slot.offset = off + uint32(written)
	return written, frOK
}
