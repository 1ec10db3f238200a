package fat

import "errors"

// BlockSize is the fixed size, in bytes, of every block exposed by a
// BlockDevice and addressed by the on-disk layout.
const BlockSize = 4096

// BlockDevice is the sector-addressable block device ECS150FS is layered
// on top of. Implementations are external collaborators: opening a real
// disk image, mapping a file, or talking to a block-oriented driver is
// outside this package's scope. The package ships only the in-memory
// implementation below, used by its own tests and examples.
type BlockDevice interface {
	// Open opens the backing image exclusively.
	Open(path string) error
	// Close closes the backing image.
	Close() error
	// Count returns the number of BlockSize-sized blocks in the image.
	Count() (uint32, error)
	// Read reads block blockIndex into dst, which must be exactly
	// BlockSize bytes long.
	Read(blockIndex uint32, dst []byte) error
	// Write writes block blockIndex from src, which must be exactly
	// BlockSize bytes long.
	Write(blockIndex uint32, src []byte) error
}

// memDevice is an in-memory BlockDevice backing test and example images.
// It is not a production disk driver; it exists so the package's own test
// suite (and the Example functions in example_test.go) can mount a volume
// without depending on a filesystem on disk.
type memDevice struct {
	blocks [][BlockSize]byte
	opened bool
}

// newMemDevice allocates an in-memory device of the given block count,
// zero-filled.
func newMemDevice(numBlocks uint32) *memDevice {
	return &memDevice{blocks: make([][BlockSize]byte, numBlocks)}
}

func (m *memDevice) Open(path string) error {
	if m.opened {
		return errors.New("fat: device already open")
	}
	m.opened = true
	return nil
}

func (m *memDevice) Close() error {
	if !m.opened {
		return errors.New("fat: device already closed")
	}
	m.opened = false
	return nil
}

func (m *memDevice) Count() (uint32, error) {
	if !m.opened {
		return 0, errors.New("fat: device not open")
	}
	return uint32(len(m.blocks)), nil
}

func (m *memDevice) Read(blockIndex uint32, dst []byte) error {
	if !m.opened {
		return errors.New("fat: device not open")
	}
	if len(dst) != BlockSize {
		return errors.New("fat: dst must be exactly BlockSize bytes")
	}
	if blockIndex >= uint32(len(m.blocks)) {
		return errors.New("fat: block index out of range")
	}
	copy(dst, m.blocks[blockIndex][:])
	return nil
}

func (m *memDevice) Write(blockIndex uint32, src []byte) error {
	if !m.opened {
		return errors.New("fat: device not open")
	}
	if len(src) != BlockSize {
		return errors.New("fat: src must be exactly BlockSize bytes")
	}
	if blockIndex >= uint32(len(m.blocks)) {
		return errors.New("fat: block index out of range")
	}
	copy(m.blocks[blockIndex][:], src)
	return nil
}
