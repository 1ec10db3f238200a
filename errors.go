package fat

import "strconv"

// fsResult is the internal result/error code used throughout the package:
// a small iota-based result type that implements error so every internal
// call site can return it directly.
type fsResult int

const (
	frOK                fsResult = iota // succeeded
	frDiskErr                           // a hard error occurred in the block device
	frBadSignature                      // superblock signature did not match "ECS150FS"
	frGeometryMismatch                  // superblock geometry disagrees with the block device or itself
	frAlreadyMounted                    // a volume is already mounted
	frNotMounted                        // no volume is mounted
	frBusy                              // operation rejected because a referenced fd is still open
	frInvalidName                       // filename is empty, too long, or not representable
	frExists                            // a file with that name already exists
	frNotFound                          // no file with that name exists
	frFull                              // root directory has no free entry
	frNoSlots                           // fd table has no free slot
	frBadFd                             // fd does not name an open handle
	frOutOfRange                        // seek offset is past end of file
	frNoSpace                           // FAT has no free block to extend a chain
	frCorrupt                           // a chain walk found a cycle or an out-of-range successor
)

func (fr fsResult) String() string {
	switch fr {
	case frOK:
		return "ok"
	case frDiskErr:
		return "block device I/O error"
	case frBadSignature:
		return "bad superblock signature"
	case frGeometryMismatch:
		return "superblock geometry mismatch"
	case frAlreadyMounted:
		return "already mounted"
	case frNotMounted:
		return "not mounted"
	case frBusy:
		return "resource busy"
	case frInvalidName:
		return "invalid filename"
	case frExists:
		return "file exists"
	case frNotFound:
		return "file not found"
	case frFull:
		return "root directory full"
	case frNoSlots:
		return "no free file descriptors"
	case frBadFd:
		return "bad file descriptor"
	case frOutOfRange:
		return "offset out of range"
	case frNoSpace:
		return "no space left on device"
	case frCorrupt:
		return "filesystem corruption detected"
	default:
		return "fat: unknown result code " + strconv.Itoa(int(fr))
	}
}

func (fr fsResult) Error() string {
	return fr.String()
}

// Exported sentinels so callers can use errors.Is against the returned
// error values without reaching into the package's internal result type.
var (
	ErrIOError          error = frDiskErr
	ErrBadSignature     error = frBadSignature
	ErrGeometryMismatch error = frGeometryMismatch
	ErrAlreadyMounted   error = frAlreadyMounted
	ErrNotMounted       error = frNotMounted
	ErrBusy             error = frBusy
	ErrInvalidName      error = frInvalidName
	ErrExists           error = frExists
	ErrNotFound         error = frNotFound
	ErrFull             error = frFull
	ErrNoSlots          error = frNoSlots
	ErrBadFd            error = frBadFd
	ErrOutOfRange       error = frOutOfRange
	ErrNoSpace          error = frNoSpace
	ErrCorrupt          error = frCorrupt
)

// asError converts a frOK/non-frOK result into nil/error for the public API.
func (fr fsResult) asError() error {
	if fr == frOK {
		return nil
	}
	return fr
}
