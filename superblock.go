package fat

import "encoding/binary"

// superblock is the in-memory mirror of block 0: signature and geometry.
// A small codec type backed by a fixed-width byte layout: fixed 16-bit
// fields, no clusters.
type superblock struct {
	totalBlocks     uint16
	rootIndex       uint16
	dataStartIndex  uint16
	totalDataBlocks uint16
	numFATBlocks    uint8
}

// encode renders sb into a BlockSize-byte image ready to be written to
// block 0, padding everything past the header with zeros.
func (sb superblock) encode() [BlockSize]byte {
	var blk [BlockSize]byte
	copy(blk[sbSignatureOff:], signature[:])
	binary.LittleEndian.PutUint16(blk[sbTotalBlocksOff:], sb.totalBlocks)
	binary.LittleEndian.PutUint16(blk[sbRootIndexOff:], sb.rootIndex)
	binary.LittleEndian.PutUint16(blk[sbDataStartIndexOff:], sb.dataStartIndex)
	binary.LittleEndian.PutUint16(blk[sbTotalDataBlocksOff:], sb.totalDataBlocks)
	blk[sbNumFATBlocksOff] = sb.numFATBlocks
	return blk
}

// decodeSuperblock parses blk into a superblock without validating it;
// validation is the caller's job (see loadSuperblock).
func decodeSuperblock(blk []byte) superblock {
	return superblock{
		totalBlocks:     binary.LittleEndian.Uint16(blk[sbTotalBlocksOff:]),
		rootIndex:       binary.LittleEndian.Uint16(blk[sbRootIndexOff:]),
		dataStartIndex:  binary.LittleEndian.Uint16(blk[sbDataStartIndexOff:]),
		totalDataBlocks: binary.LittleEndian.Uint16(blk[sbTotalDataBlocksOff:]),
		numFATBlocks:    blk[sbNumFATBlocksOff],
	}
}

// loadSuperblock reads and validates block 0 against the device's own
// geometry: bad signature, impossible FAT-block count, or a geometry that
// doesn't square with itself are all rejected here so nothing downstream
// has to re-check them.
func loadSuperblock(dev BlockDevice) (superblock, fsResult) {
	var blk [BlockSize]byte
	if err := dev.Read(0, blk[:]); err != nil {
		return superblock{}, frDiskErr
	}
	var sig [8]byte
	copy(sig[:], blk[sbSignatureOff:sbSignatureOff+8])
	if sig != signature {
		return superblock{}, frBadSignature
	}
	sb := decodeSuperblock(blk[:])
	n, err := dev.Count()
	if err != nil {
		return superblock{}, frDiskErr
	}
	if uint32(sb.totalBlocks) != n {
		return superblock{}, frGeometryMismatch
	}
	if sb.numFATBlocks < 1 ||
		sb.rootIndex != uint16(sb.numFATBlocks)+1 ||
		sb.dataStartIndex != sb.rootIndex+1 ||
		uint32(sb.totalBlocks) != uint32(sb.numFATBlocks)+2+uint32(sb.totalDataBlocks) {
		return superblock{}, frGeometryMismatch
	}
	return sb, frOK
}

// storeSuperblock writes sb back to block 0.
func storeSuperblock(dev BlockDevice, sb superblock) fsResult {
	blk := sb.encode()
	if err := dev.Write(0, blk[:]); err != nil {
		return frDiskErr
	}
	return frOK
}
