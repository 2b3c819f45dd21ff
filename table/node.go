package table

import "encoding/binary"

// Pure accessors and mutators over a page buffer. No allocation, no
// I/O — just fixed byte offsets and little-endian encoding.

func getNodeType(buf []byte) NodeType {
	return NodeType(buf[nodeTypeOffset])
}

func setNodeType(buf []byte, t NodeType) {
	buf[nodeTypeOffset] = byte(t)
}

func getIsRoot(buf []byte) bool {
	return buf[isRootOffset] != 0
}

func setIsRoot(buf []byte, v bool) {
	if v {
		buf[isRootOffset] = 1
	} else {
		buf[isRootOffset] = 0
	}
}

func getParentPointer(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[parentOffset : parentOffset+parentSize])
}

func setParentPointer(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf[parentOffset:parentOffset+parentSize], v)
}

func leafNumCells(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[leafNumCellsOffset : leafNumCellsOffset+leafNumCellsSize])
}

func setLeafNumCells(buf []byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[leafNumCellsOffset:leafNumCellsOffset+leafNumCellsSize], n)
}

func leafNextLeaf(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[leafNextLeafOffset : leafNextLeafOffset+leafNextLeafSize])
}

func setLeafNextLeaf(buf []byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[leafNextLeafOffset:leafNextLeafOffset+leafNextLeafSize], n)
}

func leafCellOffset(i uint32) uint32 {
	return LeafHeaderSize + i*LeafCellSize
}

// leafCell returns the full (key, value) cell at index i, for shifting.
func leafCell(buf []byte, i uint32) []byte {
	off := leafCellOffset(i)
	return buf[off : off+LeafCellSize]
}

func leafKey(buf []byte, i uint32) uint32 {
	off := leafCellOffset(i)
	return binary.LittleEndian.Uint32(buf[off : off+leafKeySize])
}

func setLeafKey(buf []byte, i uint32, key uint32) {
	off := leafCellOffset(i)
	binary.LittleEndian.PutUint32(buf[off:off+leafKeySize], key)
}

func leafValue(buf []byte, i uint32) []byte {
	off := leafCellOffset(i) + leafValueOffset
	return buf[off : off+RowSize]
}

func internalNumKeys(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[internalNumKeysOffset : internalNumKeysOffset+internalNumKeysSize])
}

func setInternalNumKeys(buf []byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[internalNumKeysOffset:internalNumKeysOffset+internalNumKeysSize], n)
}

func internalRightChild(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[internalRightChildOffset : internalRightChildOffset+internalRightChildSize])
}

func setInternalRightChild(buf []byte, pageNum uint32) {
	binary.LittleEndian.PutUint32(buf[internalRightChildOffset:internalRightChildOffset+internalRightChildSize], pageNum)
}

func internalCellOffset(i uint32) uint32 {
	return InternalHeaderSize + i*InternalCellSize
}

func internalChild(buf []byte, i uint32) uint32 {
	off := internalCellOffset(i)
	return binary.LittleEndian.Uint32(buf[off : off+internalChildSize])
}

func setInternalChild(buf []byte, i uint32, pageNum uint32) {
	off := internalCellOffset(i)
	binary.LittleEndian.PutUint32(buf[off:off+internalChildSize], pageNum)
}

func internalKey(buf []byte, i uint32) uint32 {
	off := internalCellOffset(i) + internalChildSize
	return binary.LittleEndian.Uint32(buf[off : off+internalKeySize])
}

func setInternalKey(buf []byte, i uint32, key uint32) {
	off := internalCellOffset(i) + internalChildSize
	binary.LittleEndian.PutUint32(buf[off:off+internalKeySize], key)
}

// internalChildAtOrRight resolves the child pointer at the given
// descent index: the i-th stored child, or the rightmost child when
// index has walked off the end of the stored keys.
func internalChildAtOrRight(buf []byte, index, numKeys uint32) uint32 {
	if index == numKeys {
		return internalRightChild(buf)
	}
	return internalChild(buf, index)
}

func initializeLeafNode(buf []byte) {
	setNodeType(buf, NodeTypeLeaf)
	setIsRoot(buf, false)
	setParentPointer(buf, 0)
	setLeafNumCells(buf, 0)
	setLeafNextLeaf(buf, 0)
}

func initializeInternalNode(buf []byte) {
	setNodeType(buf, NodeTypeInternal)
	setIsRoot(buf, false)
	setParentPointer(buf, 0)
	setInternalNumKeys(buf, 0)
	setInternalRightChild(buf, invalidPage)
}
