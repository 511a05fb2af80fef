// Package layout defines the fixed, byte-exact geometry of a virtual-filesystem
// image: block size, inode and directory-entry dimensions, and the offsets of
// every reserved region. There is exactly one block group per image, so these
// are plain constants rather than a per-image computation.
package layout

// BlockSize is the fixed size of one block, in bytes.
const BlockSize = 1024

// DirectBlockCount is the number of direct data-block pointers an inode holds.
// There are no indirect blocks, so this also caps a file at
// DirectBlockCount*BlockSize bytes.
const DirectBlockCount = 12

// MaxFileNameLength is the longest name a directory entry can store,
// including the terminating NUL.
const MaxFileNameLength = 252

// InodeCount is the fixed number of inodes the image reserves table space
// for, regardless of image size.
const InodeCount = 128

// InodeSize is the on-disk size of one inode record, in bytes.
const InodeSize = 64

// InodeTableBlocks is the number of blocks the inode table occupies.
const InodeTableBlocks = (InodeCount*InodeSize + BlockSize - 1) / BlockSize

// DirentSize is the on-disk size of one directory entry, in bytes.
const DirentSize = 256

// DirentsPerBlock is the number of directory entries that fit in one block,
// which is also the maximum number of children a directory can have.
const DirentsPerBlock = BlockSize / DirentSize

// Fixed byte offsets of every reserved region. Block 0 is the superblock,
// block 1 is the group descriptor, block 2 the block bitmap, block 3 the
// inode bitmap, and blocks 4..4+InodeTableBlocks-1 the inode table. Data
// blocks start immediately after.
const (
	SuperblockOffset      = 0
	GroupDescriptorOffset = SuperblockOffset + BlockSize
	BlockBitmapOffset     = GroupDescriptorOffset + BlockSize
	InodeBitmapOffset     = BlockBitmapOffset + BlockSize
	InodeTableOffset      = InodeBitmapOffset + BlockSize
	DataBlocksOffset      = InodeTableOffset + InodeTableBlocks*BlockSize
)

// ReservedBlocks is the number of blocks occupied by the superblock, group
// descriptor, both bitmaps, and the inode table -- everything before the
// data region.
const ReservedBlocks = DataBlocksOffset / BlockSize

// RootInodeIndex is the fixed inode number of the root directory "/". It is
// always allocated, always a directory, and is never freed.
const RootInodeIndex = 0

// RootDataBlock is the logical block index of the root directory's one data
// block; it is always the first data block on the volume.
const RootDataBlock = ReservedBlocks

// MinImageSize is the smallest image size, in bytes, that can hold the
// reserved region plus one data block for the root directory.
const MinImageSize = DataBlocksOffset + BlockSize
