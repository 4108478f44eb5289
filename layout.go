package bliq

import "github.com/cespare/xxhash/v2"

// Layout describes where each segment of a decoded boot image lives.
// It is immutable once built; all the derived numbers come from the
// header's size fields and the input length.
type Layout struct {
	hdr  Header
	data []byte

	kernelPages  uint32
	ramdiskPages uint32
	secondPages  uint32

	kernelOffset  uint64
	ramdiskOffset uint64
	secondOffset  uint64
	extraOffset   uint64

	extraLength uint64
	totalLength uint64
}

// Header returns a copy of the decoded header.
func (l *Layout) Header() Header {
	return l.hdr
}

// Kernel returns the kernel segment, without page padding.
func (l *Layout) Kernel() []byte {
	return l.data[l.kernelOffset : l.kernelOffset+uint64(l.hdr.KernelSize)]
}

// Ramdisk returns the ramdisk segment, without page padding.
func (l *Layout) Ramdisk() []byte {
	return l.data[l.ramdiskOffset : l.ramdiskOffset+uint64(l.hdr.RamdiskSize)]
}

// Second returns the second stage bootloader segment, without page
// padding. Most images have none, making it empty.
func (l *Layout) Second() []byte {
	return l.data[l.secondOffset : l.secondOffset+uint64(l.hdr.SecondSize)]
}

// Extra returns everything past the last sized segment: device tree
// blobs, signature blocks, or bare padding.
func (l *Layout) Extra() []byte {
	return l.data[l.extraOffset : l.extraOffset+l.extraLength]
}

// KernelOffset returns the kernel segment's offset into the image.
// It is always HeaderRegionSize.
func (l *Layout) KernelOffset() uint64 {
	return l.kernelOffset
}

// RamdiskOffset returns the ramdisk segment's offset into the image.
func (l *Layout) RamdiskOffset() uint64 {
	return l.ramdiskOffset
}

// SecondOffset returns the second stage bootloader's offset into the image.
func (l *Layout) SecondOffset() uint64 {
	return l.secondOffset
}

// ExtraOffset returns the offset of the first byte past the last sized
// segment's padding.
func (l *Layout) ExtraOffset() uint64 {
	return l.extraOffset
}

// KernelPages returns the number of pages the kernel occupies.
func (l *Layout) KernelPages() uint32 {
	return l.kernelPages
}

// RamdiskPages returns the number of pages the ramdisk occupies.
func (l *Layout) RamdiskPages() uint32 {
	return l.ramdiskPages
}

// SecondPages returns the number of pages the second stage bootloader
// occupies.
func (l *Layout) SecondPages() uint32 {
	return l.secondPages
}

// ExtraLength returns the number of bytes in the extra region.
func (l *Layout) ExtraLength() uint64 {
	return l.extraLength
}

// TotalLength returns the image length reconstructed from the header's
// size fields alone. It can differ from the input length in either
// direction: trailing data makes the input longer, a final segment
// written without its padding makes it shorter.
func (l *Layout) TotalLength() uint64 {
	return l.totalLength
}

// ExtraKind classifies the contents of the extra region.
func (l *Layout) ExtraKind() TrailerKind {
	return ClassifyExtra(l.Extra())
}

// Fingerprint computes a checksum over the sized segments of the image.
// Padding and the extra region don't participate, so two images carrying
// the same payloads fingerprint identically even when their page sizes
// differ.
func (l *Layout) Fingerprint() uint64 {
	xxh := xxhash.New()

	xxh.Write(l.Kernel())
	xxh.Write(l.Ramdisk())
	xxh.Write(l.Second())

	return xxh.Sum64()
}

// pageCount returns how many pages size occupies, rounding up.
func pageCount(size uint32, pageSize uint64) uint64 {
	return (uint64(size) + pageSize - 1) / pageSize
}

// alignUp rounds n up to the next multiple of pageSize.
func alignUp(n, pageSize uint64) uint64 {
	return (n + pageSize - 1) / pageSize * pageSize
}
