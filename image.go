package bliq

import "bytes"

// Boot image format constants
const (
	BootMagic         = "ANDROID!"
	BootMagicSize     = 8
	BootNameSize      = 16
	BootArgsSize      = 512
	BootIDSize        = 32
	BootExtraArgsSize = 1024
)

// BootMagicBytes is the image header magic number, in byte array form
var BootMagicBytes = [...]byte{'A', 'N', 'D', 'R', 'O', 'I', 'D', '!'}

// Layout constants
const (
	// HeaderSize is the number of bytes the packed header occupies on disk.
	HeaderSize = 1632

	// HeaderRegionSize is the space reserved for the header before the
	// first payload byte. The kernel always starts here, regardless of
	// the page size the header declares.
	HeaderRegionSize = 0x800
)

// Header directly correlates to the Android boot image header.
type Header struct {
	// Android header magic
	Magic [BootMagicSize]byte

	// Size of the kernel in bytes
	KernelSize uint32
	// Kernel physical load address
	KernelAddr uint32

	// Size of the ramdisk in bytes
	RamdiskSize uint32
	// Ramdisk physical load address
	RamdiskAddr uint32

	// Size of the second stage bootloader in bytes
	SecondSize uint32
	// Second stage bootloader physical load address
	SecondAddr uint32

	// Kernel tags physical load address
	TagsAddr uint32
	// Flash page size
	PageSize uint32
	// Size of the device tree in bytes. Images made for Android 9 or
	// newer store the boot header version number here instead; see
	// HeaderVersion.
	DtSize uint32

	/* OS version and security patch level
	 * For version A.B.C, patch level Y-M
	 * ver = A << 14 | B << 7 | C         (7 bits for each of A, B, C)
	 * lvl = ((Y - 2000) & 127) << 4 | M  (7 bits for Y, 4 bits for M)
	 * os_version = ver << 11 | lvl */
	OSVersion uint32

	// Product/board name
	Board [BootNameSize]byte
	// Kernel command line
	Cmdline [BootArgsSize]byte

	// Timestamp/checksum/SHA-1/...
	ID [BootIDSize]byte

	// Supplemental cmdline data for compatibility with older formats
	ExtraCmdline [BootExtraArgsSize]byte
}

// cstr interprets b as a NUL-terminated string. A field with no
// terminator is returned whole.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}

	return string(b)
}

// BoardName returns the product/board name field as a string.
func (h *Header) BoardName() string {
	return cstr(h.Board[:])
}

// CommandLine returns the kernel command line field as a string.
func (h *Header) CommandLine() string {
	return cstr(h.Cmdline[:])
}

// ExtraCommandLine returns the supplemental command line field as a string.
func (h *Header) ExtraCommandLine() string {
	return cstr(h.ExtraCmdline[:])
}

// FullCommandLine returns the kernel command line along with its
// extra_cmdline continuation. A cmdline that fills its field exactly
// runs over into extra_cmdline with no separator in between.
func (h *Header) FullCommandLine() string {
	full := make([]byte, 0, BootArgsSize+BootExtraArgsSize)
	full = append(full, h.Cmdline[:]...)
	full = append(full, h.ExtraCmdline[:]...)

	return cstr(full)
}

// OSRelease returns the Android release A.B.C packed into os_version.
func (h *Header) OSRelease() (a, b, c uint32) {
	ver := h.OSVersion >> 11
	return ver >> 14, (ver >> 7) & 127, ver & 127
}

// OSPatchLevel returns the security patch level year and month packed
// into os_version.
func (h *Header) OSPatchLevel() (year, month uint32) {
	lvl := h.OSVersion & 0x7ff
	return (lvl >> 4) + 2000, lvl & 15
}

// MaxHeaderVersion is the largest value of the dt field read as a boot
// header version number rather than a device tree size.
const MaxHeaderVersion = 8

// HeaderVersion interprets the dt field as a boot header version.
// Version numbers are small while any real device tree is thousands of
// bytes, so the two readings never collide. ok is false when the field
// reads as a legacy device tree size, including zero.
func (h *Header) HeaderVersion() (version uint32, ok bool) {
	if h.DtSize >= 1 && h.DtSize <= MaxHeaderVersion {
		return h.DtSize, true
	}

	return 0, false
}
