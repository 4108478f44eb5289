package bliq

import "bytes"

// Compression identifies the compression format of a payload blob.
type Compression int

// Compression formats recognized by DetectCompression.
const (
	CompNone Compression = iota
	CompGzip
	CompLz4
	CompLz4Legacy
	CompLzo
	CompXz
	CompLzma
	CompBzip2
	CompUnknown
)

// Compression format magic numbers
var (
	magicGzip1     = []byte("\x1f\x8b")
	magicGzip2     = []byte("\x1f\x9e")
	magicLzop      = []byte("\x89LZO")
	magicXz        = []byte("\xfd7zXZ")
	magicBzip2     = []byte("BZh")
	magicLzma      = []byte("\x5d\x00\x00")
	magicLz41      = []byte("\x03\x21\x4c\x18")
	magicLz42      = []byte("\x04\x22\x4d\x18")
	magicLz4Legacy = []byte("\x02\x21\x4c\x18")
)

// DetectCompression sniffs the compression format of blob from its magic
// number. Empty blobs report CompNone; unrecognized leading bytes report
// CompUnknown.
func DetectCompression(blob []byte) Compression {
	prefix := func(magic []byte) bool {
		return bytes.HasPrefix(blob, magic)
	}

	switch {
	case len(blob) == 0:
		return CompNone
	case prefix(magicGzip1), prefix(magicGzip2):
		return CompGzip
	case prefix(magicLzop):
		return CompLzo
	case prefix(magicXz):
		return CompXz
	case len(blob) >= 13 && prefix(magicLzma) && (blob[12] == 0xff || blob[12] == 0x00):
		return CompLzma
	case prefix(magicBzip2):
		return CompBzip2
	case prefix(magicLz41), prefix(magicLz42):
		return CompLz4
	case prefix(magicLz4Legacy):
		return CompLz4Legacy
	default:
		return CompUnknown
	}
}

// String returns the conventional name of the format. Unrecognized data
// reads as "raw".
func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompGzip:
		return "gzip"
	case CompLz4:
		return "lz4"
	case CompLz4Legacy:
		return "lz4_legacy"
	case CompLzo:
		return "lzop"
	case CompXz:
		return "xz"
	case CompLzma:
		return "lzma"
	case CompBzip2:
		return "bzip2"
	default:
		return "raw"
	}
}

// Ext returns the conventional file extension for the format, or the
// empty string for formats without one.
func (c Compression) Ext() string {
	switch c {
	case CompGzip:
		return ".gz"
	case CompLz4, CompLz4Legacy:
		return ".lz4"
	case CompLzo:
		return ".lzo"
	case CompXz:
		return ".xz"
	case CompLzma:
		return ".lzma"
	case CompBzip2:
		return ".bz2"
	default:
		return ""
	}
}

// TrailerKind classifies what occupies the extra region of an image.
type TrailerKind int

// Extra region contents recognized by ClassifyExtra.
const (
	TrailerEmpty TrailerKind = iota
	TrailerDTB
	TrailerQCDT
	TrailerAVBCert
	TrailerAVBFooter
	TrailerSEAndroid
	TrailerPadding
	TrailerUnknown
)

// Trailer magic numbers
var (
	magicDtb       = []byte("\xd0\x0d\xfe\xed")
	magicQcdt      = []byte("QCDT")
	magicSEAndroid = []byte("SEANDROIDENFORCE")
	magicAvbFooter = []byte("AVBf")
)

// avbFooterSize is the size of the footer block AVBv2 places at the very
// end of a partition.
const avbFooterSize = 64

// ClassifyExtra identifies what occupies the extra region. This is
// detection only; nothing here verifies a signature.
func ClassifyExtra(blob []byte) TrailerKind {
	switch {
	case len(blob) == 0:
		return TrailerEmpty
	case bytes.HasPrefix(blob, magicQcdt):
		return TrailerQCDT
	case bytes.HasPrefix(blob, magicDtb):
		return TrailerDTB
	case bytes.HasPrefix(blob, magicSEAndroid):
		return TrailerSEAndroid
	case len(blob) >= 2 && blob[0] == 0x30 && blob[1] == 0x82:
		// ASN.1 SEQUENCE header, how a v1 boot signature begins.
		return TrailerAVBCert
	}

	if len(blob) >= avbFooterSize && bytes.HasPrefix(blob[len(blob)-avbFooterSize:], magicAvbFooter) {
		return TrailerAVBFooter
	}

	for _, b := range blob {
		if b != 0 {
			return TrailerUnknown
		}
	}

	return TrailerPadding
}

// String returns a short name for the trailer kind.
func (k TrailerKind) String() string {
	switch k {
	case TrailerEmpty:
		return "empty"
	case TrailerDTB:
		return "dtb"
	case TrailerQCDT:
		return "qcdt"
	case TrailerAVBCert:
		return "avb1 cert"
	case TrailerAVBFooter:
		return "avb2 footer"
	case TrailerSEAndroid:
		return "seandroid"
	case TrailerPadding:
		return "padding"
	default:
		return "unknown"
	}
}
