package bliq

import (
	"bytes"
	"errors"
	"io"

	gzip "github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
)

// DecompressRamdisk decompresses a ramdisk blob, detecting its format
// from the magic number. Uncompressed blobs come back as given.
func DecompressRamdisk(ramdisk []byte) ([]byte, error) {
	switch cMode := DetectCompression(ramdisk); cMode {
	case CompGzip:
		return extractGzip(ramdisk)
	case CompLz4:
		return extractLz4(ramdisk)
	case CompLz4Legacy:
		return nil, eMsg(errors.New("legacy LZ4 ramdisk decompression is not supported"), "preparing to extract ramdisk")
	case CompLzo:
		return nil, eMsg(errors.New("LZO ramdisk decompression is not supported"), "preparing to extract ramdisk")
	case CompXz:
		return nil, eMsg(errors.New("XZ ramdisk decompression is not supported"), "preparing to extract ramdisk")
	case CompLzma:
		return nil, eMsg(errors.New("LZMA ramdisk decompression is not supported"), "preparing to extract ramdisk")
	case CompBzip2:
		return nil, eMsg(errors.New("Bzip2 ramdisk decompression is not supported"), "preparing to extract ramdisk")
	default:
		// CompNone or CompUnknown: nothing to inflate.
		return ramdisk, nil
	}
}

// extractGzip decompresses a gzip stream.
func extractGzip(compr []byte) ([]byte, error) {
	gReader, err := gzip.NewReader(bytes.NewReader(compr))
	if err != nil {
		return nil, eMsg(err, "preparing to extract ramdisk")
	}

	data, err := io.ReadAll(gReader)
	if err != nil {
		return nil, eMsg(err, "extracting ramdisk")
	}

	err = gReader.Close()
	if err != nil {
		return nil, eMsg(err, "cleaning up ramdisk extraction")
	}

	return data, nil
}

// extractLz4 decompresses an lz4 frame stream.
func extractLz4(compr []byte) ([]byte, error) {
	zReader := lz4.NewReader(bytes.NewReader(compr))

	data, err := io.ReadAll(zReader)
	if err != nil {
		return nil, eMsg(err, "extracting ramdisk")
	}

	return data, nil
}
