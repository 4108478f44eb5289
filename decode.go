package bliq

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Decode parses data as an Android boot image and derives its segment
// layout. The returned Layout borrows data rather than copying it:
// segment accessors return subslices, valid for as long as data is.
//
// Decode never modifies data and holds no state of its own, so it is
// safe to call concurrently on independent buffers.
func Decode(data []byte) (*Layout, error) {
	if len(data) < BootMagicSize {
		return nil, eMsg(ErrTruncatedHeader, "reading magic number from input")
	}

	if !bytes.Equal(data[:BootMagicSize], BootMagicBytes[:]) {
		return nil, eMsg(ErrInvalidMagic, "finding Android header")
	}

	if len(data) < HeaderSize {
		return nil, eMsg(ErrTruncatedHeader, "reading header from input")
	}

	hdr := decodeHeader(data)
	if hdr.PageSize == 0 {
		return nil, eMsg(ErrInvalidPageSize, "validating header")
	}

	// Page math in 64 bits: size + pageSize - 1 can overflow uint32.
	ps := uint64(hdr.PageSize)
	kernelPages := pageCount(hdr.KernelSize, ps)
	ramdiskPages := pageCount(hdr.RamdiskSize, ps)
	secondPages := pageCount(hdr.SecondSize, ps)

	kernelOffset := uint64(HeaderRegionSize)
	ramdiskOffset := kernelOffset + kernelPages*ps
	secondOffset := ramdiskOffset + ramdiskPages*ps
	extraOffset := secondOffset + secondPages*ps

	size := uint64(len(data))
	if kernelOffset+uint64(hdr.KernelSize) > size {
		return nil, eMsg(ErrTruncatedPayload, "locating kernel in input")
	}
	if ramdiskOffset+uint64(hdr.RamdiskSize) > size {
		return nil, eMsg(ErrTruncatedPayload, "locating ramdisk in input")
	}
	if secondOffset+uint64(hdr.SecondSize) > size {
		return nil, eMsg(ErrTruncatedPayload, "locating second stage bootloader in input")
	}
	if extraOffset > size {
		return nil, eMsg(ErrTruncatedPayload, "locating extra data in input")
	}

	// The reconstructed length counts the header region as one page even
	// though segment offsets reserve a fixed HeaderRegionSize for it.
	payload := (kernelPages + ramdiskPages + secondPages) * ps
	totalLength := alignUp(ps+payload, ps)

	return &Layout{
		hdr:  *hdr,
		data: data,

		kernelPages:  uint32(kernelPages),
		ramdiskPages: uint32(ramdiskPages),
		secondPages:  uint32(secondPages),

		kernelOffset:  kernelOffset,
		ramdiskOffset: ramdiskOffset,
		secondOffset:  secondOffset,
		extraOffset:   extraOffset,

		extraLength: size - extraOffset,
		totalLength: totalLength,
	}, nil
}

// DecodeReader reads an image from r until EOF and decodes it.
func DecodeReader(r io.Reader) (*Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eMsg(err, "reading image from input")
	}

	return Decode(data)
}

// decodeHeader reads the packed little-endian header fields. The caller
// guarantees at least HeaderSize bytes.
func decodeHeader(data []byte) *Header {
	var h Header
	le := binary.LittleEndian

	copy(h.Magic[:], data[0:8])
	h.KernelSize = le.Uint32(data[8:12])
	h.KernelAddr = le.Uint32(data[12:16])
	h.RamdiskSize = le.Uint32(data[16:20])
	h.RamdiskAddr = le.Uint32(data[20:24])
	h.SecondSize = le.Uint32(data[24:28])
	h.SecondAddr = le.Uint32(data[28:32])
	h.TagsAddr = le.Uint32(data[32:36])
	h.PageSize = le.Uint32(data[36:40])
	h.DtSize = le.Uint32(data[40:44])
	h.OSVersion = le.Uint32(data[44:48])
	copy(h.Board[:], data[48:64])
	copy(h.Cmdline[:], data[64:576])
	copy(h.ID[:], data[576:608])
	copy(h.ExtraCmdline[:], data[608:HeaderSize])

	return &h
}
