package bliq

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawHeader builds a packed header with the given size fields set and
// everything else zeroed.
func rawHeader(pageSize, kernelSize, ramdiskSize, secondSize uint32) []byte {
	h := make([]byte, HeaderSize)
	le := binary.LittleEndian

	copy(h, BootMagic)
	le.PutUint32(h[8:], kernelSize)
	le.PutUint32(h[16:], ramdiskSize)
	le.PutUint32(h[24:], secondSize)
	le.PutUint32(h[36:], pageSize)

	return h
}

// headerRegion pads a packed header out to the reserved header region.
func headerRegion(h []byte) []byte {
	out := make([]byte, HeaderRegionSize)
	copy(out, h)

	return out
}

// buildImage assembles a synthetic boot image: the header region, then
// each segment padded to the page size, then the extra bytes verbatim.
func buildImage(pageSize uint32, kernel, ramdisk, second, extra []byte) []byte {
	var buf bytes.Buffer

	hdr := rawHeader(pageSize, uint32(len(kernel)), uint32(len(ramdisk)), uint32(len(second)))
	buf.Write(headerRegion(hdr))

	ps := int(pageSize)
	pad := func(n int) {
		if rem := n % ps; rem != 0 {
			buf.Write(make([]byte, ps-rem))
		}
	}

	for _, seg := range [][]byte{kernel, ramdisk, second} {
		buf.Write(seg)
		pad(len(seg))
	}

	buf.Write(extra)

	return buf.Bytes()
}

func TestDecodeOffsets(t *testing.T) {
	kernel := bytes.Repeat([]byte{0xaa}, 5000)
	ramdisk := bytes.Repeat([]byte{0xbb}, 100)

	layout, err := Decode(buildImage(2048, kernel, ramdisk, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, uint64(2048), layout.KernelOffset())
	assert.Equal(t, uint64(8192), layout.RamdiskOffset())
	assert.Equal(t, uint64(10240), layout.SecondOffset())
	assert.Equal(t, uint64(10240), layout.ExtraOffset())

	assert.Equal(t, uint32(3), layout.KernelPages())
	assert.Equal(t, uint32(1), layout.RamdiskPages())
	assert.Equal(t, uint32(0), layout.SecondPages())

	assert.Equal(t, uint64(0), layout.ExtraLength())
	assert.Equal(t, uint64(10240), layout.TotalLength())
}

func TestDecodeSegments(t *testing.T) {
	kernel := bytes.Repeat([]byte{0x11}, 3000)
	ramdisk := bytes.Repeat([]byte{0x22}, 514)
	second := bytes.Repeat([]byte{0x33}, 99)
	extra := []byte("leftover")

	data := buildImage(2048, kernel, ramdisk, second, extra)
	layout, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, kernel, layout.Kernel())
	assert.Equal(t, ramdisk, layout.Ramdisk())
	assert.Equal(t, second, layout.Second())
	assert.Equal(t, extra, layout.Extra())
	assert.Equal(t, uint64(len(extra)), layout.ExtraLength())

	// Accessors borrow the input rather than copying it.
	data[layout.KernelOffset()] = 0x7f
	assert.Equal(t, byte(0x7f), layout.Kernel()[0])
}

func TestDecodeHeaderFields(t *testing.T) {
	h := rawHeader(2048, 1, 2, 3)
	le := binary.LittleEndian

	le.PutUint32(h[12:], 0x10008000)
	le.PutUint32(h[20:], 0x11000000)
	le.PutUint32(h[28:], 0x10f00000)
	le.PutUint32(h[32:], 0x10000100)
	le.PutUint32(h[40:], 2)
	le.PutUint32(h[44:], 301990183)
	copy(h[48:], "grouper")
	copy(h[64:], "console=ttyHSL0,115200,n8")
	for i := 0; i < BootIDSize; i++ {
		h[576+i] = byte(i)
	}
	copy(h[608:], "androidboot.hardware=flo")

	hdr := decodeHeader(h)

	assert.Equal(t, BootMagicBytes, hdr.Magic)
	assert.Equal(t, uint32(1), hdr.KernelSize)
	assert.Equal(t, uint32(0x10008000), hdr.KernelAddr)
	assert.Equal(t, uint32(2), hdr.RamdiskSize)
	assert.Equal(t, uint32(0x11000000), hdr.RamdiskAddr)
	assert.Equal(t, uint32(3), hdr.SecondSize)
	assert.Equal(t, uint32(0x10f00000), hdr.SecondAddr)
	assert.Equal(t, uint32(0x10000100), hdr.TagsAddr)
	assert.Equal(t, uint32(2048), hdr.PageSize)
	assert.Equal(t, uint32(2), hdr.DtSize)
	assert.Equal(t, uint32(301990183), hdr.OSVersion)
	assert.Equal(t, "grouper", hdr.BoardName())
	assert.Equal(t, "console=ttyHSL0,115200,n8", hdr.CommandLine())
	assert.Equal(t, byte(31), hdr.ID[31])
	assert.Equal(t, "androidboot.hardware=flo", hdr.ExtraCommandLine())
}

func TestDecodeEmptySegments(t *testing.T) {
	layout, err := Decode(buildImage(2048, nil, nil, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, uint64(HeaderRegionSize), layout.KernelOffset())
	assert.Equal(t, uint64(HeaderRegionSize), layout.RamdiskOffset())
	assert.Equal(t, uint64(HeaderRegionSize), layout.SecondOffset())
	assert.Equal(t, uint64(HeaderRegionSize), layout.ExtraOffset())

	assert.Empty(t, layout.Kernel())
	assert.Empty(t, layout.Ramdisk())
	assert.Empty(t, layout.Second())
	assert.Empty(t, layout.Extra())

	assert.Equal(t, uint64(2048), layout.TotalLength())
}

func TestDecodeSmallPageSize(t *testing.T) {
	kernel := bytes.Repeat([]byte{0xcc}, 500)

	layout, err := Decode(buildImage(1000, kernel, nil, nil, nil))
	require.NoError(t, err)

	// Offsets reserve the fixed header region, not a header page.
	assert.Equal(t, uint64(2048), layout.KernelOffset())
	assert.Equal(t, uint64(3048), layout.RamdiskOffset())
	assert.Equal(t, uint32(1), layout.KernelPages())

	// The reconstructed length counts the header as a single page, so
	// it comes out shorter than the input here.
	assert.Equal(t, uint64(2000), layout.TotalLength())
}

func TestDecodeErrors(t *testing.T) {
	mangled := rawHeader(2048, 0, 0, 0)
	mangled[7] = '?'

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty input", nil, ErrTruncatedHeader},
		{"short magic", []byte("ANDRO"), ErrTruncatedHeader},
		{"bad magic", []byte("VNDRBOOT"), ErrInvalidMagic},
		{"zeroed input", make([]byte, 64), ErrInvalidMagic},
		{"bad magic full header", mangled, ErrInvalidMagic},
		{"short header", rawHeader(2048, 0, 0, 0)[:100], ErrTruncatedHeader},
		{"header cut one byte short", rawHeader(2048, 0, 0, 0)[:HeaderSize-1], ErrTruncatedHeader},
		{"zero page size", headerRegion(rawHeader(0, 0, 0, 0)), ErrInvalidPageSize},
		{"kernel overruns input", headerRegion(rawHeader(2048, 5000, 0, 0)), ErrTruncatedPayload},
		{"ramdisk overruns input", headerRegion(rawHeader(2048, 0, 5000, 0)), ErrTruncatedPayload},
		{"second overruns input", headerRegion(rawHeader(2048, 0, 0, 10)), ErrTruncatedPayload},
		{"extra region starts past input", rawHeader(2048, 0, 0, 0), ErrTruncatedPayload},
		{"huge kernel size", headerRegion(rawHeader(4096, 0xfffffff0, 0, 0)), ErrTruncatedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeErrorContext(t *testing.T) {
	_, err := Decode(headerRegion(rawHeader(2048, 0, 5000, 0)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ramdisk")

	_, err = Decode(headerRegion(rawHeader(2048, 5000, 0, 0)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernel")
}

func TestDecodeReader(t *testing.T) {
	data := buildImage(2048, []byte("kernel"), []byte("ramdisk"), nil, nil)

	layout, err := DecodeReader(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []byte("kernel"), layout.Kernel())
	assert.Equal(t, uint64(6144), layout.TotalLength())
}
