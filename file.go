package bliq

import (
	"errors"
	"os"

	"github.com/edsrzf/mmap-go"
)

// File is a boot image decoded from a memory-mapped file. Segment views
// point straight into the mapping, so nothing is copied; they become
// invalid once the File is closed.
type File struct {
	*Layout

	f  *os.File
	mm mmap.MMap
}

// Open memory-maps the image at path read-only and decodes it.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eMsg(err, "opening image for reading")
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, eMsg(err, "verifying image file")
	}

	if fi.IsDir() {
		f.Close()
		return nil, eMsg(errors.New("input is a directory"), "verifying image file")
	}

	// Empty files can't be mapped; report them the way Decode would.
	if fi.Size() == 0 {
		f.Close()
		return nil, eMsg(ErrTruncatedHeader, "reading magic number from input")
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, eMsg(err, "mapping image into memory")
	}

	layout, err := Decode(mm)
	if err != nil {
		mm.Unmap()
		f.Close()
		return nil, err
	}

	return &File{
		Layout: layout,

		f:  f,
		mm: mm,
	}, nil
}

// Close unmaps the image. Segment data obtained from the File must not
// be used afterwards. Closing twice is harmless.
func (f *File) Close() error {
	if f.mm == nil {
		return nil
	}

	err := f.mm.Unmap()
	f.mm = nil

	if cerr := f.f.Close(); err == nil {
		err = cerr
	}

	return err
}
