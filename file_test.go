package bliq

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempImage(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "boot.img")
	require.NoError(t, os.WriteFile(path, data, 0644))

	return path
}

func TestOpen(t *testing.T) {
	kernel := bytes.Repeat([]byte{0xaa}, 5000)
	ramdisk := bytes.Repeat([]byte{0xbb}, 100)
	data := buildImage(2048, kernel, ramdisk, nil, nil)

	img, err := Open(writeTempImage(t, data))
	require.NoError(t, err)
	defer img.Close()

	want, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, want.KernelOffset(), img.KernelOffset())
	assert.Equal(t, want.RamdiskOffset(), img.RamdiskOffset())
	assert.Equal(t, want.TotalLength(), img.TotalLength())
	assert.Equal(t, kernel, img.Kernel())
	assert.Equal(t, ramdisk, img.Ramdisk())
	assert.Equal(t, want.Fingerprint(), img.Fingerprint())
}

func TestOpenClose(t *testing.T) {
	data := buildImage(2048, []byte("kernel"), nil, nil, nil)

	img, err := Open(writeTempImage(t, data))
	require.NoError(t, err)

	require.NoError(t, img.Close())
	assert.NoError(t, img.Close())
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope.img"))
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Open(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Open(writeTempImage(t, nil))
		assert.ErrorIs(t, err, ErrTruncatedHeader)
	})

	t.Run("not a boot image", func(t *testing.T) {
		_, err := Open(writeTempImage(t, []byte("certainly not a boot image")))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("truncated image", func(t *testing.T) {
		data := buildImage(2048, bytes.Repeat([]byte{1}, 5000), nil, nil, nil)

		_, err := Open(writeTempImage(t, data[:4000]))
		assert.ErrorIs(t, err, ErrTruncatedPayload)
	})
}
