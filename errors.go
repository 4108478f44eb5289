package bliq

import (
	"errors"

	"github.com/hashicorp/errwrap"
)

// Structural decoding errors. Every error returned by Decode wraps one
// of these sentinels; discriminate with errors.Is.
var (
	// ErrInvalidMagic means the input does not begin with "ANDROID!".
	ErrInvalidMagic = errors.New("android boot magic not found")

	// ErrTruncatedHeader means the input ends before the packed header does.
	ErrTruncatedHeader = errors.New("image is smaller than the boot header")

	// ErrInvalidPageSize means the header declares a page size of zero.
	ErrInvalidPageSize = errors.New("page size is zero")

	// ErrTruncatedPayload means a segment described by the header extends
	// past the end of the input.
	ErrTruncatedPayload = errors.New("segment extends past the end of the image")
)

// eMsg wraps an error with a message describing the step that failed.
func eMsg(err error, msg string) error {
	return errwrap.Wrapf(msg+": {{err}}", err)
}
