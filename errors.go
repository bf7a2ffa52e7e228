package bmff

import "github.com/pkg/errors"

// Sentinel errors returned by the box header codec and traversal engine.
// Wrap with errors.Wrapf at call sites that need to attach position or
// box-type context; callers can still unwrap with errors.Is/errors.As.
var (
	// ErrUnexpectedEOF is returned when a header or a fixed-size field was
	// expected but the source ended first.
	ErrUnexpectedEOF = errors.New("bmff: unexpected EOF")

	// ErrInvalidLargesize is returned when a 16-byte header's largesize
	// field falls in the forbidden 1..=15 range: such a value cannot
	// include its own 16-byte header.
	ErrInvalidLargesize = errors.New("bmff: 64-bit box size too small")

	// ErrMissingMoov is returned by moov-transplant when the donor lacks
	// a moov subtree.
	ErrMissingMoov = errors.New("bmff: donor file has no moov box")
)
