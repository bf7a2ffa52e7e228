package bmff

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// BoxHeader is the immutable record produced by parsing a box's on-disk
// header: four-char type, total on-disk size including the header itself,
// and whether the 16-byte largesize encoding was used.
type BoxHeader struct {
	Name     BoxType
	Size     uint64
	LongSize bool
}

// ReadBoxHeader consumes 8 bytes at the reader's current position and, if
// size == 1, a further 8 bytes of largesize. It never seeks; callers that
// need the post-header offset should track it themselves (traverse.go
// does, via Seek and headerLen).
func ReadBoxHeader(r io.Reader) (BoxHeader, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return BoxHeader{}, ErrUnexpectedEOF
		}
		return BoxHeader{}, errors.Wrap(err, "bmff: read box header")
	}

	size := binary.BigEndian.Uint32(buf[0:4])
	var name BoxType
	copy(name[:], buf[4:8])

	if size != 1 {
		return BoxHeader{Name: name, Size: uint64(size), LongSize: false}, nil
	}

	var lbuf [8]byte
	if _, err := io.ReadFull(r, lbuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return BoxHeader{}, ErrUnexpectedEOF
		}
		return BoxHeader{}, errors.Wrap(err, "bmff: read box largesize")
	}
	largesize := binary.BigEndian.Uint64(lbuf[:])

	switch {
	case largesize == 0:
		return BoxHeader{Name: name, Size: 0, LongSize: true}, nil
	case largesize < 16:
		return BoxHeader{}, ErrInvalidLargesize
	default:
		return BoxHeader{Name: name, Size: largesize, LongSize: true}, nil
	}
}

// WriteBoxHeader emits the 8- or 16-byte header for a box whose content
// length is contentLen. forceLongSize requests the 16-byte encoding even
// when the 32-bit form would fit, to preserve a donor box's original
// on-disk encoding across a round trip.
func WriteBoxHeader(w io.Writer, name BoxType, contentLen uint64, forceLongSize bool) error {
	if forceLongSize || contentLen+8 > uint64(^uint32(0)) {
		var buf [16]byte
		binary.BigEndian.PutUint32(buf[0:4], 1)
		copy(buf[4:8], name[:])
		binary.BigEndian.PutUint64(buf[8:16], contentLen+16)
		_, err := w.Write(buf[:])
		return err
	}

	var buf [8]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(contentLen+8))
	copy(buf[4:8], name[:])
	_, err := w.Write(buf[:])
	return err
}
