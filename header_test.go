package bmff

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadBoxHeaderShort(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x08, 'f', 't', 'y', 'p'}
	h, err := ReadBoxHeader(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, TypeFtyp, h.Name)
	require.Equal(t, uint64(8), h.Size)
	require.False(t, h.LongSize)
}

func TestReadBoxHeaderLargesize(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x00, 0x01, 'm', 'd', 'a', 't'})
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x20}) // largesize = 32

	h, err := ReadBoxHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, TypeMdat, h.Name)
	require.Equal(t, uint64(32), h.Size)
	require.True(t, h.LongSize)
}

func TestReadBoxHeaderLargesizeZeroSentinel(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x00, 0x01, 'm', 'd', 'a', 't'})
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0})

	h, err := ReadBoxHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, uint64(0), h.Size)
	require.True(t, h.LongSize)
}

func TestReadBoxHeaderInvalidLargesize(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x00, 0x01, 'm', 'd', 'a', 't'})
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 8}) // largesize = 8, in forbidden 1..=15

	_, err := ReadBoxHeader(&buf)
	require.ErrorIs(t, err, ErrInvalidLargesize)
}

func TestReadBoxHeaderUnexpectedEOF(t *testing.T) {
	_, err := ReadBoxHeader(bytes.NewReader([]byte{0, 0, 0}))
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestWriteBoxHeaderShort(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBoxHeader(&buf, TypeFree, 4, false)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 12, 'f', 'r', 'e', 'e'}, buf.Bytes())
}

func TestWriteBoxHeaderForcedLongSize(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBoxHeader(&buf, TypeMdat, 4, true)
	require.NoError(t, err)
	require.Len(t, buf.Bytes(), 16)
	require.Equal(t, []byte{0, 0, 0, 1, 'm', 'd', 'a', 't'}, buf.Bytes()[:8])
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBoxHeader(&buf, TypeFtyp, 16, false))
	h, err := ReadBoxHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, TypeFtyp, h.Name)
	require.Equal(t, uint64(24), h.Size)
}
