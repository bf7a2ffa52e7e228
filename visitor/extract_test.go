package visitor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetsuo/bmffsurgeon"
)

func TestExtractorFirstMatchOnly(t *testing.T) {
	udta1 := box8("udta", []byte("first"))
	udta2 := box8("udta", []byte("second"))

	var input []byte
	input = append(input, udta1...)
	input = append(input, udta2...)

	var out bytes.Buffer
	e := NewExtractor(bmff.TypeUdta, &out)
	require.NoError(t, bmff.Traverse(bytes.NewReader(input), int64(len(input)), e))

	require.Equal(t, "first", out.String())
}

func TestExtractorNoMatch(t *testing.T) {
	ftyp := box8("ftyp", []byte("isom"))

	var out bytes.Buffer
	e := NewExtractor(bmff.TypeUdta, &out)
	require.NoError(t, bmff.Traverse(bytes.NewReader(ftyp), int64(len(ftyp)), e))

	require.Equal(t, 0, out.Len())
}

// TestExtractorContainerTargetCopiesFirstDescendantLeafNotSelf documents a
// known quirk inherited from the visitor this was ported from: Data is only
// ever called for leaf boxes, so targeting a container type like moov never
// gets its own header+payload copied out. Instead, shouldRead stays set
// across moov's StartBox and fires on the first leaf Data call encountered
// afterward — here, moov's own mvhd child — not on moov's on-disk bytes.
func TestExtractorContainerTargetCopiesFirstDescendantLeafNotSelf(t *testing.T) {
	mvhd := box8("mvhd", []byte("MVHD"))
	tkhd := box8("tkhd", []byte("TKHD"))
	trak := box8("trak", tkhd)

	var moovContent []byte
	moovContent = append(moovContent, mvhd...)
	moovContent = append(moovContent, trak...)
	moov := box8("moov", moovContent)

	ftyp := box8("ftyp", []byte("isom"))
	var input []byte
	input = append(input, ftyp...)
	input = append(input, moov...)

	var out bytes.Buffer
	e := NewExtractor(bmff.TypeMoov, &out)
	require.NoError(t, bmff.Traverse(bytes.NewReader(input), int64(len(input)), e))

	// Not moov's own header+payload; mvhd's bare payload instead.
	require.Equal(t, "MVHD", out.String())
}
