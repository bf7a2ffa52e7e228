package bmff

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxSerializeRaw(t *testing.T) {
	b := NewBox(TypeFtyp, false)
	b.SetRaw([]byte("isom"))

	var out bytes.Buffer
	require.NoError(t, b.Serialize(&out))
	require.Equal(t, []byte{0, 0, 0, 12, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}, out.Bytes())
}

func TestBoxSerializeChildren(t *testing.T) {
	root := NewBox(TypeMoov, false)
	child := NewBox(TypeMvhd, false)
	child.SetRaw([]byte{1, 2, 3, 4})
	root.AddChild(child)

	var out bytes.Buffer
	require.NoError(t, root.Serialize(&out))

	// moov header (8) + mvhd header (8) + mvhd content (4) = 20
	require.Equal(t, uint32(20), beUint32(out.Bytes()[0:4]))
	require.Equal(t, "moov", string(out.Bytes()[4:8]))
	require.Equal(t, uint32(12), beUint32(out.Bytes()[8:12]))
	require.Equal(t, "mvhd", string(out.Bytes()[12:16]))
}

func TestBoxSerializeForceLongSize(t *testing.T) {
	b := NewBox(TypeFree, true)
	b.SetRaw([]byte{0, 0, 0, 0})

	var out bytes.Buffer
	require.NoError(t, b.Serialize(&out))
	require.Len(t, out.Bytes(), 16+4)
}

func TestAddChildCoercesEmptyThenAppends(t *testing.T) {
	root := NewBox(TypeStbl, false)
	require.Equal(t, DataEmpty, root.Kind)

	root.AddChild(NewBox(TypeStsd, false))
	require.Equal(t, DataChildren, root.Kind)
	require.Len(t, root.Children, 1)

	root.AddChild(NewBox(TypeStts, false))
	require.Len(t, root.Children, 2)
}

func TestAddChildCoercesRawToChildren(t *testing.T) {
	root := NewBox(TypeUdta, false)
	root.SetRaw([]byte{1, 2, 3})
	require.Equal(t, DataRaw, root.Kind)

	root.AddChild(NewBox(TypeMeta, false))
	require.Equal(t, DataChildren, root.Kind)
	require.Nil(t, root.Raw)
	require.Len(t, root.Children, 1)
}

func TestBoxCloneIsDeep(t *testing.T) {
	root := NewBox(TypeMoov, false)
	child := NewBox(TypeMvhd, false)
	child.SetRaw([]byte{9, 9})
	root.AddChild(child)

	clone := root.Clone()
	clone.Children[0].Raw[0] = 0xFF

	require.Equal(t, byte(9), root.Children[0].Raw[0])
	require.Equal(t, byte(0xFF), clone.Children[0].Raw[0])
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
