package bmff

import (
	"bytes"
	"io"
)

// BoxDataKind discriminates the three payload shapes an in-memory Box can
// hold. A Box is Empty xor Raw xor Children; Raw is only ever used for leaf
// box types, Children only for container types.
type BoxDataKind int

const (
	DataEmpty BoxDataKind = iota
	DataRaw
	DataChildren
)

// Box is the in-memory tree node tree-building visitors (strip, moov
// transplant) assemble and serialize. Raw holds a leaf's payload bytes;
// Children holds an ordered list of descendants for a container box.
type Box struct {
	Name          BoxType
	Kind          BoxDataKind
	Raw           []byte
	Children      []*Box
	ForceLongSize bool // preserve donor's original header encoding on re-serialize
}

// NewBox returns an empty node for name, carrying forceLongSize from the
// header that introduced it.
func NewBox(name BoxType, forceLongSize bool) *Box {
	return &Box{Name: name, Kind: DataEmpty, ForceLongSize: forceLongSize}
}

// SetRaw transitions the node to Raw, overwriting any prior Empty content.
func (b *Box) SetRaw(data []byte) {
	b.Kind = DataRaw
	b.Raw = data
	b.Children = nil
}

// AddChild attaches child to b, coercing Empty to Children on first use and
// appending to an existing Children list. If b currently holds Raw content
// — a leaf that unexpectedly turned out to contain a nested box — the Raw
// bytes are discarded and a warning logged; see the strip/transplant
// end_box rule this mirrors.
func (b *Box) AddChild(child *Box) {
	switch b.Kind {
	case DataEmpty:
		b.Kind = DataChildren
		b.Children = []*Box{child}
	case DataChildren:
		b.Children = append(b.Children, child)
	case DataRaw:
		Log.Warn().Str("box", b.Name.String()).Msg("coercing raw box to children on late-arriving child")
		b.Kind = DataChildren
		b.Raw = nil
		b.Children = []*Box{child}
	}
}

// Clone deep-copies b and its entire subtree, used when transplanting a
// donor moov subtree into a separate output tree.
func (b *Box) Clone() *Box {
	clone := &Box{Name: b.Name, Kind: b.Kind, ForceLongSize: b.ForceLongSize}
	if b.Raw != nil {
		clone.Raw = append([]byte(nil), b.Raw...)
	}
	for _, c := range b.Children {
		clone.Children = append(clone.Children, c.Clone())
	}
	return clone
}

// content writes b's payload bytes (not the header) to buf: concatenated
// serialized children for Children, the raw bytes for Raw, nothing for
// Empty.
func (b *Box) content(buf *bytes.Buffer) error {
	switch b.Kind {
	case DataEmpty:
		return nil
	case DataRaw:
		_, err := buf.Write(b.Raw)
		return err
	case DataChildren:
		for _, c := range b.Children {
			if err := c.Serialize(buf); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// Serialize writes b's header followed by its content to w, choosing the
// 8- or 16-byte header encoding per WriteBoxHeader. Children are
// serialized recursively in order, so concatenation of a container's
// children yields exactly its content length.
func (b *Box) Serialize(w io.Writer) error {
	var content bytes.Buffer
	if err := b.content(&content); err != nil {
		return err
	}
	if err := WriteBoxHeader(w, b.Name, uint64(content.Len()), b.ForceLongSize); err != nil {
		return err
	}
	_, err := w.Write(content.Bytes())
	return err
}
