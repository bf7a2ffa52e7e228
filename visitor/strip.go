package visitor

import (
	"bytes"
	"io"

	"github.com/tetsuo/bmffsurgeon"
)

// Stripper rebuilds a file while replacing boxes of selected types with
// same-sized free boxes filled with zero bytes, and repairing sample-table
// entry counts along the way. It buffers the whole tree in memory (output
// size depends on re-serialization, not just a byte-for-byte copy) and
// writes it out once the root box closes.
type Stripper struct {
	bmff.BaseVisitor
	w      io.Writer
	ignore map[bmff.BoxType]struct{}
	stack  []*bmff.Box
}

// NewStripper returns a Stripper writing its rebuilt tree to w. Leaf box
// types in ignore are replaced with zero-filled free boxes of identical
// size. The replacement happens in Data, which is never called for
// containers, so a container type in ignore is kept under its own name
// with its children rebuilt as usual.
func NewStripper(w io.Writer, ignore []bmff.BoxType) *Stripper {
	set := make(map[bmff.BoxType]struct{}, len(ignore))
	for _, t := range ignore {
		set[t] = struct{}{}
	}
	return &Stripper{w: w, ignore: set}
}

func (s *Stripper) StartBox(header bmff.BoxHeader, correctedSize *uint64) error {
	if correctedSize != nil {
		bmff.Log.Warn().
			Str("box", header.Name.String()).
			Uint64("declared", header.Size).
			Uint64("corrected", *correctedSize).
			Msg("correcting size mismatch")
	}
	s.stack = append(s.stack, bmff.NewBox(header.Name, header.LongSize))
	return nil
}

func (s *Stripper) Data(r io.Reader) error {
	top := s.stack[len(s.stack)-1]

	if _, ignored := s.ignore[top.Name]; ignored {
		bmff.Log.Info().Str("box", top.Name.String()).Msg("blanking ignored box")
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		for i := range data {
			data[i] = 0
		}
		top.Name = bmff.TypeFree
		top.SetRaw(data)
		return nil
	}

	if bmff.Recoverable(top.Name) {
		payload, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		corrected, _, err := bmff.RecoverSampleTable(top.Name, payload)
		if err != nil {
			return err
		}
		top.SetRaw(corrected)
		return nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	top.SetRaw(buf.Bytes())
	return nil
}

func (s *Stripper) EndBox(bmff.BoxType) error {
	n := len(s.stack)
	exiting := s.stack[n-1]
	s.stack = s.stack[:n-1]

	if len(s.stack) == 0 {
		return exiting.Serialize(s.w)
	}
	parent := s.stack[len(s.stack)-1]
	parent.AddChild(exiting)
	return nil
}
