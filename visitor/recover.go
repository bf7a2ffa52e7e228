package visitor

import (
	"bytes"
	"io"

	"github.com/tetsuo/bmffsurgeon"
)

// Recover rebuilds a file byte-identical to the input except that every
// ctts/stts/stsc/stsz/stco box has its entry count re-derived from the
// observed payload length. Unlike Stripper it never replaces or zeroes any
// box — it exists purely to repair the sample-table entry-count
// corruption that a general-purpose parser would otherwise choke on,
// without stripping anything a caller didn't ask to strip.
type Recover struct {
	bmff.BaseVisitor
	w     io.Writer
	stack []*bmff.Box
}

// NewRecover returns a Recover visitor writing its rebuilt tree to w.
func NewRecover(w io.Writer) *Recover {
	return &Recover{w: w}
}

func (r *Recover) StartBox(header bmff.BoxHeader, correctedSize *uint64) error {
	if correctedSize != nil {
		bmff.Log.Warn().
			Str("box", header.Name.String()).
			Uint64("declared", header.Size).
			Uint64("corrected", *correctedSize).
			Msg("correcting size mismatch")
	}
	r.stack = append(r.stack, bmff.NewBox(header.Name, header.LongSize))
	return nil
}

func (r *Recover) Data(reader io.Reader) error {
	top := r.stack[len(r.stack)-1]

	if bmff.Recoverable(top.Name) {
		payload, err := io.ReadAll(reader)
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
	if _, err := io.Copy(&buf, reader); err != nil {
		return err
	}
	top.SetRaw(buf.Bytes())
	return nil
}

func (r *Recover) EndBox(bmff.BoxType) error {
	n := len(r.stack)
	exiting := r.stack[n-1]
	r.stack = r.stack[:n-1]

	if len(r.stack) == 0 {
		return exiting.Serialize(r.w)
	}
	r.stack[len(r.stack)-1].AddChild(exiting)
	return nil
}
