package visitor

import (
	"io"

	"github.com/tetsuo/bmffsurgeon"
)

// MoovLocator scans a donor file and materializes the entire moov subtree,
// including all descendants, as a single *bmff.Box. After a full traversal,
// Moov holds the subtree, or is nil if the donor has no moov box.
type MoovLocator struct {
	bmff.BaseVisitor
	stack      []*bmff.Box
	extracting bool
	Moov       *bmff.Box
}

// NewMoovLocator returns an empty MoovLocator ready to drive a traversal.
func NewMoovLocator() *MoovLocator {
	return &MoovLocator{}
}

func (l *MoovLocator) StartBox(header bmff.BoxHeader, _ *uint64) error {
	l.stack = append(l.stack, bmff.NewBox(header.Name, header.LongSize))
	if header.Name == bmff.TypeMoov {
		l.extracting = true
	}
	return nil
}

func (l *MoovLocator) Data(r io.Reader) error {
	if !l.extracting {
		return nil
	}
	top := l.stack[len(l.stack)-1]
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	top.SetRaw(data)
	return nil
}

func (l *MoovLocator) EndBox(name bmff.BoxType) error {
	n := len(l.stack)
	exiting := l.stack[n-1]
	l.stack = l.stack[:n-1]

	if name == bmff.TypeMoov {
		l.Moov = exiting
		l.extracting = false
		return nil
	}
	if l.extracting && len(l.stack) > 0 {
		l.stack[len(l.stack)-1].AddChild(exiting)
	}
	return nil
}

// MoovTransplant rewrites a target file, substituting a pre-extracted donor
// moov subtree for the target's own moov box — or, if the target has no
// moov box at all, appending the donor's at end of file via Finish.
type MoovTransplant struct {
	bmff.BaseVisitor
	w             io.Writer
	donorMoov     *bmff.Box
	stack         []*bmff.Box
	replacingMoov bool
	foundMoov     bool
}

// NewMoovTransplant returns a MoovTransplant writing the rewritten tree to
// w, substituting donorMoov for the target's moov box.
func NewMoovTransplant(w io.Writer, donorMoov *bmff.Box) *MoovTransplant {
	return &MoovTransplant{w: w, donorMoov: donorMoov}
}

func (t *MoovTransplant) StartBox(header bmff.BoxHeader, _ *uint64) error {
	if header.Name == bmff.TypeMoov {
		t.stack = append(t.stack, t.donorMoov.Clone())
		t.replacingMoov = true
		t.foundMoov = true
		return nil
	}
	t.stack = append(t.stack, bmff.NewBox(header.Name, header.LongSize))
	return nil
}

func (t *MoovTransplant) Data(r io.Reader) error {
	if t.replacingMoov {
		// discard the subject's own moov contents; the clone already
		// carries the donor's payload.
		_, err := io.Copy(io.Discard, r)
		return err
	}
	top := t.stack[len(t.stack)-1]
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	top.SetRaw(data)
	return nil
}

func (t *MoovTransplant) EndBox(name bmff.BoxType) error {
	if name == bmff.TypeMoov {
		t.replacingMoov = false
	}

	n := len(t.stack)
	exiting := t.stack[n-1]
	t.stack = t.stack[:n-1]

	if t.replacingMoov {
		return nil
	}

	if len(t.stack) == 0 {
		return exiting.Serialize(t.w)
	}
	t.stack[len(t.stack)-1].AddChild(exiting)
	return nil
}

// Finish must be called after traversal completes. If the subject file
// never contained a moov box, the donor's is appended as an additional
// top-level box at end of file.
func (t *MoovTransplant) Finish() error {
	if t.foundMoov {
		return nil
	}
	return t.donorMoov.Serialize(t.w)
}

// Transplant runs the full locate-then-replace operation: it reads donor
// and subject as bmff.Source instances, and writes the rewritten subject
// to out. It returns bmff.ErrMissingMoov if donor has no moov box.
func Transplant(donor, subject bmff.Source, out io.Writer) error {
	locator := NewMoovLocator()
	if err := bmff.Traverse(donor, donor.Size(), locator); err != nil {
		return err
	}
	if locator.Moov == nil {
		return bmff.ErrMissingMoov
	}

	transplant := NewMoovTransplant(out, locator.Moov)
	if err := bmff.Traverse(subject, subject.Size(), transplant); err != nil {
		return err
	}
	return transplant.Finish()
}
