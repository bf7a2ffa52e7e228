package visitor

import (
	"io"

	"github.com/tetsuo/bmffsurgeon"
)

// Extractor streams the payload of the first box matching a requested type
// to an output sink, then ignores any further occurrences. Data is only
// called for leaf boxes, so when the requested type is a container, what is
// copied is the payload of the first leaf box visited after it, not the
// container's own header and content.
type Extractor struct {
	bmff.BaseVisitor
	boxType    bmff.BoxType
	w          io.Writer
	shouldRead bool
	done       bool
}

// NewExtractor returns an Extractor that copies the first boxType box's
// payload to w.
func NewExtractor(boxType bmff.BoxType, w io.Writer) *Extractor {
	return &Extractor{boxType: boxType, w: w}
}

func (e *Extractor) StartBox(header bmff.BoxHeader, _ *uint64) error {
	if header.Name == e.boxType && !e.done {
		e.shouldRead = true
	}
	return nil
}

func (e *Extractor) Data(r io.Reader) error {
	if !e.shouldRead {
		return nil
	}
	if _, err := io.Copy(e.w, r); err != nil {
		return err
	}
	e.shouldRead = false
	e.done = true
	return nil
}
