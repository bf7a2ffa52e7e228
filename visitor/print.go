// Package visitor implements the bmff.Visitor operations this module
// provides over the box-tree traversal engine: tree/path printing, payload
// extraction, box stripping, moov transplant, and standalone sample-table
// recovery.
package visitor

import (
	"fmt"
	"io"
	"strings"

	"github.com/tetsuo/bmffsurgeon"
)

func sizeAnnotation(header bmff.BoxHeader, correctedSize *uint64, withSize bool) string {
	if !withSize {
		return ""
	}
	if correctedSize != nil {
		return fmt.Sprintf(" (%d B declared, %d B corrected)", header.Size, *correctedSize)
	}
	return fmt.Sprintf(" (%d B)", header.Size)
}

// TreePrinter renders the box tree as indented text, two spaces per depth
// level, one line per box.
type TreePrinter struct {
	bmff.BaseVisitor
	w        io.Writer
	withSize bool
	depth    int
}

// NewTreePrinter returns a TreePrinter writing to w; withSize appends a
// declared/corrected size annotation to each line.
func NewTreePrinter(w io.Writer, withSize bool) *TreePrinter {
	return &TreePrinter{w: w, withSize: withSize}
}

func (p *TreePrinter) StartBox(header bmff.BoxHeader, correctedSize *uint64) error {
	indent := strings.Repeat("  ", p.depth)
	_, err := fmt.Fprintf(p.w, "%s%s%s\n", indent, header.Name, sizeAnnotation(header, correctedSize, p.withSize))
	p.depth++
	return err
}

func (p *TreePrinter) EndBox(bmff.BoxType) error {
	p.depth--
	return nil
}

// PathPrinter renders the box tree as slash-delimited paths, one line per
// box, e.g. "moov/trak/mdia/minf/stbl/stsz".
type PathPrinter struct {
	bmff.BaseVisitor
	w        io.Writer
	withSize bool
	path     []string
}

// NewPathPrinter returns a PathPrinter writing to w; withSize appends a
// declared/corrected size annotation to each line.
func NewPathPrinter(w io.Writer, withSize bool) *PathPrinter {
	return &PathPrinter{w: w, withSize: withSize}
}

func (p *PathPrinter) StartBox(header bmff.BoxHeader, correctedSize *uint64) error {
	p.path = append(p.path, header.Name.String())
	_, err := fmt.Fprintf(p.w, "%s%s\n", strings.Join(p.path, "/"), sizeAnnotation(header, correctedSize, p.withSize))
	return err
}

func (p *PathPrinter) EndBox(bmff.BoxType) error {
	p.path = p.path[:len(p.path)-1]
	return nil
}
