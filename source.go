package bmff

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

// Source is the byte-source contract the traversal engine requires:
// sequential reads for header/payload parsing, and random seeks to skip
// leaf payloads and to clamp the cursor on declared-size overflow. mmap is
// never required (see the concurrency/resource notes this module carries
// forward), only a seek-capable reader.
type Source interface {
	io.Reader
	io.Seeker
	io.ReaderAt
	Size() int64
}

// bounded returns an io.Reader limited to n bytes starting at the source's
// current position, handed to a leaf visitor's Data hook so it cannot read
// past its own box even if it ignores the declared size.
func bounded(s Source, n int64) io.Reader {
	return io.LimitReader(s, n)
}

// fileSource adapts an *os.File to Source. Reads go straight to the file;
// there is no read buffer in between.
type fileSource struct {
	f    *os.File
	size int64
}

// OpenFile opens path as a seek-capable Source backed by a plain, unbuffered
// *os.File.
func OpenFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "bmff: open file source")
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "bmff: stat file source")
	}
	return &fileSource{f: f, size: info.Size()}, nil
}

func (s *fileSource) Read(p []byte) (int, error)               { return s.f.Read(p) }
func (s *fileSource) Seek(off int64, whence int) (int64, error) { return s.f.Seek(off, whence) }
func (s *fileSource) ReadAt(p []byte, off int64) (int, error)   { return s.f.ReadAt(p, off) }
func (s *fileSource) Size() int64                               { return s.size }
func (s *fileSource) Close() error                              { return s.f.Close() }

// mmapSource adapts a memory-mapped golang.org/x/exp/mmap.ReaderAt, which
// offers only ReadAt, to the sequential Read/Seek shape the traversal
// engine drives. A single cursor is tracked locally and advanced by Read.
type mmapSource struct {
	r   *mmap.ReaderAt
	pos int64
}

// OpenMmap opens path as a memory-mapped Source. Useful for very large
// inputs where a buffered *os.File's page-cache copy is wasteful; every
// visitor in this module is agnostic to which backend it is handed.
func OpenMmap(path string) (Source, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "bmff: open mmap source")
	}
	return &mmapSource{r: r}, nil
}

func (s *mmapSource) Read(p []byte) (int, error) {
	n, err := s.r.ReadAt(p, s.pos)
	s.pos += int64(n)
	if err == io.EOF && n > 0 {
		return n, nil
	}
	return n, err
}

func (s *mmapSource) Seek(off int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = off
	case io.SeekCurrent:
		target = s.pos + off
	case io.SeekEnd:
		target = s.r.Len() + off
	default:
		return 0, errors.New("bmff: invalid whence")
	}
	if target < 0 {
		return 0, errors.New("bmff: negative seek position")
	}
	s.pos = target
	return s.pos, nil
}

func (s *mmapSource) ReadAt(p []byte, off int64) (int, error) { return s.r.ReadAt(p, off) }
func (s *mmapSource) Size() int64                              { return int64(s.r.Len()) }
func (s *mmapSource) Close() error                             { return s.r.Close() }
