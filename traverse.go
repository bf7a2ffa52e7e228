package bmff

import (
	"io"

	"github.com/pkg/errors"
)

// Visitor is the SAX-style callback contract Traverse drives. Default
// (embed BaseVisitor) implementations are no-ops; a visitor implements
// only the hooks it cares about. All three may return an error, which
// Traverse propagates immediately without attempting recovery.
type Visitor interface {
	// StartBox is called once per box, header-only, before any payload or
	// descendant is visited. correctedSize is non-nil when the declared
	// size overflowed the parent container and was clamped.
	StartBox(header BoxHeader, correctedSize *uint64) error

	// Data is called at most once per leaf box, with a reader bounded to
	// exactly that box's content length. Never called for container boxes.
	Data(r io.Reader) error

	// EndBox is called after leaf data or recursive descent completes; it
	// pairs with StartBox in strict LIFO order unless Traverse aborts with
	// an error first.
	EndBox(name BoxType) error
}

// BaseVisitor supplies no-op defaults for all three Visitor methods so a
// concrete visitor can embed it and override only what it needs.
type BaseVisitor struct{}

func (BaseVisitor) StartBox(BoxHeader, *uint64) error { return nil }
func (BaseVisitor) Data(io.Reader) error              { return nil }
func (BaseVisitor) EndBox(BoxType) error              { return nil }

// traverseOptions holds Traverse's functional-option state.
type traverseOptions struct {
	skipFreePayload bool
}

// TraverseOption tunes Traverse's behavior; see WithFreeBoxSkipped.
type TraverseOption func(*traverseOptions)

// WithFreeBoxSkipped requests that free boxes be seeked over directly,
// without a Data call, when a visitor has no interest in their (always
// meaningless) payload. Disabled by default: a plain Traverse call always
// invokes Data for free like any other leaf, matching the traversal this
// engine was grounded on.
func WithFreeBoxSkipped() TraverseOption {
	return func(o *traverseOptions) { o.skipFreePayload = true }
}

// Traverse walks the box tree from source, starting at the stream's
// current position and continuing while that position is less than
// parentEnd, invoking visitor at each box boundary. parentEnd is the
// absolute byte offset where the enclosing container's content ends (the
// file's size, for a top-level call).
//
// On successful completion source is positioned at parentEnd. A box name
// that fails BoxType.Valid at the current level causes a local skip: a
// warning is logged, the source is seeked to parentEnd, and Traverse
// returns successfully — aborting only the current level, not any caller
// higher up the recursion.
func Traverse(source Source, parentEnd int64, visitor Visitor, opts ...TraverseOption) error {
	var o traverseOptions
	for _, opt := range opts {
		opt(&o)
	}
	return traverse(source, parentEnd, visitor, &o)
}

func traverse(source Source, parentEnd int64, visitor Visitor, o *traverseOptions) error {
	for {
		current, err := source.Seek(0, io.SeekCurrent)
		if err != nil {
			return errors.Wrap(err, "bmff: query position")
		}
		if current >= parentEnd {
			return nil
		}

		header, err := ReadBoxHeader(source)
		if err != nil {
			return err
		}

		if !header.Name.Valid() {
			Log.Warn().
				Int64("offset", current).
				Str("box", header.Name.String()).
				Msg("invalid box name, skipping remainder of container")
			if _, err := source.Seek(parentEnd, io.SeekStart); err != nil {
				return errors.Wrap(err, "bmff: seek past invalid header")
			}
			return nil
		}

		contentStart := current + headerLen(header)
		var declaredEnd int64
		if header.Size == 0 {
			// "extends to end of container" sentinel: legal only for the
			// final top-level box, but honored at whatever level it
			// appears in since the engine has no notion of "top level"
			// here — the caller supplies parentEnd for the outermost
			// call.
			declaredEnd = parentEnd
		} else {
			declaredEnd = current + int64(header.Size)
		}

		var correctedSize *uint64
		boxEnd := declaredEnd
		if declaredEnd > parentEnd {
			overflow := uint64(declaredEnd - parentEnd)
			Log.Error().
				Int64("offset", current).
				Str("box", header.Name.String()).
				Uint64("overflow", overflow).
				Msg("declared box size overflows container, clamping")
			boxEnd = parentEnd
			cs := uint64(boxEnd - current)
			correctedSize = &cs
		}

		if err := visitor.StartBox(header, correctedSize); err != nil {
			return err
		}

		if IsContainer(header.Name) {
			if _, err := source.Seek(contentStart, io.SeekStart); err != nil {
				return errors.Wrap(err, "bmff: seek to container content")
			}
			if err := traverse(source, boxEnd, visitor, o); err != nil {
				return err
			}
		} else {
			if header.Name == TypeFree && o.skipFreePayload {
				if _, err := source.Seek(boxEnd, io.SeekStart); err != nil {
					return errors.Wrap(err, "bmff: seek past skipped free box")
				}
			} else {
				if _, err := source.Seek(contentStart, io.SeekStart); err != nil {
					return errors.Wrap(err, "bmff: seek to leaf content")
				}
				sub := bounded(source, boxEnd-contentStart)
				if err := visitor.Data(sub); err != nil {
					return err
				}
				if _, err := source.Seek(boxEnd, io.SeekStart); err != nil {
					return errors.Wrap(err, "bmff: seek past leaf content")
				}
			}
		}

		if err := visitor.EndBox(header.Name); err != nil {
			return err
		}
	}
}

// headerLen returns the on-disk header length implied by header.LongSize:
// 16 bytes for the largesize encoding, 8 otherwise.
func headerLen(header BoxHeader) int64 {
	if header.LongSize {
		return 16
	}
	return 8
}
