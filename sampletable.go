package bmff

import "encoding/binary"

// sampleTableLayout describes how to locate the stored entry count and the
// per-entry stride within one of the five repairable sample-table leaf
// payloads.
type sampleTableLayout struct {
	prefixLen   int // bytes before the u32 entry count (version+flags, plus stsz's sample_size)
	entrySize   int
	conditional bool // stsz only: entries are absent when sample_size != 0
}

var sampleTableLayouts = map[BoxType]sampleTableLayout{
	TypeStts: {prefixLen: 4, entrySize: 8},
	TypeCtts: {prefixLen: 4, entrySize: 8},
	TypeStsc: {prefixLen: 4, entrySize: 12},
	TypeStsz: {prefixLen: 8, entrySize: 4, conditional: true},
	TypeStco: {prefixLen: 4, entrySize: 4},
}

// Recoverable reports whether t is one of the five sample-table box types
// this module re-derives entry counts for.
func Recoverable(t BoxType) bool {
	_, ok := sampleTableLayouts[t]
	return ok
}

// RecoverSampleTable re-derives the entry count of a sample-table leaf
// payload from its observed length rather than trusting the stored count,
// which is frequently wrong in truncated or padded captures. It returns the
// corrected payload (preserved prefix, corrected count, entries trimmed to
// the observed whole-entry length) and whether the stored count disagreed
// with what was actually present.
//
// For stsz, entries are only present when the stored sample_size field is
// zero (variable sample sizes); a nonzero sample_size means every sample
// shares that size and no per-sample table follows, so the count is left
// untouched.
func RecoverSampleTable(t BoxType, payload []byte) ([]byte, bool, error) {
	layout, ok := sampleTableLayouts[t]
	if !ok {
		return payload, false, errNotRecoverable(t)
	}
	if len(payload) < layout.prefixLen+4 {
		return payload, false, ErrUnexpectedEOF
	}

	if layout.conditional {
		sampleSize := binary.BigEndian.Uint32(payload[4:8])
		if sampleSize != 0 {
			return payload, false, nil
		}
	}

	countOff := layout.prefixLen
	stored := binary.BigEndian.Uint32(payload[countOff : countOff+4])

	entriesStart := countOff + 4
	available := len(payload) - entriesStart
	observed := uint32(available / layout.entrySize)

	out := make([]byte, entriesStart+int(observed)*layout.entrySize)
	copy(out[:countOff], payload[:countOff])
	binary.BigEndian.PutUint32(out[countOff:countOff+4], observed)
	copy(out[entriesStart:], payload[entriesStart:entriesStart+int(observed)*layout.entrySize])

	if observed != stored {
		Log.Warn().
			Str("box", t.String()).
			Uint32("stored_count", stored).
			Uint32("observed_count", observed).
			Msg("sample-table entry count disagreed with observed payload length, correcting")
		return out, true, nil
	}
	return out, false, nil
}

func errNotRecoverable(t BoxType) error {
	return &notRecoverableError{t: t}
}

type notRecoverableError struct{ t BoxType }

func (e *notRecoverableError) Error() string {
	return "bmff: " + e.t.String() + " is not a recoverable sample-table box"
}
