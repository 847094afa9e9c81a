package rewrite

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEditRange is returned when an edit lies outside the buffer.
	ErrEditRange = errors.New("edit span out of range")
	// ErrEditOverlap is returned when two edits cover the same bytes.
	ErrEditOverlap = errors.New("edits overlap")
)

// Edit replaces buf[Start:End] with NewText. Offsets always refer to the
// buffer the edits were computed against, never to an edited copy.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// Apply materializes edits into a new buffer. Untouched slices of buf and the
// replacements are concatenated in ascending offset order, so every edit is
// placed by its original offsets no matter how many precede it.
func Apply(buf []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return slices.Clone(buf), nil
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int {
		return a.Start - b.Start
	})

	size := len(buf)
	prevEnd := 0

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(buf) {
			return nil, fmt.Errorf("%w: [%d:%d] in buffer of %d bytes", ErrEditRange, e.Start, e.End, len(buf))
		}

		if i > 0 && e.Start < prevEnd {
			return nil, fmt.Errorf("%w: [%d:%d] starts before %d", ErrEditOverlap, e.Start, e.End, prevEnd)
		}

		prevEnd = e.End
		size += len(e.NewText) - (e.End - e.Start)
	}

	out := make([]byte, 0, size)
	cursor := 0

	for _, e := range sorted {
		out = append(out, buf[cursor:e.Start]...)
		out = append(out, e.NewText...)
		cursor = e.End
	}

	out = append(out, buf[cursor:]...)

	return out, nil
}
