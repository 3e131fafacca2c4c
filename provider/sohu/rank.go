package sohu

import (
	"cmp"

	"github.com/vidresolve/vidresolve/source"
	"golang.org/x/exp/slices"
)

// Rank orders formats best-first in place: larger frame area, then higher
// frame rate, then tag priority. Equal formats keep their input order.
func Rank(formats []*source.SegmentFormat) {
	slices.SortStableFunc(formats, func(a, b *source.SegmentFormat) int {
		if c := cmp.Compare(b.Resolution(), a.Resolution()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.FPS, a.FPS); c != 0 {
			return c
		}
		return cmp.Compare(b.FormatID.Priority(), a.FormatID.Priority())
	})
}
