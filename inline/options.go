// Package inline implements the non-interactive resolve mode: resolve page URLs, filter and print the results.
package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidresolve/vidresolve/source"
	"github.com/vidresolve/vidresolve/util"
)

type (
	EntriesFilter func([]*source.PlaylistEntry) ([]*source.PlaylistEntry, error)
	FormatPicker  func([]*source.SegmentFormat) []*source.SegmentFormat
)

type Options struct {
	Out io.Writer
	// Err receives a warning for every format a lenient resolution dropped.
	Err     io.Writer
	Sources []source.Source
	URLs    []string
	Json    bool
	// Summary prints a human-readable listing instead of bare URLs.
	Summary bool
	// Pretty indents JSON output.
	Pretty        bool
	EntriesFilter mo.Option[EntriesFilter]
	FormatPicker  mo.Option[FormatPicker]
}

// ParseFormatPicker understands best, worst, all and any format tag.
func ParseFormatPicker(description string) (FormatPicker, error) {
	switch description {
	case "best":
		return func(formats []*source.SegmentFormat) []*source.SegmentFormat {
			return lo.Subset(formats, 0, 1)
		}, nil
	case "worst":
		return func(formats []*source.SegmentFormat) []*source.SegmentFormat {
			return lo.Subset(formats, -1, 1)
		}, nil
	case "all":
		return func(formats []*source.SegmentFormat) []*source.SegmentFormat {
			return formats
		}, nil
	}

	tag, err := source.ParseFormatTag(description)
	if err != nil {
		return nil, fmt.Errorf("invalid format selector: %s", description)
	}

	return func(formats []*source.SegmentFormat) []*source.SegmentFormat {
		return lo.Filter(formats, func(f *source.SegmentFormat, _ int) bool {
			return f.FormatID == tag
		})
	}, nil
}

// ParseEntriesFilter parses an entry selector.
// Format: "first", "last", "all", "3", "1-5", "@part2@". Indices start from 0.
func ParseEntriesFilter(description string) (EntriesFilter, error) {
	switch description {
	case "first":
		return func(entries []*source.PlaylistEntry) ([]*source.PlaylistEntry, error) {
			return lo.Subset(entries, 0, 1), nil
		}, nil
	case "last":
		return func(entries []*source.PlaylistEntry) ([]*source.PlaylistEntry, error) {
			return lo.Subset(entries, -1, 1), nil
		}, nil
	case "all":
		return func(entries []*source.PlaylistEntry) ([]*source.PlaylistEntry, error) {
			return entries, nil
		}, nil
	}

	// Range: "1-5"
	if a, b, ok := strings.Cut(description, "-"); ok {
		from, err1 := strconv.ParseUint(a, 10, 16)
		to, err2 := strconv.ParseUint(b, 10, 16)
		if err1 == nil && err2 == nil {
			return func(entries []*source.PlaylistEntry) ([]*source.PlaylistEntry, error) {
				start := util.Min(from, uint64(len(entries)))
				end := util.Min(to+1, uint64(len(entries)))
				if start > end {
					return []*source.PlaylistEntry{}, nil
				}
				return entries[start:end], nil
			}, nil
		}
	}

	// Substring of the entry id: "@text@"
	if len(description) > 1 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(entries []*source.PlaylistEntry) ([]*source.PlaylistEntry, error) {
			return lo.Filter(entries, func(e *source.PlaylistEntry, _ int) bool {
				return strings.Contains(strings.ToLower(e.ID), sub)
			}), nil
		}, nil
	}

	// Single index: "5"
	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(entries []*source.PlaylistEntry) ([]*source.PlaylistEntry, error) {
			if uint64(len(entries)) <= idx {
				return []*source.PlaylistEntry{}, nil
			}
			return []*source.PlaylistEntry{entries[idx]}, nil
		}, nil
	}

	return nil, fmt.Errorf("invalid entries selector: %s", description)
}
