package sohu

import (
	"context"
	"errors"
	"fmt"

	"github.com/vidresolve/vidresolve/log"
	"github.com/vidresolve/vidresolve/source"
	"golang.org/x/sync/errgroup"
)

// Assembler resolves every (segment, format) pair and groups the results per segment.
type Assembler struct {
	Resolver *ClipResolver
	Workers  int
	Strict   bool
}

// Assemble builds the result for ref. The segment count comes from root.
// A single segment yields a bare entry carrying the page id, more yield a playlist.
func (a *Assembler) Assemble(ctx context.Context, ref source.VideoRef, title string, root *source.FormatMetadata, formats map[source.FormatTag]*source.FormatMetadata) (*source.Result, error) {
	segments := root.TotalSegments
	if segments < 1 || len(root.ClipDurations) < segments {
		return nil, source.NewError(source.ErrMalformedResponse, "assemble", ref.InternalID,
			fmt.Errorf("root reports %d segments with %d durations", segments, len(root.ClipDurations)))
	}

	var tags []source.FormatTag
	for _, tag := range source.AllFormatTags() {
		if _, ok := formats[tag]; ok {
			tags = append(tags, tag)
		}
	}

	// slots[segment][tag index], filled concurrently and read after Wait
	slots := make([][]*source.SegmentFormat, segments)
	failed := make([][]error, segments)
	for i := range slots {
		slots[i] = make([]*source.SegmentFormat, len(tags))
		failed[i] = make([]error, len(tags))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(a.Workers))

	for segment := 0; segment < segments; segment++ {
		for t, tag := range tags {
			meta := formats[tag]
			g.Go(func() error {
				f, err := a.Resolver.Resolve(gctx, meta, segment)
				if err == nil {
					slots[segment][t] = f
					return nil
				}

				if a.Strict {
					return err
				}

				log.WithFields(log.Fields{
					"vid":    meta.ID,
					"format": tag.String(),
					"part":   segment + 1,
				}).WithError(err).Warn("skipping clip format")
				failed[segment][t] = err
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var skipped []error
	entries := make([]*source.PlaylistEntry, segments)
	for segment, slot := range slots {
		for _, err := range failed[segment] {
			if err != nil {
				skipped = append(skipped, err)
			}
		}

		var resolved []*source.SegmentFormat
		for _, f := range slot {
			if f != nil {
				resolved = append(resolved, f)
			}
		}

		if len(resolved) == 0 {
			e := source.NewError(source.ErrBackendUnavailable, "assemble", ref.InternalID, errors.New("no format could be resolved"))
			e.Segment = segment
			return nil, e
		}

		Rank(resolved)
		entries[segment] = &source.PlaylistEntry{
			ID:       fmt.Sprintf("%s_part%d", ref.PageID, segment+1),
			Title:    title,
			Duration: root.ClipDurations[segment],
			Formats:  resolved,
		}
	}

	result := source.Playlist(ref.PageID, entries)
	if len(entries) == 1 {
		result = source.Single(ref.PageID, entries[0])
	}
	result.Skipped = skipped
	return result, nil
}
