package sohu

import (
	"context"
	"errors"
	"fmt"

	"github.com/vidresolve/vidresolve/log"
	"github.com/vidresolve/vidresolve/source"
	"golang.org/x/sync/errgroup"
)

// Discovery collects the metadata of every format advertised by a root response.
type Discovery struct {
	Client  *MetadataClient
	Workers int
	Strict  bool

	// Skipped holds the sibling failures dropped by the last lenient Discover.
	Skipped []error
}

// Discover maps each advertised format tag to its metadata.
//
// Tags whose id equals internalID reuse root. When no tag claims the root and
// the nor slot is free, the root is registered as nor, so a video that
// advertises no sibling ids still yields one format.
func (d *Discovery) Discover(ctx context.Context, root *source.FormatMetadata, internalID string, userChannel bool) (map[source.FormatTag]*source.FormatMetadata, error) {
	type sibling struct {
		tag source.FormatTag
		id  string
	}

	formats := make(map[source.FormatTag]*source.FormatMetadata)
	var siblings []sibling
	rootClaimed := false

	for _, tag := range source.AllFormatTags() {
		id, ok := root.SiblingID(tag)
		if !ok {
			continue
		}

		if id == internalID {
			formats[tag] = withTag(root, tag)
			rootClaimed = true
			continue
		}

		siblings = append(siblings, sibling{tag: tag, id: id})
	}

	fetched := make([]*source.FormatMetadata, len(siblings))
	failed := make([]error, len(siblings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(d.Workers))

	for i, s := range siblings {
		g.Go(func() error {
			meta, err := d.fetchSibling(gctx, root, s.tag, s.id, userChannel)
			if err == nil {
				fetched[i] = meta
				return nil
			}

			if d.Strict {
				return err
			}

			log.WithFields(log.Fields{
				"vid":    s.id,
				"format": s.tag.String(),
			}).WithError(err).Warn("skipping format")
			failed[i] = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.Skipped = nil
	for i, s := range siblings {
		if fetched[i] != nil {
			formats[s.tag] = fetched[i]
		}
		if failed[i] != nil {
			d.Skipped = append(d.Skipped, failed[i])
		}
	}

	if _, taken := formats[source.FormatNormal]; !rootClaimed && !taken {
		formats[source.FormatNormal] = withTag(root, source.FormatNormal)
	}

	return formats, nil
}

func (d *Discovery) fetchSibling(ctx context.Context, root *source.FormatMetadata, tag source.FormatTag, id string, userChannel bool) (*source.FormatMetadata, error) {
	meta, err := d.Client.Fetch(ctx, id, userChannel)
	if err != nil {
		var e *source.Error
		if errors.As(err, &e) {
			return nil, e.WithFormat(tag, -1)
		}
		return nil, err
	}

	if meta.TotalSegments != root.TotalSegments {
		e := source.NewError(source.ErrMalformedResponse, "discover formats", id,
			fmt.Errorf("totalBlocks is %d, root reports %d", meta.TotalSegments, root.TotalSegments))
		return nil, e.WithFormat(tag, -1)
	}

	return withTag(meta, tag), nil
}

// withTag returns a shallow copy bound to tag. The per-segment slices stay shared and are never written.
func withTag(meta *source.FormatMetadata, tag source.FormatTag) *source.FormatMetadata {
	c := *meta
	c.Tag = tag
	return &c
}

func workerLimit(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
