package sohu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vidresolve/vidresolve/network"
	"github.com/vidresolve/vidresolve/source"
)

// ClipResolver performs the key exchange that turns a clip path into a signed media URL.
type ClipResolver struct {
	Fetcher network.Fetcher
}

// KeyExchangeURL is the distribution host request for one segment of a format.
func KeyExchangeURL(meta *source.FormatMetadata, index int) string {
	return fmt.Sprintf("http://%s/?prot=%s&file=%s&new=%s",
		meta.DistributionHost, meta.ProtocolToken, meta.ClipPaths[index], meta.KeyTokens[index])
}

// BuildClipURL joins the signed prefix with the key token.
// A leading slash on the token is dropped when the prefix already ends with one.
func BuildClipURL(prefix, keyToken, signingKey string) string {
	if strings.HasSuffix(prefix, "/") && strings.HasPrefix(keyToken, "/") {
		keyToken = keyToken[1:]
	}
	return prefix + keyToken + "?key=" + signingKey
}

// Resolve exchanges segment index of meta for a playable format.
// Requests never carry the metadata proxy header.
func (r *ClipResolver) Resolve(ctx context.Context, meta *source.FormatMetadata, index int) (*source.SegmentFormat, error) {
	const op = "resolve clip"

	fail := func(kind error, err error) error {
		return source.NewError(kind, op, meta.ID, err).WithFormat(meta.Tag, index)
	}

	if index < 0 || index >= len(meta.ClipPaths) || index >= len(meta.KeyTokens) || index >= len(meta.ClipBytes) {
		return nil, fail(source.ErrMalformedResponse, fmt.Errorf("no clip %d of %d", index+1, len(meta.ClipPaths)))
	}

	status, body, err := r.Fetcher.FetchText(ctx, KeyExchangeURL(meta, index), nil)
	if err != nil {
		return nil, fail(source.ErrTransport, err)
	}
	if status < 200 || status > 299 {
		return nil, fail(source.ErrBackendUnavailable, errStatus(status))
	}

	fields := strings.Split(strings.TrimSpace(body), "|")
	if len(fields) < 4 {
		return nil, fail(source.ErrMalformedResponse, fmt.Errorf("key exchange returned %d fields, want at least 4", len(fields)))
	}

	prefix, signingKey := fields[0], fields[3]
	if prefix == "" {
		return nil, fail(source.ErrMalformedResponse, errors.New("key exchange returned an empty url prefix"))
	}

	return &source.SegmentFormat{
		FormatID: meta.Tag,
		URL:      BuildClipURL(prefix, meta.KeyTokens[index], signingKey),
		Filesize: meta.ClipBytes[index],
		Width:    meta.Width,
		Height:   meta.Height,
		FPS:      meta.FrameRate,
	}, nil
}
