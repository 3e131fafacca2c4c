package sohu

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"
	"github.com/vidresolve/vidresolve/network"
	"github.com/vidresolve/vidresolve/source"
)

const (
	UserChannelEndpoint = "http://my.tv.sohu.com/play/videonew.do?vid="
	GeneralEndpoint     = "http://hot.vrs.sohu.com/vrs_flash.action?vid="

	// ProxyHeader asks the backend to route the lookup through a mainland proxy.
	ProxyHeader = "Ytdl-request-proxy"
)

// MetadataClient fetches per-format metadata from the backend.
type MetadataClient struct {
	Fetcher network.Fetcher

	// Proxy is sent as ProxyHeader on every metadata request when present.
	Proxy mo.Option[string]

	UserChannelEndpoint string
	GeneralEndpoint     string
}

// NewMetadataClient returns a client for the production endpoints.
func NewMetadataClient(fetcher network.Fetcher, proxy mo.Option[string]) *MetadataClient {
	return &MetadataClient{
		Fetcher:             fetcher,
		Proxy:               proxy,
		UserChannelEndpoint: UserChannelEndpoint,
		GeneralEndpoint:     GeneralEndpoint,
	}
}

func (c *MetadataClient) endpoint(internalID string, userChannel bool) string {
	if userChannel {
		return c.UserChannelEndpoint + internalID
	}
	return c.GeneralEndpoint + internalID
}

// Fetch downloads and hydrates the metadata of one backend id.
// The returned metadata has no tag; discovery assigns it.
func (c *MetadataClient) Fetch(ctx context.Context, internalID string, userChannel bool) (*source.FormatMetadata, error) {
	const op = "fetch metadata"

	var headers http.Header
	if proxy, ok := c.Proxy.Get(); ok && proxy != "" {
		headers = http.Header{}
		headers.Set(ProxyHeader, proxy)
	}

	doc, status, err := c.Fetcher.FetchJSON(ctx, c.endpoint(internalID, userChannel), headers)
	if err != nil && !errors.Is(err, network.ErrInvalidJSON) {
		return nil, source.NewError(source.ErrBackendUnavailable, op, internalID, err)
	}
	if status < 200 || status > 299 {
		return nil, source.NewError(source.ErrBackendUnavailable, op, internalID, errStatus(status))
	}
	if err != nil {
		return nil, source.NewError(source.ErrMalformedResponse, op, internalID, err)
	}

	return hydrate(doc, internalID)
}

// hydrate maps the backend object onto FormatMetadata.
// allot and prot live at the top level, everything else under data.
func hydrate(doc gjson.Result, internalID string) (*source.FormatMetadata, error) {
	const op = "hydrate metadata"

	malformed := func(err error) error {
		return source.NewError(source.ErrMalformedResponse, op, internalID, err)
	}

	if !doc.IsObject() {
		return nil, malformed(errors.New("body is not an object"))
	}

	data := doc.Get("data")
	switch {
	case !data.Exists():
		return nil, malformed(errors.New("missing data field"))
	case data.Type == gjson.Null:
		return nil, source.NewError(source.ErrBackendUnavailable, op, internalID, errors.New("data is null"))
	case !data.IsObject():
		return nil, malformed(errors.New("data is not an object"))
	}

	allot := doc.Get("allot").String()
	if allot == "" {
		return nil, malformed(errors.New("missing allot"))
	}

	clips, err := array(data, "clipsURL")
	if err != nil {
		return nil, malformed(err)
	}
	keys, err := array(data, "su")
	if err != nil {
		return nil, malformed(err)
	}
	sizes, err := array(data, "clipsBytes")
	if err != nil {
		return nil, malformed(err)
	}
	durations, err := array(data, "clipsDuration")
	if err != nil {
		return nil, malformed(err)
	}

	meta := &source.FormatMetadata{
		ID:               internalID,
		DistributionHost: allot,
		ProtocolToken:    doc.Get("prot").String(),
		ClipPaths:        make([]string, len(clips)),
		KeyTokens:        make([]string, len(keys)),
		ClipBytes:        make([]int64, len(sizes)),
		ClipDurations:    make([]float64, len(durations)),
		Width:            int(data.Get("width").Int()),
		Height:           int(data.Get("height").Int()),
		FrameRate:        data.Get("fps").Float(),
		TotalSegments:    int(data.Get("totalBlocks").Int()),
		Raw:              data,
	}

	for i, v := range clips {
		meta.ClipPaths[i] = v.String()
	}
	for i, v := range keys {
		meta.KeyTokens[i] = v.String()
	}
	for i, v := range sizes {
		meta.ClipBytes[i] = v.Int()
	}
	for i, v := range durations {
		meta.ClipDurations[i] = v.Float()
	}

	if err := meta.Validate(); err != nil {
		return nil, malformed(err)
	}

	return meta, nil
}

func array(data gjson.Result, name string) ([]gjson.Result, error) {
	v := data.Get(name)
	if !v.IsArray() {
		return nil, fmt.Errorf("%s is not an array", name)
	}
	return v.Array(), nil
}
