package sohu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"
	"github.com/vidresolve/vidresolve/network"
	"github.com/vidresolve/vidresolve/source"
)

const (
	testGeneralEndpoint     = "http://meta.test/general?vid="
	testUserChannelEndpoint = "http://meta.test/mytv?vid="
	testAllot               = "allot.test:80"
	testPrefix              = "http://cdn.test/"
)

var noProxy = mo.None[string]()

// video describes one backend id served by the fake backend.
type video struct {
	name   string
	blocks int
	width  int
	height int
	fps    float64
	vids   map[string]any
}

func (v video) json() string {
	clips := make([]string, v.blocks)
	keys := make([]string, v.blocks)
	sizes := make([]int64, v.blocks)
	durations := make([]float64, v.blocks)
	for i := 0; i < v.blocks; i++ {
		clips[i] = fmt.Sprintf("/clip/%s/%d.mp4", v.name, i)
		keys[i] = fmt.Sprintf("/su-%s-%d", v.name, i)
		sizes[i] = int64(1000 * (i + 1))
		durations[i] = float64(10 * (i + 1))
	}

	data := map[string]any{
		"totalBlocks":   v.blocks,
		"clipsURL":      clips,
		"su":            keys,
		"clipsBytes":    sizes,
		"clipsDuration": durations,
		"width":         v.width,
		"height":        v.height,
		"fps":           v.fps,
	}
	for k, id := range v.vids {
		data[k] = id
	}

	b, _ := json.Marshal(map[string]any{
		"allot": testAllot,
		"prot":  9,
		"data":  data,
	})
	return string(b)
}

type request struct {
	url    string
	header http.Header
}

// backend is an in-memory Fetcher standing in for the page host, the metadata
// service and the key exchange service.
type backend struct {
	mu       sync.Mutex
	pages    map[string]string
	metadata map[string]string
	down     map[string]bool
	badClips map[string]bool
	requests []request
}

var _ network.Fetcher = (*backend)(nil)

func newBackend() *backend {
	return &backend{
		pages:    make(map[string]string),
		metadata: make(map[string]string),
		down:     make(map[string]bool),
		badClips: make(map[string]bool),
	}
}

func (b *backend) serve(id string, v video) {
	b.metadata[id] = v.json()
}

func (b *backend) FetchText(_ context.Context, rawURL string, headers http.Header) (int, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, request{url: rawURL, header: headers.Clone()})

	for _, endpoint := range []string{testGeneralEndpoint, testUserChannelEndpoint} {
		if id, ok := strings.CutPrefix(rawURL, endpoint); ok {
			if b.down[id] {
				return 0, "", fmt.Errorf("%w: connection reset", source.ErrTransport)
			}
			body, ok := b.metadata[id]
			if !ok {
				return http.StatusNotFound, "not found", nil
			}
			return http.StatusOK, body, nil
		}
	}

	if strings.HasPrefix(rawURL, "http://"+testAllot+"/?prot=") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %w", source.ErrTransport, err)
		}
		file := u.Query().Get("file")
		if b.badClips[file] {
			return http.StatusOK, "only|two", nil
		}
		return http.StatusOK, fmt.Sprintf("%s|0|0|key%s", testPrefix, strings.ReplaceAll(file, "/", "-")), nil
	}

	if page, ok := b.pages[rawURL]; ok {
		return http.StatusOK, page, nil
	}
	return http.StatusNotFound, "", nil
}

func (b *backend) FetchJSON(ctx context.Context, rawURL string, headers http.Header) (gjson.Result, int, error) {
	status, body, err := b.FetchText(ctx, rawURL, headers)
	if err != nil {
		return gjson.Result{}, status, err
	}
	if !gjson.Valid(body) {
		return gjson.Result{}, status, network.ErrInvalidJSON
	}
	return gjson.Parse(body), status, nil
}

func (b *backend) requestsTo(prefix string) []request {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []request
	for _, r := range b.requests {
		if strings.HasPrefix(r.url, prefix) {
			out = append(out, r)
		}
	}
	return out
}

func (b *backend) testClient() *MetadataClient {
	c := NewMetadataClient(b, noProxy)
	c.GeneralEndpoint = testGeneralEndpoint
	c.UserChannelEndpoint = testUserChannelEndpoint
	return c
}

func page(title, vid string) string {
	return fmt.Sprintf("<html>\n<head>\n<title>%s</title>\n</head>\n<script>var vid = \"%s\";</script>\n</html>", title, vid)
}
