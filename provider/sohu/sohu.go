// Package sohu resolves tv.sohu.com and my.tv.sohu.com video pages.
package sohu

import (
	"context"
	"net/url"
	"strings"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vidresolve/vidresolve/key"
	"github.com/vidresolve/vidresolve/log"
	"github.com/vidresolve/vidresolve/network"
	"github.com/vidresolve/vidresolve/source"
)

const (
	ID   = "sohu"
	Name = "Sohu TV"
)

// Hosts lists the page hosts this source understands.
var Hosts = []string{"tv.sohu.com", "my.tv.sohu.com"}

// Options configures one Source.
type Options struct {
	// Proxy is forwarded to the metadata backend only.
	Proxy   mo.Option[string]
	Strict  bool
	Workers int
}

// OptionsFromConfig reads the proxy and resolution settings.
func OptionsFromConfig() Options {
	return Options{
		Proxy:   mo.EmptyableToOption(strings.TrimSpace(viper.GetString(key.ProxyCNVerification))),
		Strict:  viper.GetBool(key.ResolveStrict),
		Workers: viper.GetInt(key.ResolveWorkers),
	}
}

// Source implements source.Source for Sohu TV.
type Source struct {
	fetcher network.Fetcher
	options Options

	// Endpoint overrides, empty means production.
	UserChannelEndpoint string
	GeneralEndpoint     string
}

// New returns a Source that performs every request through fetcher.
func New(fetcher network.Fetcher, options Options) *Source {
	return &Source{
		fetcher: fetcher,
		options: options,
	}
}

func (*Source) Name() string { return Name }

func (*Source) ID() string { return ID }

// Match reports whether u points at a Sohu TV host.
func (*Source) Match(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	for _, h := range Hosts {
		if host == h {
			return true
		}
	}
	return false
}

func (s *Source) metadataClient() *MetadataClient {
	c := NewMetadataClient(s.fetcher, s.options.Proxy)
	if s.UserChannelEndpoint != "" {
		c.UserChannelEndpoint = s.UserChannelEndpoint
	}
	if s.GeneralEndpoint != "" {
		c.GeneralEndpoint = s.GeneralEndpoint
	}
	return c
}

// Resolve turns a page URL into a single entry or a playlist of clips.
func (s *Source) Resolve(ctx context.Context, rawURL string) (*source.Result, error) {
	ref, err := ParseRef(rawURL)
	if err != nil {
		return nil, err
	}

	status, page, err := s.fetcher.FetchText(ctx, rawURL, nil)
	if err != nil {
		return nil, source.NewError(source.ErrTransport, "download page", ref.PageID, err)
	}
	if status < 200 || status > 299 {
		return nil, source.NewError(source.ErrBackendUnavailable, "download page", ref.PageID, errStatus(status))
	}

	title, err := ExtractTitle(page)
	if err != nil {
		return nil, withPageID(err, ref.PageID)
	}

	internalID, err := ExtractInternalID(page)
	if err != nil {
		return nil, withPageID(err, ref.PageID)
	}
	ref = ref.WithInternalID(internalID)

	logger := log.WithFields(log.Fields{"page": ref.PageID, "vid": ref.InternalID})
	logger.Debug("resolving")

	client := s.metadataClient()
	root, err := client.Fetch(ctx, ref.InternalID, ref.UserChannel)
	if err != nil {
		return nil, err
	}

	discovery := &Discovery{Client: client, Workers: s.options.Workers, Strict: s.options.Strict}
	formats, err := discovery.Discover(ctx, root, ref.InternalID, ref.UserChannel)
	if err != nil {
		return nil, err
	}
	logger.WithField("formats", len(formats)).WithField("parts", root.TotalSegments).Debug("formats discovered")

	assembler := &Assembler{
		Resolver: &ClipResolver{Fetcher: s.fetcher},
		Workers:  s.options.Workers,
		Strict:   s.options.Strict,
	}
	result, err := assembler.Assemble(ctx, ref, title, root, formats)
	if err != nil {
		return nil, err
	}

	result.Skipped = append(discovery.Skipped, result.Skipped...)
	return result, nil
}

func withPageID(err error, pageID string) error {
	if e, ok := err.(*source.Error); ok && e.VideoID == "" {
		c := *e
		c.VideoID = pageID
		return &c
	}
	return err
}
