// Package network provides the shared HTTP fetcher used by every source.
package network

import (
	"net/http"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/viper"
	"github.com/vidresolve/vidresolve/constant"
	"github.com/vidresolve/vidresolve/key"
	"golang.org/x/time/rate"
)

// Options tunes the fetcher built by New.
type Options struct {
	// Timeout bounds a single attempt, including reading the body.
	Timeout time.Duration
	// Retries is the number of extra attempts after a transport failure or a 5xx status.
	Retries int
	// RateLimit caps requests per second. Zero means unlimited.
	RateLimit float64
	// TLSFingerprint routes HTTPS through a Chrome fingerprinted TLS stack.
	TLSFingerprint bool
	// UserAgent is sent unless a request sets its own.
	UserAgent string
}

// OptionsFromConfig reads the network section of the configuration.
func OptionsFromConfig() Options {
	return Options{
		Timeout:        time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second,
		Retries:        viper.GetInt(key.NetworkRetries),
		RateLimit:      viper.GetFloat64(key.NetworkRateLimit),
		TLSFingerprint: viper.GetBool(key.NetworkTLSFingerprint),
		UserAgent:      constant.UserAgent,
	}
}

// New builds an HTTPFetcher with pooled connections, retries and an optional rate limit.
func New(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.UserAgent == "" {
		opts.UserAgent = constant.UserAgent
	}

	var transport http.RoundTripper = newTransport()
	if opts.TLSFingerprint {
		transport = newFingerprintTransport(transport, opts.Timeout)
	}
	transport = &limitedTransport{
		next:    transport,
		limiter: newLimiter(opts.RateLimit),
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}
	client.RetryMax = opts.Retries
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = retryLogger{}
	// Hand the last response back untouched so callers can classify the status themselves.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPFetcher{
		client:    client,
		userAgent: opts.UserAgent,
	}
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// limitedTransport waits for the limiter before every attempt, retries included.
type limitedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
