package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"github.com/vidresolve/vidresolve/source"
)

// ErrInvalidJSON is returned by FetchJSON when the body is not a JSON document.
var ErrInvalidJSON = errors.New("response body is not valid JSON")

// Fetcher performs GET requests on behalf of a source.
//
// Transport failures are returned wrapped in source.ErrTransport.
// Any HTTP status is a successful fetch; classifying it is up to the caller.
type Fetcher interface {
	FetchText(ctx context.Context, url string, headers http.Header) (status int, body string, err error)
	FetchJSON(ctx context.Context, url string, headers http.Header) (doc gjson.Result, status int, err error)
}

// HTTPFetcher is the production Fetcher.
type HTTPFetcher struct {
	client    *retryablehttp.Client
	userAgent string
}

// FetchText returns the status and the full body of url.
func (f *HTTPFetcher) FetchText(ctx context.Context, url string, headers http.Header) (int, string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("%w: build request: %w", source.ErrTransport, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")
	for name, values := range headers {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", source.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("%w: read body: %w", source.ErrTransport, err)
	}

	return resp.StatusCode, string(body), nil
}

// FetchJSON is FetchText followed by a validity check of the body.
// The status is reported even when the body is not JSON.
func (f *HTTPFetcher) FetchJSON(ctx context.Context, url string, headers http.Header) (gjson.Result, int, error) {
	status, body, err := f.FetchText(ctx, url, headers)
	if err != nil {
		return gjson.Result{}, status, err
	}

	if !gjson.Valid(body) {
		return gjson.Result{}, status, ErrInvalidJSON
	}

	return gjson.Parse(body), status, nil
}
