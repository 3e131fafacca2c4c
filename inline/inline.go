package inline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/vidresolve/vidresolve/icon"
	"github.com/vidresolve/vidresolve/log"
	"github.com/vidresolve/vidresolve/source"
)

// Run resolves every URL, applies the selectors and writes the output.
// It stops at the first URL that fails.
func Run(ctx context.Context, options *Options) (*Output, error) {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Err == nil {
		options.Err = os.Stderr
	}

	output := &Output{Results: make([]*Item, 0, len(options.URLs))}

	for _, rawURL := range options.URLs {
		src, err := sourceFor(options.Sources, rawURL)
		if err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{"url": rawURL, "source": src.ID()}).Info("resolving")

		result, err := src.Resolve(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", rawURL, err)
		}

		selected, err := apply(result, options)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rawURL, err)
		}

		item := &Item{
			URL:    rawURL,
			Source: src.ID(),
			Result: selected,
		}
		for _, skipped := range result.Skipped {
			item.Skipped = append(item.Skipped, skipped.Error())
			fmt.Fprintf(options.Err, "%s skipped %s\n", icon.Get(icon.Warn), skipped)
		}

		output.Results = append(output.Results, item)
	}

	if options.Json {
		return output, writeJson(options.Out, output, options.Pretty)
	}

	if options.Summary {
		return output, writeSummary(options.Out, output)
	}

	for _, u := range output.URLs() {
		if _, err := fmt.Fprintln(options.Out, u); err != nil {
			return nil, err
		}
	}

	return output, nil
}

func sourceFor(sources []source.Source, rawURL string) (source.Source, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	for _, src := range sources {
		if src.Match(u) {
			return src, nil
		}
	}

	return nil, fmt.Errorf("no source handles %s", rawURL)
}

// apply builds a filtered copy of result. The result itself is left untouched.
func apply(result *source.Result, options *Options) (*source.Result, error) {
	entries := result.Entries
	if filter, ok := options.EntriesFilter.Get(); ok {
		var err error
		entries, err = filter(entries)
		if err != nil {
			return nil, err
		}
	}
	if len(entries) == 0 {
		return nil, errors.New("entries selector matched no part")
	}

	picked := make([]*source.PlaylistEntry, len(entries))
	for i, e := range entries {
		c := *e
		if pick, ok := options.FormatPicker.Get(); ok {
			c.Formats = pick(e.Formats)
		}
		picked[i] = &c
	}

	return &source.Result{Type: result.Type, ID: result.ID, Entries: picked, Skipped: result.Skipped}, nil
}
