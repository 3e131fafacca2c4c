package inline

import (
	"encoding/json"
	"io"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/vidresolve/vidresolve/source"
)

type Item struct {
	// URL is the page that was resolved.
	URL string `json:"url"`
	// Source is the id of the provider that resolved it.
	Source string `json:"source"`
	// Result is a single entry or a playlist.
	Result *source.Result `json:"result"`
	// Skipped describes every format dropped in lenient mode.
	Skipped []string `json:"skipped,omitempty"`
}

type Output struct {
	Results []*Item `json:"results"`
}

// URLs lists every media URL of the output in order.
func (o *Output) URLs() []string {
	var urls []string
	for _, item := range o.Results {
		for _, entry := range item.Result.Entries {
			for _, f := range entry.Formats {
				urls = append(urls, f.URL)
			}
		}
	}
	return urls
}

func writeJson(w io.Writer, output *Output, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(output)
}

// Schema describes Output. A result is either a bare entry or a playlist.
func Schema() *jsonschema.Schema {
	inner := &jsonschema.Reflector{Anonymous: true, DoNotReference: true}

	resultType := reflect.TypeOf(source.Result{})
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t != resultType {
				return nil
			}

			entry := inner.Reflect(&source.PlaylistEntry{})
			playlist := inner.Reflect(&source.PlaylistView{})
			entry.Version, playlist.Version = "", ""
			return &jsonschema.Schema{OneOf: []*jsonschema.Schema{entry, playlist}}
		},
	}

	return reflector.Reflect(&Output{})
}
