// Package provider keeps the registry of built-in sources.
package provider

import (
	"github.com/vidresolve/vidresolve/network"
	"github.com/vidresolve/vidresolve/provider/sohu"
	"github.com/vidresolve/vidresolve/source"
)

// Provider describes a source and how to build it.
type Provider struct {
	ID    string
	Name  string
	Hosts []string
	// CreateSource builds a source that performs its requests through fetcher and reads its options from the configuration.
	CreateSource func(fetcher network.Fetcher) source.Source
}

// Builtins returns built-in providers.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:    sohu.ID,
			Name:  sohu.Name,
			Hosts: sohu.Hosts,
			CreateSource: func(fetcher network.Fetcher) source.Source {
				return sohu.New(fetcher, sohu.OptionsFromConfig())
			},
		},
	}
}
