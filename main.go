// Package main is the entry point for the vidresolve application.
package main

import (
	"github.com/samber/lo"
	"github.com/vidresolve/vidresolve/cmd"
	"github.com/vidresolve/vidresolve/config"
	"github.com/vidresolve/vidresolve/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
