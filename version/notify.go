package version

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"github.com/vidresolve/vidresolve/color"
	"github.com/vidresolve/vidresolve/constant"
	"github.com/vidresolve/vidresolve/key"
	"github.com/vidresolve/vidresolve/network"
	"github.com/vidresolve/vidresolve/style"
)

// Notify writes an alert to w if a more recent version is available.
// Resolution output goes to stdout, so callers pass stderr.
func Notify(ctx context.Context, w io.Writer, fetcher network.Fetcher) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	latest, err := Latest(ctx, fetcher)
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Fprintf(w, `
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint(fmt.Sprintf("https://github.com/%s/releases/tag/v%s", constant.Repository, latest)),
	)
}
