package version

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/vidresolve/vidresolve/constant"
	"github.com/vidresolve/vidresolve/filesystem"
	"github.com/vidresolve/vidresolve/network"
	"github.com/vidresolve/vidresolve/where"
)

// ReleasesURL is the GitHub endpoint describing the latest release.
var ReleasesURL = fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", constant.Repository)

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest released version, cached for two days.
func Latest(ctx context.Context, fetcher network.Fetcher) (string, error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	ver, err = fetchLatest(ctx, fetcher)
	if err != nil {
		return "", err
	}

	_ = versionCacher.Set(ver)
	return ver, nil
}

func fetchLatest(ctx context.Context, fetcher network.Fetcher) (string, error) {
	doc, status, err := fetcher.FetchJSON(ctx, ReleasesURL, nil)
	if err != nil {
		return "", err
	}
	if status != 200 {
		return "", fmt.Errorf("release lookup returned status %d", status)
	}

	tag := doc.Get("tag_name").String()
	if tag == "" {
		return "", errors.New("empty tag name")
	}

	return strings.TrimPrefix(tag, "v"), nil
}
