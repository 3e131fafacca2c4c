package sohu

import (
	"html"
	"regexp"
	"strings"

	"github.com/vidresolve/vidresolve/source"
	"github.com/vidresolve/vidresolve/util"
)

var (
	// General pages carry an "n" before the id, personal channel pages do not.
	generalURL     = regexp.MustCompile(`^https?://tv\.sohu\.com/.+?/n(?P<id>\d+)\.shtml`)
	userChannelURL = regexp.MustCompile(`^https?://my\.tv\.sohu\.com/.+?/(?P<id>\d+)\.shtml`)

	titleTag      = regexp.MustCompile(`(?is)<title>(.+?)</title>`)
	vidAssignment = regexp.MustCompile(`var vid ?= ?["'](\d+)["']`)
)

// ParseRef extracts the page id and channel kind from a video page URL.
func ParseRef(rawURL string) (source.VideoRef, error) {
	rawURL = strings.TrimSpace(rawURL)

	if id := util.ReGroups(generalURL, rawURL)["id"]; id != "" {
		return source.VideoRef{PageID: id}, nil
	}

	if id := util.ReGroups(userChannelURL, rawURL)["id"]; id != "" {
		return source.VideoRef{PageID: id, UserChannel: true}, nil
	}

	return source.VideoRef{}, source.NewError(source.ErrPatternNotFound, "parse url", "", errQuoted("unsupported url", rawURL))
}

// ExtractTitle returns the part of the page title before the first dash.
func ExtractTitle(page string) (string, error) {
	m := titleTag.FindStringSubmatch(page)
	if m == nil {
		return "", source.NewError(source.ErrPatternNotFound, "extract title", "", errNoMatch("<title>"))
	}

	raw := strings.Join(strings.Fields(html.UnescapeString(m[1])), " ")
	title, _, _ := strings.Cut(raw, "-")
	return strings.TrimSpace(title), nil
}

// ExtractInternalID returns the backend id assigned to "var vid" in the page script.
func ExtractInternalID(page string) (string, error) {
	m := vidAssignment.FindStringSubmatch(page)
	if m == nil {
		return "", source.NewError(source.ErrPatternNotFound, "extract internal id", "", errNoMatch("var vid"))
	}
	return m[1], nil
}
