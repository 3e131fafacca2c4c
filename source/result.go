package source

import (
	"encoding/json"
	"fmt"
)

// SegmentFormat is one playable rendition of a single clip.
type SegmentFormat struct {
	FormatID FormatTag `json:"format_id"`
	URL      string    `json:"url"`
	Filesize int64     `json:"filesize"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	FPS      float64   `json:"fps"`
}

// Resolution returns the pixel count used for ranking.
func (f *SegmentFormat) Resolution() int {
	return f.Width * f.Height
}

// QualityLabel returns a human-readable quality label.
func (f *SegmentFormat) QualityLabel() string {
	if f.Height > 0 {
		return fmt.Sprintf("%dp", f.Height)
	}
	return f.FormatID.String()
}

// PlaylistEntry is one clip of a video with its formats ranked best-first.
type PlaylistEntry struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Duration float64          `json:"duration"`
	Formats  []*SegmentFormat `json:"formats"`
}

// Best returns the top-ranked format, or nil when the entry has none.
func (e *PlaylistEntry) Best() *SegmentFormat {
	if len(e.Formats) == 0 {
		return nil
	}
	return e.Formats[0]
}

// ResultType distinguishes single videos from multi-clip playlists.
type ResultType string

const (
	ResultVideo    ResultType = "video"
	ResultPlaylist ResultType = "playlist"
)

// Result is the outcome of one resolution: a lone entry or a playlist of entries.
type Result struct {
	Type    ResultType
	ID      string
	Entries []*PlaylistEntry

	// Skipped lists the formats a lenient resolution dropped. It is not part of the wire shape.
	Skipped []error
}

// Single wraps one entry, rewriting its id to the page id.
func Single(pageID string, entry *PlaylistEntry) *Result {
	entry.ID = pageID
	return &Result{
		Type:    ResultVideo,
		ID:      pageID,
		Entries: []*PlaylistEntry{entry},
	}
}

// Playlist wraps entries that are already in clip order.
func Playlist(pageID string, entries []*PlaylistEntry) *Result {
	return &Result{
		Type:    ResultPlaylist,
		ID:      pageID,
		Entries: entries,
	}
}

// IsPlaylist reports whether the result holds more than one clip.
func (r *Result) IsPlaylist() bool {
	return r.Type == ResultPlaylist
}

// PlaylistView is the wire shape of a multi-clip result.
type PlaylistView struct {
	Type    ResultType       `json:"_type"`
	ID      string           `json:"id"`
	Entries []*PlaylistEntry `json:"entries"`
}

// MarshalJSON emits a bare entry for single videos and a playlist wrapper otherwise.
func (r *Result) MarshalJSON() ([]byte, error) {
	if !r.IsPlaylist() && len(r.Entries) == 1 {
		return json.Marshal(r.Entries[0])
	}

	return json.Marshal(PlaylistView{
		Type:    ResultPlaylist,
		ID:      r.ID,
		Entries: r.Entries,
	})
}
