package inline

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/vidresolve/vidresolve/color"
	"github.com/vidresolve/vidresolve/source"
	"github.com/vidresolve/vidresolve/style"
	"github.com/vidresolve/vidresolve/util"
)

var formatTag = style.Tag(color.New("0"), color.Cyan)

func writeSummary(w io.Writer, output *Output) error {
	var b strings.Builder

	for i, item := range output.Results {
		if i > 0 {
			b.WriteString("\n")
		}

		entries := item.Result.Entries
		title := ""
		if len(entries) > 0 {
			title = entries[0].Title
		}

		fmt.Fprintf(&b, "%s %s\n", style.Bold(title), style.Muted(fmt.Sprintf("(%s, %s)", item.Result.ID, util.Quantify(len(entries), "part", "parts"))))

		for _, entry := range entries {
			fmt.Fprintf(&b, "%s %s\n", style.Italic(entry.ID), style.Muted(fmt.Sprintf("%.1fs", entry.Duration)))
			writeFormats(&b, entry.Formats)
		}

		for _, skipped := range item.Skipped {
			fmt.Fprintf(&b, "%s %s\n", style.Fg(color.Yellow)("skipped"), skipped)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFormats(b *strings.Builder, formats []*source.SegmentFormat) {
	width := lo.Reduce(formats, func(agg int, f *source.SegmentFormat, _ int) int {
		return util.Max(agg, len(f.QualityLabel()))
	}, 0)

	for _, f := range formats {
		fmt.Fprintf(b, "  %s %-*s %s %s\n",
			formatTag(f.FormatID.String()),
			width, f.QualityLabel(),
			style.Muted(util.HumanSize(f.Filesize)),
			f.URL,
		)
	}
}
