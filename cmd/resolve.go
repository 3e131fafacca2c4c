package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidresolve/vidresolve/filesystem"
	"github.com/vidresolve/vidresolve/inline"
	"github.com/vidresolve/vidresolve/key"
	"github.com/vidresolve/vidresolve/network"
	"github.com/vidresolve/vidresolve/open"
	"github.com/vidresolve/vidresolve/provider"
	"github.com/vidresolve/vidresolve/source"
	"github.com/vidresolve/vidresolve/util"
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	resolveCmd.Flags().BoolP("summary", "s", false, "Print titles, parts and formats in a human-readable listing")
	resolveCmd.MarkFlagsMutuallyExclusive("json", "summary")
	resolveCmd.Flags().StringP("entries", "e", "", "Criteria for selecting specific parts of a multi-part video")
	resolveCmd.Flags().StringP("format", "f", "all", "Formats to print for each part: best, worst, all or a format tag")
	lo.Must0(resolveCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		tags := lo.Map(source.AllFormatTags(), func(t source.FormatTag, _ int) string { return t.String() })
		return append([]string{"best", "worst", "all"}, tags...), cobra.ShellCompDirectiveNoFileComp
	}))

	resolveCmd.Flags().StringP("proxy", "p", "", "Proxy (host:port) forwarded to the metadata backend")
	lo.Must0(viper.BindPFlag(key.ProxyCNVerification, resolveCmd.Flags().Lookup("proxy")))

	resolveCmd.Flags().BoolP("lenient", "l", false, "Skip formats and parts that fail instead of aborting")
	resolveCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
	resolveCmd.Flags().BoolP("open", "O", false, "Open the best URL of the first part with the system handler or open.with")
}

// resolveCmd resolves one or more video page URLs.
var resolveCmd = &cobra.Command{
	Use:     "resolve [url...]",
	Aliases: []string{"r"},
	Short:   "Resolve video page URLs into direct media URLs",
	Long: `Resolve video page URLs into direct media URLs, ranked best first.

Without --json or --summary every selected media URL is printed on its own line.

Entry selectors:
  first - first part
  last - last part
  all - all parts
  [number] - select part by index (starting from 0)
  [from]-[to] - select parts by range
  @[substring]@ - select parts whose id contains the substring

Format selectors:
  best - highest ranked format of every part
  worst - lowest ranked format of every part
  all - every format
  nor, high, super, ori, h2644k, h2654k - a specific tier`,
	Example: "  vidresolve resolve -f best http://tv.sohu.com/20130724/n382479172.shtml",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("lenient")) {
			viper.Set(key.ResolveStrict, false)
		}

		fetcher := network.New(network.OptionsFromConfig())
		sources := lo.Map(provider.Builtins(), func(p *provider.Provider, _ int) source.Source {
			return p.CreateSource(fetcher)
		})

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			f, err := filesystem.API().Create(output)
			handleErr(err)
			defer util.Ignore(f.Close)
			writer = f
		}

		options := &inline.Options{
			Out:     writer,
			Sources: sources,
			URLs:    args,
			Json:    lo.Must(cmd.Flags().GetBool("json")),
			Summary: lo.Must(cmd.Flags().GetBool("summary")),
			Pretty:  viper.GetBool(key.OutputPretty) && util.IsTerminal(writer),
		}

		if entries := lo.Must(cmd.Flags().GetString("entries")); entries != "" {
			fn, err := inline.ParseEntriesFilter(entries)
			handleErr(err)
			options.EntriesFilter = mo.Some(fn)
		}

		if format := lo.Must(cmd.Flags().GetString("format")); format != "" {
			fn, err := inline.ParseFormatPicker(strings.ToLower(format))
			handleErr(err)
			options.FormatPicker = mo.Some(fn)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		output, err := inline.Run(ctx, options)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("open")) {
			urls := output.URLs()
			if len(urls) == 0 {
				handleErr(errors.New("nothing to open"))
			}
			handleErr(open.URL(urls[0]))
		}
	},
}

func init() {
	resolveCmd.AddCommand(resolveSchemaCmd)
}

// resolveSchemaCmd prints the JSON schema of the resolve output.
var resolveSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the structured resolve output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(json.NewEncoder(os.Stdout).Encode(inline.Schema()))
	},
}
