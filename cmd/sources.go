package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidresolve/vidresolve/color"
	"github.com/vidresolve/vidresolve/provider"
	"github.com/vidresolve/vidresolve/style"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesCmd provides a parent command for inspecting providers.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect the built-in providers",
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Print only provider ids, one per line")
	sourcesListCmd.SetOut(os.Stdout)
}

// sourcesListCmd displays every registered provider with the hosts it serves.
var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display every registered provider and the hosts it serves",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("raw")) {
			for _, p := range provider.Builtins() {
				cmd.Println(p.ID)
			}
			return
		}

		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render
		cmd.Println(headerStyle("Builtin:"))
		for _, p := range provider.Builtins() {
			cmd.Printf("%s %s\n", p.Name, style.Faint("("+p.ID+")"))
			cmd.Println("  " + style.Fg(color.Yellow)(strings.Join(p.Hosts, ", ")))
		}
	},
}
