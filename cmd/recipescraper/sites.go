package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the site modules and the fields they override",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "HOST\tNAME\tOVERRIDES")
		for _, s := range catalog.Sites() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Host, s.Name, overriddenFields(s))
		}
		return w.Flush()
	},
}

func overriddenFields(s *plugin.Site) string {
	names := make([]string, 0, len(s.Overrides))
	for f := range s.Overrides {
		names = append(names, f.String())
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
