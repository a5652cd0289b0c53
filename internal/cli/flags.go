package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/camlsize/internal/report"
)

// addFormatFlag adds the --format/-o flag with shell completion.
func addFormatFlag(cmd *cobra.Command, format *report.Format) {
	names := make([]string, len(report.Formats))
	for i, f := range report.Formats {
		names[i] = string(f)
	}

	description := fmt.Sprintf("Output format (%s)", strings.Join(names, ", "))
	cmd.Flags().VarP(format, "format", "o", description)

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// addSortFlag adds the --sort flag with shell completion.
func addSortFlag(cmd *cobra.Command, order *report.SortOrder) {
	names := make([]string, len(report.SortOrders))
	for i, o := range report.SortOrders {
		names[i] = string(o)
	}

	description := fmt.Sprintf("Row order (%s)", strings.Join(names, ", "))
	cmd.Flags().Var(order, "sort", description)

	_ = cmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}
