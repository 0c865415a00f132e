package main

import (
	"github.com/spf13/cobra"
)

type filterFlags struct {
	start    string
	end      string
	category string
	user     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&f.category, "category", "", "Only this category")
	cmd.Flags().StringVar(&f.user, "user", "", "Only leads owned by this user id")
}

func buildDashboardCmd(opts *globalOptions) *cobra.Command {
	var (
		filters      filterFlags
		stableColors bool
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show lead analytics as chart rows",
		Long: `Show lead analytics as chart rows.

Analytics come from the server when it can answer. Otherwise the raw leads
are aggregated locally, and if none can be fetched synthetic data is shown
and marked as such.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts, filters, stableColors, asJSON)
		},
	}
	filters.register(cmd)
	cmd.Flags().BoolVar(&stableColors, "stable-colors", false, "Color each item by name instead of position")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw analytics as JSON")
	return cmd
}

func buildLeadsCmd(opts *globalOptions) *cobra.Command {
	var (
		filters filterFlags
		status  string
		search  string
		page    int
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeads(cmd, opts, filters, status, search, page, limit)
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Only this status")
	cmd.Flags().StringVar(&search, "search", "", "Fuzzy match on customer name or phone")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	return cmd
}
