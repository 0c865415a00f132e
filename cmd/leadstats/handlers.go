package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/analytics"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/client"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/logger"
	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

func (f filterFlags) params() (models.AggregationParams, error) {
	start, err := analytics.ParseDate(f.start)
	if err != nil {
		return models.AggregationParams{}, fmt.Errorf("--start: %w", err)
	}
	end, err := analytics.ParseDate(f.end)
	if err != nil {
		return models.AggregationParams{}, fmt.Errorf("--end: %w", err)
	}
	return models.AggregationParams{
		StartDate: start,
		EndDate:   end,
		Category:  strings.TrimSpace(f.category),
		HRUserID:  strings.TrimSpace(f.user),
	}, nil
}

func newClient(cmd *cobra.Command, opts *globalOptions) (*client.Client, logger.Logger) {
	log := logger.NewWithOutput(opts.logLevel, "text", cmd.ErrOrStderr())
	c := client.New(client.Session{
		BaseURL:     opts.apiURL,
		AccessToken: opts.token,
	}, client.WithLogger(log))
	return c, log
}

func runDashboard(cmd *cobra.Command, opts *globalOptions, filters filterFlags, stableColors, asJSON bool) error {
	params, err := filters.params()
	if err != nil {
		return err
	}

	c, log := newClient(cmd, opts)
	board := client.NewDashboard(c, log)
	snap, err := board.Refresh(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("refresh dashboard: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.AnalyticsResponse{
			Success: true,
			Data:    snap.Result,
			Source:  snap.Source,
		})
	}

	fmt.Fprintf(out, "Source: %s", snap.Source)
	if snap.Synthetic {
		fmt.Fprint(out, " (synthetic data, server and leads unavailable)")
	}
	fmt.Fprintf(out, "\nTotal leads: %d\n", snap.Result.TotalLeads)

	charts := snap.Charts(analytics.ChartOptions{StableColors: stableColors})
	sections := []struct {
		title string
		items []models.ChartDataItem
	}{
		{"STATUS", charts.Status},
		{"CATEGORY", charts.Category},
		{"USER", charts.User},
		{"DATE", charts.Date},
	}
	for _, s := range sections {
		fmt.Fprintln(out)
		if err := writeChart(out, s.title, s.items); err != nil {
			return err
		}
	}
	return nil
}

func writeChart(out io.Writer, title string, items []models.ChartDataItem) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOUNT\tCOLOR\n", title)
	if len(items) == 0 {
		fmt.Fprintln(w, "(none)\t-\t-")
	}
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%d\t%s\n", item.Name, item.Value, item.Color)
	}
	return w.Flush()
}

func runLeads(cmd *cobra.Command, opts *globalOptions, filters filterFlags, status, search string, page, limit int) error {
	params, err := filters.params()
	if err != nil {
		return err
	}
	st := models.LeadStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return fmt.Errorf("--status: unknown status %q", status)
	}

	c, _ := newClient(cmd, opts)
	res, err := c.ListLeads(cmd.Context(), models.LeadFilter{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Category:  params.Category,
		HRUserID:  params.HRUserID,
		Status:    st,
		Search:    search,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return fmt.Errorf("list leads: %w", err)
	}
	if len(res.Leads) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No leads found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tPHONE\tCATEGORY\tSTATUS\tOWNER\tCREATED")
	for _, l := range res.Leads {
		created := "-"
		if !l.CreatedAt.IsZero() {
			created = l.CreatedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID.Hex(), l.CustomerName, dash(l.CustomerPhone), dash(l.Category), dash(string(l.Status)), dash(l.HRUserID), created)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d, %d of %d leads\n", res.Page, len(res.Leads), res.Total)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
