package models

import "time"

// AggregationParams filters the leads that feed an analytics computation.
type AggregationParams struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Category  string    `json:"category,omitempty"`
	HRUserID  string    `json:"hrUserId,omitempty"`
}

// AggregationResult is recomputed on every request; nothing persists it
// beyond the short-lived result cache.
type AggregationResult struct {
	TotalLeads           int          `json:"totalLeads"`
	DateWiseStats        Distribution `json:"dateWiseStats"`
	StatusDistribution   Distribution `json:"statusDistribution"`
	CategoryDistribution Distribution `json:"categoryDistribution"`
	UserDistribution     Distribution `json:"userDistribution"`
}

// GroupCount is one row of a $group stage: the grouped key and its count.
type GroupCount struct {
	Key   string `json:"key" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}

// AnalyticsFacets is the raw output of the analytics pipeline.
type AnalyticsFacets struct {
	Total      int          `bson:"total"`
	ByDate     []GroupCount `bson:"byDate"`
	ByStatus   []GroupCount `bson:"byStatus"`
	ByCategory []GroupCount `bson:"byCategory"`
	ByUser     []GroupCount `bson:"byUser"`
}

type AnalyticsSource string

const (
	SourceServer AnalyticsSource = "server"
	SourceCache  AnalyticsSource = "cache"
	SourceLocal  AnalyticsSource = "local"
	SourceMock   AnalyticsSource = "mock"
)

// ChartDataItem is one slice/bar of a dashboard chart.
type ChartDataItem struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type AnalyticsResponse struct {
	Success bool              `json:"success"`
	Data    AggregationResult `json:"data"`
	Source  AnalyticsSource   `json:"source,omitempty"`
}

type ChartsResponse struct {
	Success bool            `json:"success"`
	Data    ChartCollection `json:"data"`
	Source  AnalyticsSource `json:"source,omitempty"`
}

type ChartCollection struct {
	Status   []ChartDataItem `json:"status"`
	Category []ChartDataItem `json:"category"`
	User     []ChartDataItem `json:"user"`
	Date     []ChartDataItem `json:"date"`
}
