package analytics

import (
	"hash/fnv"
	"sort"

	"github.com/campaignwalatech-netizen/telewaveServices-sub002/internal/models"
)

// DefaultPalette is the dashboard's chart palette.
var DefaultPalette = []string{
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#14B8A6", // teal
	"#F97316", // orange
}

type ChartOptions struct {
	Palette []string
	// StableColors derives each color from the item name instead of its
	// position, so a name keeps its color across renders.
	StableColors bool
}

// ToChartData maps a distribution to chart items in distribution order,
// skipping non-positive values.
func ToChartData(dist models.Distribution, opts ChartOptions) []models.ChartDataItem {
	palette := opts.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}

	items := make([]models.ChartDataItem, 0, dist.Len())
	for _, name := range dist.Keys() {
		value, _ := dist.Get(name)
		if value <= 0 {
			continue
		}
		var color string
		if opts.StableColors {
			color = palette[hashIndex(name, len(palette))]
		} else {
			color = palette[len(items)%len(palette)]
		}
		items = append(items, models.ChartDataItem{Name: name, Value: value, Color: color})
	}
	return items
}

// Charts builds every chart of the dashboard. Dates are sorted chronologically.
func Charts(result models.AggregationResult, opts ChartOptions) models.ChartCollection {
	return models.ChartCollection{
		Status:   ToChartData(result.StatusDistribution, opts),
		Category: ToChartData(result.CategoryDistribution, opts),
		User:     ToChartData(result.UserDistribution, opts),
		Date:     ToChartData(sortedByKey(result.DateWiseStats), opts),
	}
}

func sortedByKey(d models.Distribution) models.Distribution {
	keys := d.Keys()
	sort.Strings(keys)
	var out models.Distribution
	for _, k := range keys {
		n, _ := d.Get(k)
		out.Set(k, n)
	}
	return out
}

func hashIndex(name string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() % uint32(n))
}
