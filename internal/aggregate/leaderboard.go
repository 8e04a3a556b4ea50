package aggregate

import (
	"sort"

	"capitol/internal/profiles"
)

// Metric selects what the leaderboard ranks by
type Metric string

const (
	MetricCash Metric = "cash"
	MetricES   Metric = "es"
	// MetricPower is "political power": cash plus ES
	MetricPower Metric = "power"
)

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Party string  `json:"party"`
	State string  `json:"state"`
	Value float64 `json:"value"`
}

// LeaderboardPage is one page of the ranking plus the page count the
// pagination controls need
type LeaderboardPage struct {
	Entries    []LeaderboardEntry `json:"entries"`
	Metric     Metric             `json:"metric"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
}

const DefaultLeaderboardPageSize = 10

// Leaderboard ranks profiles descending by the requested metric. Repeated
// profiles for the same player are dropped, first occurrence wins. The
// sort is stable, so identical inputs always produce identical pages
func Leaderboard(dataset []profiles.Profile, metric Metric, page int, pageSize int) LeaderboardPage {
	if pageSize <= 0 {
		pageSize = DefaultLeaderboardPageSize
	}
	switch metric {
	case MetricCash, MetricES, MetricPower:
	default:
		metric = MetricPower
	}

	deduped := dedupeByName(dataset)
	values := make([]float64, len(deduped))
	for i := range deduped {
		values[i] = metricValue(&deduped[i], metric)
	}
	order := make([]int, len(deduped))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] > values[order[j]]
	})

	totalPages := (len(order) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(order) {
		start = len(order)
	}
	if end > len(order) {
		end = len(order)
	}

	result := LeaderboardPage{Metric: metric, Page: page, TotalPages: totalPages}
	result.Entries = make([]LeaderboardEntry, 0, end-start)
	for rank := start; rank < end; rank++ {
		profile := &deduped[order[rank]]
		result.Entries = append(result.Entries, LeaderboardEntry{
			Rank:  rank + 1,
			Name:  profile.Name,
			Party: profile.Party,
			State: profile.State,
			Value: values[order[rank]],
		})
	}
	return result
}

func metricValue(profile *profiles.Profile, metric Metric) float64 {
	switch metric {
	case MetricCash:
		return profile.CashValue()
	case MetricES:
		return profile.ESValue()
	default:
		return profile.PowerValue()
	}
}
