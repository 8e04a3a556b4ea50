package aggregate

import (
	"testing"

	"capitol/internal/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaderboardDataset() []profiles.Profile {
	return []profiles.Profile{
		{Name: "Abe", Party: "Democrat", State: "Ohio", Cash: "$100", ES: "50"},
		{Name: "Ben", Party: "Republican", State: "Texas", Cash: "$1,000.50", ES: "N/A"},
		{Name: "abe", Party: "Democrat", State: "Ohio", Cash: "$999,999", ES: "999"}, // duplicate, dropped
		{Name: "Cal", Party: "Republican", State: "Iowa", Cash: "", ES: "400"},
	}
}

func TestLeaderboardDedupesAndRanks(t *testing.T) {
	page := Leaderboard(leaderboardDataset(), MetricPower, 1, 10)
	require.Len(t, page.Entries, 3)
	assert.Equal(t, 1, page.TotalPages)

	// power: Ben 1000.5, Cal 400, Abe 150 (first "Abe" wins the dedupe)
	assert.Equal(t, []string{"Ben", "Cal", "Abe"}, entryNames(page))
	assert.Equal(t, 1000.5, page.Entries[0].Value)
	assert.Equal(t, 1, page.Entries[0].Rank)
	assert.Equal(t, 150.0, page.Entries[2].Value)
}

func TestLeaderboardMetrics(t *testing.T) {
	cash := Leaderboard(leaderboardDataset(), MetricCash, 1, 10)
	assert.Equal(t, []string{"Ben", "Abe", "Cal"}, entryNames(cash))

	es := Leaderboard(leaderboardDataset(), MetricES, 1, 10)
	assert.Equal(t, []string{"Cal", "Abe", "Ben"}, entryNames(es))
}

func TestLeaderboardDeterministic(t *testing.T) {
	first := Leaderboard(leaderboardDataset(), MetricPower, 1, 2)
	second := Leaderboard(leaderboardDataset(), MetricPower, 1, 2)
	assert.Equal(t, first, second)
}

func TestLeaderboardPaging(t *testing.T) {
	page := Leaderboard(leaderboardDataset(), MetricPower, 2, 2)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "Abe", page.Entries[0].Name)
	assert.Equal(t, 3, page.Entries[0].Rank)

	// Out-of-range pages clamp instead of erroring
	clamped := Leaderboard(leaderboardDataset(), MetricPower, 99, 2)
	assert.Equal(t, 2, clamped.Page)

	empty := Leaderboard(nil, MetricPower, 1, 2)
	assert.Empty(t, empty.Entries)
	assert.Equal(t, 1, empty.TotalPages)
}

func entryNames(page LeaderboardPage) []string {
	names := make([]string, 0, len(page.Entries))
	for _, entry := range page.Entries {
		names = append(names, entry.Name)
	}
	return names
}
