package aggregate

import (
	"fmt"
	"testing"

	"capitol/internal/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directoryDataset() []profiles.Profile {
	return []profiles.Profile{
		{Name: "Abe", Discord: "abe#1", Party: "Democrat", State: "Ohio", Cash: "$100", ES: "10", LastOnlineDays: days(1)},
		{Name: "Ben", Discord: "ben#2", Party: "Republican", State: "Texas", Cash: "$50", ES: "90", LastOnlineDays: days(4)},
		{Name: "Cal", Discord: "cal#3", Party: "Democrat", State: "Texas", Cash: "$70", ES: "20"},
	}
}

func TestDirectoryPartyFilter(t *testing.T) {
	page := Directory(directoryDataset(), DirectoryQuery{Party: "democrat"})
	assert.Equal(t, 2, page.Total)
	for _, profile := range page.Profiles {
		assert.Equal(t, "Democrat", profile.Party)
	}
}

func TestDirectoryActivityFilter(t *testing.T) {
	page := Directory(directoryDataset(), DirectoryQuery{MaxDays: 2})
	require.Equal(t, 1, page.Total)
	// Cal has no known age and is excluded by an activity filter
	assert.Equal(t, "Abe", page.Profiles[0].Name)
}

func TestDirectorySearch(t *testing.T) {
	byState := Directory(directoryDataset(), DirectoryQuery{Search: "tex"})
	assert.Equal(t, 2, byState.Total)

	byDiscord := Directory(directoryDataset(), DirectoryQuery{Search: "ABE#"})
	require.Equal(t, 1, byDiscord.Total)
	assert.Equal(t, "Abe", byDiscord.Profiles[0].Name)

	none := Directory(directoryDataset(), DirectoryQuery{Search: "zzz"})
	assert.Equal(t, 0, none.Total)
	assert.Empty(t, none.Profiles)
}

func TestDirectorySorting(t *testing.T) {
	byCash := Directory(directoryDataset(), DirectoryQuery{Sort: "cash", Desc: true})
	assert.Equal(t, "Abe", byCash.Profiles[0].Name)
	assert.Equal(t, "Ben", byCash.Profiles[2].Name)

	byES := Directory(directoryDataset(), DirectoryQuery{Sort: "es"})
	assert.Equal(t, "Abe", byES.Profiles[0].Name)
	assert.Equal(t, "Ben", byES.Profiles[2].Name)

	// Equal sort keys preserve input order
	stable := Directory(directoryDataset(), DirectoryQuery{Sort: "state"})
	assert.Equal(t, "Abe", stable.Profiles[0].Name)
	assert.Equal(t, "Ben", stable.Profiles[1].Name)
	assert.Equal(t, "Cal", stable.Profiles[2].Name)
}

func TestDirectoryPagination(t *testing.T) {
	dataset := make([]profiles.Profile, 0, DirectoryPageSize+5)
	for i := 0; i < DirectoryPageSize+5; i++ {
		dataset = append(dataset, profiles.Profile{Name: fmt.Sprintf("p%03d", i)})
	}

	first := Directory(dataset, DirectoryQuery{Page: 1})
	assert.Len(t, first.Profiles, DirectoryPageSize)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, DirectoryPageSize+5, first.Total)

	second := Directory(dataset, DirectoryQuery{Page: 2})
	assert.Len(t, second.Profiles, 5)

	clamped := Directory(dataset, DirectoryQuery{Page: 42})
	assert.Equal(t, 2, clamped.Page)
}

func TestDirectoryEmptyDataset(t *testing.T) {
	page := Directory(nil, DirectoryQuery{Search: "abe"})
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Profiles)
	assert.Equal(t, 1, page.TotalPages)
}
