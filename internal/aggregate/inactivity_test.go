package aggregate

import (
	"fmt"
	"testing"

	"capitol/internal/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInactivityReportFiltersWindow(t *testing.T) {
	members := []Member{
		{ID: "1", Username: "abe"},
		{ID: "2", Username: "ben"},
		{ID: "3", Username: "cal"},
		{ID: "4", Username: "dan"},
	}
	dataset := []profiles.Profile{
		{Name: "Abe", LastOnlineDays: days(1)},   // too recent
		{Name: "Ben", LastOnlineDays: days(2)},   // in window
		{Name: "Cal", LastOnlineDays: days(5)},   // in window, inclusive
		{Name: "Dan", LastOnlineDays: days(6)},   // too old
		{Name: "Eve", LastOnlineDays: days(3)},   // no matching member
		{Name: "Unknowable"},                     // no age at all
	}

	report := InactivityReport(dataset, members)
	require.Len(t, report, 2)
	// Worst offender first
	assert.Equal(t, "cal", report[0].Member.Username)
	assert.Equal(t, 5.0, report[0].MaxDays)
	assert.Equal(t, "ben", report[1].Member.Username)
}

func TestInactivityReportMatchesAnyMemberName(t *testing.T) {
	members := []Member{
		{ID: "1", Username: "zzz", DisplayName: "Abe"},
		{ID: "2", Username: "yyy", GlobalName: "BEN"},
	}
	dataset := []profiles.Profile{
		{Name: "abe", LastOnlineDays: days(3)},
		{Name: "Ben", Discord: "ben", LastOnlineDays: days(4)},
	}

	report := InactivityReport(dataset, members)
	require.Len(t, report, 2)
	assert.Equal(t, "1", report[1].Member.ID)
	assert.Equal(t, "2", report[0].Member.ID)
}

func TestInactivityReportGroupsAndOverflows(t *testing.T) {
	members := []Member{{ID: "1", Username: "multi"}}
	dataset := make([]profiles.Profile, 0, 5)
	for i := 0; i < 5; i++ {
		dataset = append(dataset, profiles.Profile{
			Name:           "Multi",
			Discord:        "multi",
			LastOnlineDays: days(float64(2 + i%4)),
			LastOnlineText: fmt.Sprintf("%d days ago", 2+i%4),
		})
	}

	report := InactivityReport(dataset, members)
	require.Len(t, report, 1)
	assert.Equal(t, 5.0, report[0].MaxDays)
	assert.Len(t, report[0].Details, 3)
	assert.Equal(t, 2, report[0].Overflow)
}

func TestInactivityReportTieBreaksOnLabel(t *testing.T) {
	members := []Member{
		{ID: "1", Username: "zeta"},
		{ID: "2", Username: "Alpha"},
	}
	dataset := []profiles.Profile{
		{Name: "zeta", LastOnlineDays: days(4)},
		{Name: "alpha", LastOnlineDays: days(4)},
	}

	report := InactivityReport(dataset, members)
	require.Len(t, report, 2)
	assert.Equal(t, "Alpha", report[0].Member.Label())
	assert.Equal(t, "zeta", report[1].Member.Label())
}

func TestInactivityReportCapsAtTop50(t *testing.T) {
	members := make([]Member, 0, 60)
	dataset := make([]profiles.Profile, 0, 60)
	for i := 0; i < 60; i++ {
		name := fmt.Sprintf("player%02d", i)
		members = append(members, Member{ID: name, Username: name})
		dataset = append(dataset, profiles.Profile{Name: name, LastOnlineDays: days(3)})
	}

	report := InactivityReport(dataset, members)
	assert.Len(t, report, 50)
}

func TestInactivityReportEmptyInputs(t *testing.T) {
	assert.Empty(t, InactivityReport(nil, nil))
	assert.Empty(t, InactivityReport([]profiles.Profile{{Name: "Abe", LastOnlineDays: days(3)}}, nil))
}
