package aggregate

import (
	"math"
	"strings"

	"capitol/internal/profiles"
)

// ActivityBucket summarises how alive one slice of the player base is.
// Profiles without a known last-online age count towards Count but are
// excluded from the average
type ActivityBucket struct {
	Count         int     `json:"count"`
	AvgOnlineDays float64 `json:"avgOnlineDays"`
	RecentCount   int     `json:"recentCount"`
	ActiveCount   int     `json:"activeCount"`
}

// PartySnapshot is the party activity view: one bucket per party plus a
// combined one
type PartySnapshot struct {
	Democrat   ActivityBucket `json:"democrat"`
	Republican ActivityBucket `json:"republican"`
	All        ActivityBucket `json:"all"`
}

const (
	recentDays = 3
	activeDays = 5
)

// PartyActivity computes the party activity snapshot for a dataset.
// An empty dataset yields zeroed buckets, never NaN averages
func PartyActivity(dataset []profiles.Profile) PartySnapshot {
	var snapshot PartySnapshot
	var demSum, gopSum, allSum float64
	var demKnown, gopKnown, allKnown int

	for i := range dataset {
		profile := &dataset[i]
		dem := strings.EqualFold(profile.Party, "Democrat")
		gop := strings.EqualFold(profile.Party, "Republican")

		snapshot.All.Count++
		if dem {
			snapshot.Democrat.Count++
		}
		if gop {
			snapshot.Republican.Count++
		}

		if !profile.Online() {
			continue
		}
		days := *profile.LastOnlineDays
		allSum += days
		allKnown++
		if days < recentDays {
			snapshot.All.RecentCount++
		}
		if days < activeDays {
			snapshot.All.ActiveCount++
		}
		if dem {
			demSum += days
			demKnown++
			if days < recentDays {
				snapshot.Democrat.RecentCount++
			}
			if days < activeDays {
				snapshot.Democrat.ActiveCount++
			}
		}
		if gop {
			gopSum += days
			gopKnown++
			if days < recentDays {
				snapshot.Republican.RecentCount++
			}
			if days < activeDays {
				snapshot.Republican.ActiveCount++
			}
		}
	}

	snapshot.Democrat.AvgOnlineDays = average(demSum, demKnown)
	snapshot.Republican.AvgOnlineDays = average(gopSum, gopKnown)
	snapshot.All.AvgOnlineDays = average(allSum, allKnown)
	return snapshot
}

// average rounds to one decimal and is safe for a zero count
func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(sum/float64(count)*10) / 10
}
