package aggregate

import (
	"sort"
	"strings"

	"capitol/internal/profiles"
)

// StateStat is one row of the per-state rollup
type StateStat struct {
	State      string  `json:"state"`
	Players    int     `json:"players"`
	DemActive  int     `json:"demActive"`
	GopActive  int     `json:"gopActive"`
	TotalES    float64 `json:"totalES"`
	TotalCash  float64 `json:"totalCash"`
	AvgCash    float64 `json:"avgCash"`
}

// RollupOptions controls the state rollup. ActiveDays is the threshold
// under which a player counts as active (default 5). Dedupe drops repeated
// profiles for the same player name before accumulating; whether the
// rollup should deduplicate like the leaderboard does is an open call, so
// both behaviours are available
type RollupOptions struct {
	ActiveDays float64
	Dedupe     bool
}

// StateRollup groups profiles by normalized state name. Profiles with an
// unknown or missing state are excluded entirely. Rows come back sorted
// by state name
func StateRollup(dataset []profiles.Profile, opts RollupOptions) []StateStat {
	if opts.ActiveDays <= 0 {
		opts.ActiveDays = 5
	}
	if opts.Dedupe {
		dataset = dedupeByName(dataset)
	}

	stats := map[string]*StateStat{}
	for i := range dataset {
		profile := &dataset[i]
		state := NormalizeState(profile.State)
		if state == "" {
			continue
		}
		stat, ok := stats[state]
		if !ok {
			stat = &StateStat{State: state}
			stats[state] = stat
		}
		stat.Players++
		stat.TotalES += profile.ESValue()
		stat.TotalCash += profile.CashValue()
		if profile.Online() && *profile.LastOnlineDays < opts.ActiveDays {
			switch {
			case strings.EqualFold(profile.Party, "Democrat"):
				stat.DemActive++
			case strings.EqualFold(profile.Party, "Republican"):
				stat.GopActive++
			}
		}
	}

	rollup := make([]StateStat, 0, len(stats))
	for _, stat := range stats {
		if stat.Players > 0 {
			stat.AvgCash = stat.TotalCash / float64(stat.Players)
		}
		rollup = append(rollup, *stat)
	}
	sort.Slice(rollup, func(i, j int) bool {
		return rollup[i].State < rollup[j].State
	})
	return rollup
}

// NormalizeState maps scraped state spellings and postal abbreviations to
// a canonical name. Anything it does not recognise normalizes to the
// empty string, which the rollup treats as "exclude"
func NormalizeState(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ""
	}
	if name, ok := stateAbbreviations[strings.ToUpper(cleaned)]; ok {
		return name
	}
	lower := strings.ToLower(cleaned)
	for _, name := range stateAbbreviations {
		if strings.ToLower(name) == lower {
			return name
		}
	}
	return ""
}

var stateAbbreviations = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia",
}

// dedupeByName keeps the first occurrence of every player name
func dedupeByName(dataset []profiles.Profile) []profiles.Profile {
	seen := map[string]struct{}{}
	deduped := make([]profiles.Profile, 0, len(dataset))
	for i := range dataset {
		key := strings.ToLower(dataset[i].Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, dataset[i])
	}
	return deduped
}
