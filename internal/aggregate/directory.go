package aggregate

import (
	"sort"
	"strings"

	"capitol/internal/profiles"
)

// DirectoryQuery is the parsed set of filter/sort/page controls the
// directory pages pass through
type DirectoryQuery struct {
	// Party filters to one party when set ("democrat", "republican")
	Party string
	// MaxDays keeps only profiles last online within this many days (0 = off)
	MaxDays float64
	// Search is a case-insensitive substring over name, discord and state
	Search string
	// Sort is the field to order by: name, discord, party, state, position,
	// cash, es, power, lastOnline
	Sort string
	// Desc flips the sort direction
	Desc bool
	// Page is 1-based
	Page int
}

const DirectoryPageSize = 25

// DirectoryPage is one page of the filtered listing plus the total match
// count, so the presentation layer can tell "no data" from "no match"
type DirectoryPage struct {
	Profiles   []profiles.Profile `json:"profiles"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
}

// Directory filters, sorts and paginates the profile listing. Input order
// is preserved between equal sort keys
func Directory(dataset []profiles.Profile, query DirectoryQuery) DirectoryPage {
	filtered := make([]profiles.Profile, 0, len(dataset))
	search := strings.ToLower(strings.TrimSpace(query.Search))
	for i := range dataset {
		profile := &dataset[i]
		if query.Party != "" && !strings.EqualFold(profile.Party, query.Party) {
			continue
		}
		if query.MaxDays > 0 {
			if !profile.Online() || *profile.LastOnlineDays > query.MaxDays {
				continue
			}
		}
		if search != "" && !matchesSearch(profile, search) {
			continue
		}
		filtered = append(filtered, *profile)
	}

	sortDirectory(filtered, query.Sort, query.Desc)

	totalPages := (len(filtered) + DirectoryPageSize - 1) / DirectoryPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * DirectoryPageSize
	end := start + DirectoryPageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return DirectoryPage{
		Profiles:   filtered[start:end],
		Total:      len(filtered),
		Page:       page,
		TotalPages: totalPages,
	}
}

func matchesSearch(profile *profiles.Profile, search string) bool {
	return strings.Contains(strings.ToLower(profile.Name), search) ||
		strings.Contains(strings.ToLower(profile.Discord), search) ||
		strings.Contains(strings.ToLower(profile.State), search)
}

func sortDirectory(dataset []profiles.Profile, field string, desc bool) {
	var less func(a, b *profiles.Profile) bool
	switch strings.ToLower(field) {
	case "", "name":
		less = stringLess(func(p *profiles.Profile) string { return p.Name })
	case "discord":
		less = stringLess(func(p *profiles.Profile) string { return p.Discord })
	case "party":
		less = stringLess(func(p *profiles.Profile) string { return p.Party })
	case "state":
		less = stringLess(func(p *profiles.Profile) string { return p.State })
	case "position":
		less = stringLess(func(p *profiles.Profile) string { return p.Position })
	case "cash":
		less = numberLess(func(p *profiles.Profile) float64 { return p.CashValue() })
	case "es":
		less = numberLess(func(p *profiles.Profile) float64 { return p.ESValue() })
	case "power":
		less = numberLess(func(p *profiles.Profile) float64 { return p.PowerValue() })
	case "lastonline":
		// Unknown ages sort after every known one
		less = numberLess(func(p *profiles.Profile) float64 {
			if !p.Online() {
				return 1e9
			}
			return *p.LastOnlineDays
		})
	default:
		less = stringLess(func(p *profiles.Profile) string { return p.Name })
	}

	sort.SliceStable(dataset, func(i, j int) bool {
		if desc {
			return less(&dataset[j], &dataset[i])
		}
		return less(&dataset[i], &dataset[j])
	})
}

// Case-insensitive byte order, not locale collation. Non-ASCII names sort
// by their UTF-8 bytes
func stringLess(key func(*profiles.Profile) string) func(a, b *profiles.Profile) bool {
	return func(a, b *profiles.Profile) bool {
		return strings.ToLower(key(a)) < strings.ToLower(key(b))
	}
}

func numberLess(key func(*profiles.Profile) float64) func(a, b *profiles.Profile) bool {
	return func(a, b *profiles.Profile) bool {
		return key(a) < key(b)
	}
}
