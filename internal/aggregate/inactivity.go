package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"capitol/internal/profiles"
)

// Member is the slice of a chat-server member the report needs. The bot
// layer converts the platform's member objects into these
type Member struct {
	ID          string
	Username    string
	DisplayName string
	GlobalName  string
}

// Label is the name the report shows for a member: nickname first, then
// global name, then the bare username
func (m *Member) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	if m.GlobalName != "" {
		return m.GlobalName
	}
	return m.Username
}

func (m *Member) matches(name string) bool {
	if name == "" {
		return false
	}
	return strings.EqualFold(name, m.Username) ||
		strings.EqualFold(name, m.DisplayName) ||
		strings.EqualFold(name, m.GlobalName)
}

// InactiveMember is one row of the inactivity report
type InactiveMember struct {
	Member   Member
	MaxDays  float64
	Details  []string
	Overflow int
}

const (
	inactivityMinDays  = 2
	inactivityMaxDays  = 5
	inactivityTopCount = 50
	inactivityDetails  = 3
)

// InactivityReport joins profiles that have been offline between two and
// five days to the server members that own them. A profile without a
// case-insensitive name match among the members is dropped; the first
// matching member in enumeration order wins. Rows are sorted by the worst
// offline age, ties by label
func InactivityReport(dataset []profiles.Profile, members []Member) []InactiveMember {
	type group struct {
		member  Member
		maxDays float64
		details []string
	}
	groups := map[string]*group{}
	order := []string{}

	for i := range dataset {
		profile := &dataset[i]
		if !profile.Online() {
			continue
		}
		days := *profile.LastOnlineDays
		if days < inactivityMinDays || days > inactivityMaxDays {
			continue
		}
		member, ok := matchMember(profile, members)
		if !ok {
			continue
		}
		g, ok := groups[member.ID]
		if !ok {
			g = &group{member: member}
			groups[member.ID] = g
			order = append(order, member.ID)
		}
		if days > g.maxDays {
			g.maxDays = days
		}
		g.details = append(g.details, profileDetail(profile, days))
	}

	report := make([]InactiveMember, 0, len(order))
	for _, id := range order {
		g := groups[id]
		row := InactiveMember{Member: g.member, MaxDays: g.maxDays}
		if len(g.details) > inactivityDetails {
			row.Details = g.details[:inactivityDetails]
			row.Overflow = len(g.details) - inactivityDetails
		} else {
			row.Details = g.details
		}
		report = append(report, row)
	}

	sort.SliceStable(report, func(i, j int) bool {
		if report[i].MaxDays != report[j].MaxDays {
			return report[i].MaxDays > report[j].MaxDays
		}
		left := strings.ToLower(report[i].Member.Label())
		right := strings.ToLower(report[j].Member.Label())
		return left < right
	})

	if len(report) > inactivityTopCount {
		report = report[:inactivityTopCount]
	}
	return report
}

// matchMember finds the first member matching the profile's discord handle
// or, failing that, its in-game name
func matchMember(profile *profiles.Profile, members []Member) (Member, bool) {
	for i := range members {
		if profile.Discord != "" && members[i].matches(profile.Discord) {
			return members[i], true
		}
		if members[i].matches(profile.Name) {
			return members[i], true
		}
	}
	return Member{}, false
}

func profileDetail(profile *profiles.Profile, days float64) string {
	detail := fmt.Sprintf("%s - %s", profile.Name, profile.LastOnlineText)
	if profile.LastOnlineText == "" {
		detail = fmt.Sprintf("%s - %.0f days offline", profile.Name, days)
	}
	if profile.State != "" {
		detail += fmt.Sprintf(" (%s)", profile.State)
	}
	return detail
}
