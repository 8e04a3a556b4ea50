package bot

import (
	"capitol/internal/aggregate"

	"github.com/bwmarrin/discordgo"
)

// ConvertMembers reduces the platform's member objects to the name slices
// the inactivity report joins against, preserving enumeration order
func ConvertMembers(raw []*discordgo.Member) []aggregate.Member {
	members := make([]aggregate.Member, 0, len(raw))
	for _, member := range raw {
		if member == nil || member.User == nil {
			continue
		}
		members = append(members, aggregate.Member{
			ID:          member.User.ID,
			Username:    member.User.Username,
			DisplayName: member.Nick,
			GlobalName:  member.User.GlobalName,
		})
	}
	return members
}
