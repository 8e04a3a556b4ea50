package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMembers(t *testing.T) {
	raw := []*discordgo.Member{
		{User: &discordgo.User{ID: "1", Username: "abe", GlobalName: "Abe"}, Nick: "Mr President"},
		{User: &discordgo.User{ID: "2", Username: "ben"}},
		nil,
		{User: nil},
	}

	members := ConvertMembers(raw)
	require.Len(t, members, 2)
	assert.Equal(t, "1", members[0].ID)
	assert.Equal(t, "Mr President", members[0].DisplayName)
	assert.Equal(t, "Abe", members[0].GlobalName)
	assert.Equal(t, "Mr President", members[0].Label())
	assert.Equal(t, "ben", members[1].Label())
}
