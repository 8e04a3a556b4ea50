package bot

import (
	"fmt"
	"strings"

	"capitol/internal/aggregate"

	"github.com/bwmarrin/discordgo"
)

// Use "old glory blue" for the bot's embeds
const color int = 0x3c3b6e

func HelpEmbed() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "Commands available", Color: color}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "`/fund <amount> <reason>`",
		Value: "Request party funds. An officer approves or denies the request with a reaction",
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "`/activity`",
		Value: "Party activity summary plus the members that have been offline for 2 to 5 days",
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "`/top [metric] [page]`",
		Value: "Leaderboard by cash, ES or political power (cash + ES)",
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "`/states`",
		Value: "Per-state player counts, activity and treasury totals",
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "`/restart`",
		Value: "Restart the bot process (officers only)",
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "`/help`",
		Value: "Print the usage of the different commands",
	})
	return embed
}

func FundRequestEmbed(requester string, amount float64, reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Fund request",
		Description: fmt.Sprintf("<@%s> requests **$%.2f**\n> %s\n\nReact ✅ to approve or ❌ to deny", requester, amount, reason),
		Color:       color,
	}
}

func FundDecisionEmbed(requester string, amount float64, approved bool, approver string) *discordgo.MessageEmbed {
	verdict := "denied ❌"
	if approved {
		verdict = "approved ✅"
	}
	return &discordgo.MessageEmbed{
		Title:       "Fund request " + verdict,
		Description: fmt.Sprintf("$%.2f for <@%s>, decided by <@%s>", amount, requester, approver),
		Color:       color,
	}
}

func PartyActivityEmbed(snapshot aggregate.PartySnapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "Party activity", Color: color}
	bucket := func(name string, b aggregate.ActivityBucket) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: name,
			Value: fmt.Sprintf("%d players, avg %.1f days offline\n%d online in the last 3 days, %d in the last 5",
				b.Count, b.AvgOnlineDays, b.RecentCount, b.ActiveCount),
		})
	}
	bucket("Democrats", snapshot.Democrat)
	bucket("Republicans", snapshot.Republican)
	bucket("Everyone", snapshot.All)
	return embed
}

func InactivityEmbed(report []aggregate.InactiveMember) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "Members slipping away (2-5 days offline)", Color: color}
	if len(report) == 0 {
		embed.Description = "Nobody is slipping right now"
		return embed
	}
	for _, row := range report {
		value := strings.Join(row.Details, "\n")
		if row.Overflow > 0 {
			value += fmt.Sprintf("\nand %d more", row.Overflow)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s (%.0f days)", row.Member.Label(), row.MaxDays),
			Value: value,
		})
	}
	return embed
}

func LeaderboardEmbed(page aggregate.LeaderboardPage) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Leaderboard by %s (page %d/%d)", page.Metric, page.Page, page.TotalPages),
		Color: color,
	}
	if len(page.Entries) == 0 {
		embed.Description = "No profile data available yet"
		return embed
	}
	lines := make([]string, 0, len(page.Entries))
	for _, entry := range page.Entries {
		line := fmt.Sprintf("**%d.** %s - $%.2f", entry.Rank, entry.Name, entry.Value)
		if entry.State != "" {
			line += fmt.Sprintf(" (%s)", entry.State)
		}
		lines = append(lines, line)
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func StatesEmbed(rollup []aggregate.StateStat) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "State rollup", Color: color}
	if len(rollup) == 0 {
		embed.Description = "No profile data available yet"
		return embed
	}
	for _, stat := range rollup {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: stat.State,
			Value: fmt.Sprintf("%d players (%dD/%dR active)\nES %.1f, cash $%.2f, avg $%.2f",
				stat.Players, stat.DemActive, stat.GopActive, stat.TotalES, stat.TotalCash, stat.AvgCash),
			Inline: true,
		})
	}
	return embed
}

func NoDataMessage() string {
	return "I have no profile data right now, try again after the next refresh"
}

func ErrorMessage(command string) string {
	return fmt.Sprintf("Something went wrong running `/%s`, the failure has been recorded", command)
}
