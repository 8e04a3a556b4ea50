package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"capitol/internal/aggregate"
	"capitol/internal/profiles"
	"capitol/internal/status"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Config carries everything the bot needs besides its collaborators
type Config struct {
	Token   string
	GuildID string
	// HeartbeatInterval is how often the liveness stamp is refreshed
	HeartbeatInterval time.Duration
	// SampleInterval is how often a runtime sample is taken
	SampleInterval time.Duration
	// MainCycle is how often periodic housekeeping (profile refresh) runs
	MainCycle time.Duration
	// Restart is called when an officer runs /restart. Usually wired to the
	// process context cancel, the supervisor brings the bot back up
	Restart func()
}

type fundRequest struct {
	requesterID string
	amount      float64
	reason      string
}

// Bot wraps the chat session and turns slash commands into calls against
// the status store and the aggregation functions. Every handler records
// its user and outcome; the store itself can never fail a command
type Bot struct {
	cfg        Config
	store      *status.Store
	repo       profiles.Repository
	updater    *profiles.Updater
	classifier ResetClassifier

	mu           sync.Mutex
	pendingFunds map[string]fundRequest
}

func New(cfg Config, store *status.Store, repo profiles.Repository, updater *profiles.Updater) *Bot {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 30 * time.Second
	}
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = time.Minute
	}
	if cfg.MainCycle <= 0 {
		cfg.MainCycle = 30 * time.Second
	}
	return &Bot{
		cfg:          cfg,
		store:        store,
		repo:         repo,
		updater:      updater,
		classifier:   DefaultClassifier{},
		pendingFunds: map[string]fundRequest{},
	}
}

// Run opens the session and serves until the context is cancelled
func (bot *Bot) Run(ctx context.Context) error {
	discord, err := discordgo.New("Bot " + bot.cfg.Token)
	if err != nil {
		bot.store.MarkLoginError(err)
		return fmt.Errorf("could not create discord session: %w", err)
	}

	discord.AddHandler(bot.onReady)
	discord.AddHandler(bot.onInteraction)
	discord.AddHandler(bot.onReaction)

	if err := discord.Open(); err != nil {
		bot.store.MarkLoginError(err)
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	if err := bot.registerCommands(discord); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not register slash commands: %s", err))
	}

	// Periodic work: heartbeat, runtime samples and the main housekeeping
	// cycle that drives the profile refresh
	heartbeat := time.NewTicker(bot.cfg.HeartbeatInterval)
	defer heartbeat.Stop()
	sample := time.NewTicker(bot.cfg.SampleInterval)
	defer sample.Stop()
	cycle := time.NewTicker(bot.cfg.MainCycle)
	defer cycle.Stop()

	bot.store.MarkHeartbeat()
	bot.store.SampleRuntime()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			bot.store.MarkHeartbeat()
		case <-sample.C:
			bot.store.SampleRuntime()
		case <-cycle.C:
			if bot.updater != nil {
				bot.updater.Execute()
			}
		}
	}
}

func (bot *Bot) onReady(discord *discordgo.Session, ready *discordgo.Ready) {
	log.Info().Msg(fmt.Sprintf("Logged in as %s", ready.User.Username))
	bot.store.MarkReady()
}

func (bot *Bot) registerCommands(discord *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "fund",
			Description: "Request party funds",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionNumber, Name: "amount", Description: "Amount in dollars", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "What the money is for", Required: true},
			},
		},
		{
			Name:        "activity",
			Description: "Party activity summary and inactivity report",
		},
		{
			Name:        "top",
			Description: "Leaderboard by cash, ES or political power",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type: discordgo.ApplicationCommandOptionString, Name: "metric", Description: "What to rank by",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "cash", Value: string(aggregate.MetricCash)},
						{Name: "es", Value: string(aggregate.MetricES)},
						{Name: "political power", Value: string(aggregate.MetricPower)},
					},
				},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "page", Description: "Page number"},
			},
		},
		{
			Name:        "states",
			Description: "Per-state player counts and treasuries",
		},
		{
			Name:        "restart",
			Description: "Restart the bot process",
		},
		{
			Name:        "help",
			Description: "Print the usage of the different commands",
		},
	}
	_, err := discord.ApplicationCommandBulkOverwrite(discord.State.User.ID, bot.cfg.GuildID, commands)
	return err
}

func (bot *Bot) onInteraction(discord *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := interaction.ApplicationCommandData()
	userID, username := interactionUser(interaction)
	bot.store.RecordUserCommand(userID, username, data.Name)
	log.Debug().Msg(fmt.Sprintf("Command /%s from %s", data.Name, username))

	var err error
	var meta *status.ErrorMeta
	switch data.Name {
	case "fund":
		meta, err = bot.fund(discord, interaction, data)
	case "activity":
		meta, err = bot.activity(discord, interaction)
	case "top":
		meta, err = bot.top(discord, interaction, data)
	case "states":
		meta, err = bot.states(discord, interaction)
	case "restart":
		meta, err = bot.restart(discord, interaction)
	case "help":
		err = respondEmbed(discord, interaction, HelpEmbed())
	default:
		log.Warn().Msg(fmt.Sprintf("Command /%s is not one of the possible ones", data.Name))
		return
	}

	if err != nil {
		bot.fail(discord, interaction, data.Name, err, meta)
		return
	}
	bot.store.RecordCommandSuccess(data.Name)
}

// fail records the error, lets the classifier decide whether the command's
// counters should be reset for a retry, and tells the user something went
// wrong. The store can swallow anything, so this path never propagates
func (bot *Bot) fail(discord *discordgo.Session, interaction *discordgo.InteractionCreate, name string, err error, meta *status.ErrorMeta) {
	log.Error().Msg(fmt.Sprintf("Command /%s failed: %s", name, err))
	bot.store.RecordCommandError(name, err, meta)
	if bot.classifier.ResetWorthy(err, meta) {
		bot.store.ResetCommand(name)
	}
	respondText(discord, interaction, ErrorMessage(name))
}

func (bot *Bot) fund(discord *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (*status.ErrorMeta, error) {
	var amount float64
	var reason string
	for _, option := range data.Options {
		switch option.Name {
		case "amount":
			amount = option.FloatValue()
		case "reason":
			reason = option.StringValue()
		}
	}
	if amount <= 0 {
		return &status.ErrorMeta{Kind: status.MetaUserInput}, fmt.Errorf("fund amount must be positive")
	}

	userID, _ := interactionUser(interaction)
	if err := respondEmbed(discord, interaction, FundRequestEmbed(userID, amount, reason)); err != nil {
		return &status.ErrorMeta{Kind: status.MetaNetwork}, err
	}

	// Seed the approval reactions on the message we just sent
	message, err := discord.InteractionResponse(interaction.Interaction)
	if err != nil {
		return &status.ErrorMeta{Kind: status.MetaNetwork}, err
	}
	for _, emoji := range []string{"✅", "❌"} {
		if err := discord.MessageReactionAdd(message.ChannelID, message.ID, emoji); err != nil {
			log.Warn().Msg(fmt.Sprintf("Could not seed reaction %s: %s", emoji, err))
		}
	}

	bot.mu.Lock()
	bot.pendingFunds[message.ID] = fundRequest{requesterID: userID, amount: amount, reason: reason}
	bot.mu.Unlock()
	return nil, nil
}

// onReaction resolves pending fund requests. The requester cannot approve
// their own request, and the bot's own seeded reactions are ignored
func (bot *Bot) onReaction(discord *discordgo.Session, reaction *discordgo.MessageReactionAdd) {
	if reaction.UserID == discord.State.User.ID {
		return
	}
	approved := reaction.Emoji.Name == "✅"
	if !approved && reaction.Emoji.Name != "❌" {
		return
	}

	bot.mu.Lock()
	request, ok := bot.pendingFunds[reaction.MessageID]
	if ok && request.requesterID != reaction.UserID {
		delete(bot.pendingFunds, reaction.MessageID)
	}
	bot.mu.Unlock()
	if !ok || request.requesterID == reaction.UserID {
		return
	}

	embed := FundDecisionEmbed(request.requesterID, request.amount, approved, reaction.UserID)
	if _, err := discord.ChannelMessageSendEmbed(reaction.ChannelID, embed); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not announce fund decision: %s", err))
	}
}

func (bot *Bot) activity(discord *discordgo.Session, interaction *discordgo.InteractionCreate) (*status.ErrorMeta, error) {
	dataset := bot.repo.Load()
	if len(dataset) == 0 {
		return nil, respondText(discord, interaction, NoDataMessage())
	}

	members, err := guildMembers(discord, interaction.GuildID)
	if err != nil {
		return &status.ErrorMeta{Kind: status.MetaNetwork}, err
	}
	embeds := []*discordgo.MessageEmbed{
		PartyActivityEmbed(aggregate.PartyActivity(dataset)),
		InactivityEmbed(aggregate.InactivityReport(dataset, members)),
	}
	return nil, respondEmbed(discord, interaction, embeds...)
}

func (bot *Bot) top(discord *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) (*status.ErrorMeta, error) {
	metric := aggregate.MetricPower
	page := 1
	for _, option := range data.Options {
		switch option.Name {
		case "metric":
			metric = aggregate.Metric(option.StringValue())
		case "page":
			page = int(option.IntValue())
		}
	}
	dataset := bot.repo.Load()
	if len(dataset) == 0 {
		return nil, respondText(discord, interaction, NoDataMessage())
	}
	board := aggregate.Leaderboard(dataset, metric, page, aggregate.DefaultLeaderboardPageSize)
	return nil, respondEmbed(discord, interaction, LeaderboardEmbed(board))
}

func (bot *Bot) states(discord *discordgo.Session, interaction *discordgo.InteractionCreate) (*status.ErrorMeta, error) {
	dataset := bot.repo.Load()
	if len(dataset) == 0 {
		return nil, respondText(discord, interaction, NoDataMessage())
	}
	rollup := aggregate.StateRollup(dataset, aggregate.RollupOptions{Dedupe: true})
	return nil, respondEmbed(discord, interaction, StatesEmbed(rollup))
}

func (bot *Bot) restart(discord *discordgo.Session, interaction *discordgo.InteractionCreate) (*status.ErrorMeta, error) {
	if interaction.Member == nil || interaction.Member.Permissions&discordgo.PermissionManageServer == 0 {
		return &status.ErrorMeta{Kind: status.MetaUserInput}, fmt.Errorf("restart requires the manage server permission")
	}
	if err := respondText(discord, interaction, "Restarting, back in a moment"); err != nil {
		return &status.ErrorMeta{Kind: status.MetaNetwork}, err
	}
	log.Info().Msg("Restart requested")
	bot.recordRestart()
	if bot.cfg.Restart != nil {
		bot.cfg.Restart()
	}
	return nil, nil
}

// recordRestart leaves a trace of the restart in the store: the restart
// command's counters go back to zero and its reset count ticks up, so the
// dashboard can tell the process has been bounced on purpose
func (bot *Bot) recordRestart() {
	bot.store.ResetCommand("restart")
}

func guildMembers(discord *discordgo.Session, guildID string) ([]aggregate.Member, error) {
	if guildID == "" {
		return nil, nil
	}
	raw, err := discord.GuildMembers(guildID, "", 1000)
	if err != nil {
		return nil, fmt.Errorf("could not list members of guild %s: %w", guildID, err)
	}
	return ConvertMembers(raw), nil
}

func interactionUser(interaction *discordgo.InteractionCreate) (string, string) {
	if interaction.Member != nil && interaction.Member.User != nil {
		user := interaction.Member.User
		if interaction.Member.Nick != "" {
			return user.ID, interaction.Member.Nick
		}
		return user.ID, user.Username
	}
	if interaction.User != nil {
		return interaction.User.ID, interaction.User.Username
	}
	return "", ""
}

func respondEmbed(discord *discordgo.Session, interaction *discordgo.InteractionCreate, embeds ...*discordgo.MessageEmbed) error {
	return discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: embeds},
	})
}

func respondText(discord *discordgo.Session, interaction *discordgo.InteractionCreate, content string) error {
	return discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}
