// Package discordbot is the chat entry adapter. It translates slash
// commands, modals and button presses into lifecycle service calls and
// renders the results as Discord replies. Like the HTTP adapter it applies
// no validation or authorization of its own; the only check it owns is the
// designated-channel guard, which is configuration, not a core rule.
package discordbot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"whitelist/internal/application/models"
	"whitelist/internal/identity"
	"whitelist/internal/platform/config"
	dErrors "whitelist/pkg/domain-errors"
	"whitelist/pkg/requestcontext"
)

const (
	commandName = "whitelist"

	optionSteamID   = "steam_id"
	optionRulesRead = "rules_read"
	optionCfxLinked = "cfx_linked"
)

// Service defines the lifecycle operations the bot depends on.
type Service interface {
	Submit(ctx context.Context, req *models.SubmitApplicationRequest) (*models.Application, error)
	Review(ctx context.Context, id uuid.UUID, req *models.ReviewApplicationRequest) (*models.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Application, error)
}

// Bot drives the Discord side of the system.
type Bot struct {
	session *discordgo.Session
	service Service
	cfg     config.Discord
	logger  *slog.Logger
}

func New(session *discordgo.Session, service Service, cfg config.Discord, logger *slog.Logger) *Bot {
	return &Bot{session: session, service: service, cfg: cfg, logger: logger}
}

// Start registers the interaction handler, opens the gateway session and
// registers the slash command.
func (b *Bot) Start(ctx context.Context) error {
	b.session.Identify.Intents = discordgo.IntentsGuilds
	b.session.AddHandler(b.handleInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	command := &discordgo.ApplicationCommand{
		Name:        commandName,
		Description: "Start a whitelist application",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionSteamID,
				Description: "Your Steam Hex ID (example: 110000146218998)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        optionRulesRead,
				Description: "Have you read the server rules?",
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        optionCfxLinked,
				Description: "Is your Cfx account linked?",
			},
		},
	}
	if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.cfg.GuildID, command, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("register slash command: %w", err)
	}

	b.logger.Info("discord bot ready", "guild_id", b.cfg.GuildID)
	return nil
}

// Stop closes the gateway session.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := requestcontext.WithRequester(context.Background(), b.requester(i))

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == commandName {
			b.handleWhitelistCommand(ctx, i)
		}
	case discordgo.InteractionModalSubmit:
		b.handleModalSubmit(ctx, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, i)
	}
}

// requester builds the acting identity from the interaction. The admin
// capability is derived here, at the adapter boundary, from guild role
// membership; the engine never re-derives it.
func (b *Bot) requester(i *discordgo.InteractionCreate) identity.Requester {
	if i.Member == nil || i.Member.User == nil {
		return identity.Requester{}
	}
	user := i.Member.User
	displayName := i.Member.Nick
	if displayName == "" {
		displayName = user.GlobalName
	}
	if displayName == "" {
		displayName = user.Username
	}
	return identity.Requester{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: displayName,
		AvatarURL:   user.AvatarURL(""),
		IsAdmin:     b.cfg.AdminRoleID != "" && slices.Contains(i.Member.Roles, b.cfg.AdminRoleID),
	}
}

// replyEphemeral answers an interaction with a message only the actor sees.
func (b *Bot) replyEphemeral(i *discordgo.InteractionCreate, content string) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("failed to respond to interaction", "error", err)
	}
}

// replyError renders a domain error as an ephemeral reply.
func (b *Bot) replyError(i *discordgo.InteractionCreate, err error) {
	if violations := dErrors.Violations(err); len(violations) > 0 {
		var sb strings.Builder
		sb.WriteString("❌ Your application has problems:\n")
		for _, v := range violations {
			fmt.Fprintf(&sb, "• **%s**: %s\n", v.Field, v.Message)
		}
		b.replyEphemeral(i, sb.String())
		return
	}

	switch {
	case dErrors.HasCode(err, dErrors.CodeForbidden):
		b.replyEphemeral(i, "❌ You need the admin role to do that.")
	case dErrors.HasCode(err, dErrors.CodeConflict):
		b.replyEphemeral(i, "❌ This application has already been reviewed.")
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		b.replyEphemeral(i, "❌ Application not found.")
	case dErrors.HasCode(err, dErrors.CodeValidation):
		b.replyEphemeral(i, "❌ "+dErrors.Description(err))
	default:
		b.logger.Error("interaction failed", "error", err)
		b.replyEphemeral(i, "❌ Something went wrong. Please try again.")
	}
}
