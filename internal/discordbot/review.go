package discordbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"whitelist/internal/application/models"
	"whitelist/internal/notify"
)

const (
	rejectModalPrefix = "reject_reason_"
	inputRejectReason = "reject_reason"
)

func (b *Bot) handleModalSubmit(ctx context.Context, i *discordgo.InteractionCreate) {
	customID := i.ModalSubmitData().CustomID
	switch {
	case strings.HasPrefix(customID, submitModalPrefix+"|"):
		b.handleSubmitModal(ctx, i, customID)
	case strings.HasPrefix(customID, rejectModalPrefix):
		b.handleRejectModal(ctx, i, customID)
	}
}

// handleComponent routes the buttons on the admin review message. A
// double-click lands on the engine's conflict path and comes back as an
// "already reviewed" reply rather than a crash.
func (b *Bot) handleComponent(ctx context.Context, i *discordgo.InteractionCreate) {
	action, id, ok := notify.ParseReviewCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	switch action {
	case "approve":
		b.review(ctx, i, id, &models.ReviewApplicationRequest{Status: models.StatusApproved})
	case "reject":
		b.openRejectModal(i, id)
	case "details":
		b.showDetails(ctx, i, id)
	}
}

// openRejectModal collects the mandatory rejection reason. The engine
// enforces the requirement; the modal just makes the input possible.
func (b *Bot) openRejectModal(i *discordgo.InteractionCreate, id uuid.UUID) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: rejectModalPrefix + id.String(),
			Title:    "Reject Application",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{
					CustomID:  inputRejectReason,
					Label:     "Reason for rejection",
					Style:     discordgo.TextInputParagraph,
					Required:  true,
					MaxLength: 500,
				}}},
			},
		},
	})
	if err != nil {
		b.logger.Warn("failed to open reject modal", "error", err)
	}
}

func (b *Bot) handleRejectModal(ctx context.Context, i *discordgo.InteractionCreate, customID string) {
	id, err := uuid.Parse(strings.TrimPrefix(customID, rejectModalPrefix))
	if err != nil {
		b.replyEphemeral(i, "❌ Application not found.")
		return
	}
	reason := modalValues(i.ModalSubmitData())[inputRejectReason]
	b.review(ctx, i, id, &models.ReviewApplicationRequest{
		Status: models.StatusRejected,
		Reason: &reason,
	})
}

func (b *Bot) review(ctx context.Context, i *discordgo.InteractionCreate, id uuid.UUID, req *models.ReviewApplicationRequest) {
	app, err := b.service.Review(ctx, id, req)
	if err != nil {
		b.replyError(i, err)
		return
	}

	b.replyEphemeral(i, fmt.Sprintf("✅ Application %s successfully.", app.Status))
	b.finalizeReviewMessage(i, app)
}

// finalizeReviewMessage strips the buttons from the admin message and
// appends the decision so later readers see the outcome instead of dead
// controls. Interactions without a source message skip this; the channel
// announcement still carries the outcome.
func (b *Bot) finalizeReviewMessage(i *discordgo.InteractionCreate, app *models.Application) {
	if i.Message == nil {
		return
	}

	reviewer := ""
	if app.ReviewedBy != nil {
		reviewer = *app.ReviewedBy
	}
	color := 0x00FF00
	if app.Status == models.StatusRejected {
		color = 0xFF0000
	}
	embeds := append(i.Message.Embeds, &discordgo.MessageEmbed{
		Color:       color,
		Description: fmt.Sprintf("**%s** by %s at %s", strings.ToUpper(string(app.Status)), reviewer, time.Now().Format(time.RFC1123)),
	})
	components := []discordgo.MessageComponent{}

	_, err := b.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    i.ChannelID,
		ID:         i.Message.ID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		b.logger.Warn("failed to finalize review message", "error", err)
	}
}

// showDetails renders the full application as an ephemeral embed.
func (b *Bot) showDetails(ctx context.Context, i *discordgo.InteractionCreate, id uuid.UUID) {
	app, err := b.service.Get(ctx, id)
	if err != nil {
		b.replyError(i, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       0x6366F1,
		Title:       fmt.Sprintf("📋 Full Application Details - %s", app.CharacterName),
		Description: fmt.Sprintf("**Complete application information for %s**", app.Username),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Applicant Info", Value: fmt.Sprintf("**Discord:** <@%s>\n**Discord ID:** `%s`\n**Steam ID:** `%s`", app.UserID, app.DiscordID, app.SteamID)},
			{Name: "🎭 Character Details", Value: fmt.Sprintf("**Name:** %s\n**Age:** %s\n**Nationality:** %s", app.CharacterName, app.CharacterAge, app.CharacterNationality), Inline: true},
			{Name: "📅 Application Info", Value: fmt.Sprintf("**ID:** `%s`\n**Status:** %s\n**Submitted:** %s", app.ID, app.Status, app.CreatedAt.Format(time.RFC1123)), Inline: true},
			{Name: "📝 About Themselves", Value: truncate(app.AboutYourself)},
			{Name: "🎮 RP Experience", Value: truncate(app.RPExperience)},
			{Name: "📖 Character Backstory", Value: truncate(app.CharacterBackstory)},
		},
	}
	if app.ContentCreation != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🎬 Content Creation", Value: truncate(*app.ContentCreation)})
	}
	if app.PreviousServers != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "🖥️ Previous Servers", Value: truncate(*app.PreviousServers)})
	}

	err = b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("failed to show application details", "error", err)
	}
}

// Discord embed fields cap at 1024 characters.
func truncate(s string) string {
	if len(s) <= 1024 {
		return s
	}
	return s[:1021] + "..."
}
