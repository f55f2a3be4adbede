package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"whitelist/internal/application/models"
)

const (
	colorPending  = 0xFFFF00
	colorApproved = 0xADFF2F
	colorRejected = 0xFF4444
)

// Custom ID scheme shared between the review message this notifier posts and
// the Discord adapter that handles the resulting button interactions.
const (
	actionApprove = "approve"
	actionReject  = "reject"
	actionDetails = "details"
)

func ApproveCustomID(id uuid.UUID) string { return actionApprove + "_" + id.String() }
func RejectCustomID(id uuid.UUID) string  { return actionReject + "_" + id.String() }
func DetailsCustomID(id uuid.UUID) string { return actionDetails + "_" + id.String() }

// ParseReviewCustomID splits a button custom ID into its action and
// application id. ok is false for component IDs this system does not own.
func ParseReviewCustomID(customID string) (action string, id uuid.UUID, ok bool) {
	action, raw, found := strings.Cut(customID, "_")
	if !found {
		return "", uuid.Nil, false
	}
	switch action {
	case actionApprove, actionReject, actionDetails:
	default:
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", uuid.Nil, false
	}
	return action, id, true
}

// Discord posts outcome embeds to the configured guild channels. All sends
// are synchronous against the Discord REST API; the caller decides how to
// treat failures.
type Discord struct {
	session            *discordgo.Session
	applicationChannel string
	logChannel         string
	adminRoleID        string
	logger             *slog.Logger
}

func NewDiscord(session *discordgo.Session, applicationChannel, logChannel, adminRoleID string, logger *slog.Logger) *Discord {
	return &Discord{
		session:            session,
		applicationChannel: applicationChannel,
		logChannel:         logChannel,
		adminRoleID:        adminRoleID,
		logger:             logger,
	}
}

// NotifySubmitted posts the admin review message (with approve/reject/details
// buttons) to the log channel and a short confirmation to the application
// channel.
func (d *Discord) NotifySubmitted(ctx context.Context, app *models.Application) error {
	if d.logChannel != "" {
		embed := &discordgo.MessageEmbed{
			Color: colorPending,
			Title: "🔔 New Whitelist Application",
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Applicant", Value: app.Username, Inline: true},
				{Name: "Application ID", Value: "`" + app.ID.String() + "`", Inline: true},
				{Name: "Character Name", Value: app.CharacterName, Inline: true},
				{Name: "Discord ID", Value: "`" + app.DiscordID + "`", Inline: true},
				{Name: "Steam ID", Value: "`" + app.SteamID + "`", Inline: true},
				{Name: "About", Value: truncateField(app.AboutYourself)},
				{Name: "RP Experience", Value: truncateField(app.RPExperience)},
			},
		}
		var content string
		if d.adminRoleID != "" {
			content = fmt.Sprintf("<@&%s>", d.adminRoleID)
		}
		_, err := d.session.ChannelMessageSendComplex(d.logChannel, &discordgo.MessageSend{
			Content: content,
			Embeds:  []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "✅ Approve", Style: discordgo.SuccessButton, CustomID: ApproveCustomID(app.ID)},
					discordgo.Button{Label: "❌ Reject", Style: discordgo.DangerButton, CustomID: RejectCustomID(app.ID)},
					discordgo.Button{Label: "📋 Details", Style: discordgo.SecondaryButton, CustomID: DetailsCustomID(app.ID)},
				}},
			},
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("send review message: %w", err)
		}
	}

	if d.applicationChannel != "" {
		embed := &discordgo.MessageEmbed{
			Color:       0x00FF00,
			Title:       "📝 Application Submitted",
			Description: fmt.Sprintf("**%s** has submitted a whitelist application.", app.Username),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Character", Value: app.CharacterName, Inline: true},
				{Name: "Application ID", Value: "`" + app.ID.String() + "`", Inline: true},
				{Name: "Status", Value: "⏳ Pending Review", Inline: true},
			},
		}
		_, err := d.session.ChannelMessageSendEmbed(d.applicationChannel, embed, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("send submission log: %w", err)
		}
	}
	return nil
}

// Notify announces the review decision in the application channel and drops a
// one-line audit note in the log channel.
func (d *Discord) Notify(ctx context.Context, app *models.Application, reviewerDisplayName string, outcome Outcome) error {
	if d.applicationChannel != "" {
		var send *discordgo.MessageSend
		if outcome == OutcomeApproved {
			send = d.approvalMessage(app, reviewerDisplayName)
		} else {
			send = d.rejectionMessage(app, reviewerDisplayName)
		}
		if _, err := d.session.ChannelMessageSendComplex(d.applicationChannel, send, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("send %s message: %w", outcome, err)
		}
	}

	if d.logChannel != "" {
		line := fmt.Sprintf("✅ **%s** approved by **%s**", app.Username, reviewerDisplayName)
		if outcome == OutcomeRejected {
			line = fmt.Sprintf("❌ **%s** rejected by **%s**", app.Username, reviewerDisplayName)
		}
		if _, err := d.session.ChannelMessageSend(d.logChannel, line, discordgo.WithContext(ctx)); err != nil {
			// The community-facing message already went out; a missing log
			// line is not worth failing the whole notification over.
			d.logger.WarnContext(ctx, "failed to send review log line",
				"application_id", app.ID,
				"error", err,
			)
		}
	}
	return nil
}

func (d *Discord) approvalMessage(app *models.Application, reviewer string) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Color:       colorApproved,
		Title:       "🎉 WELCOME TO LOS SANTOS!",
		Description: "**YOUR VISA HAS BEEN GRANTED**",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Applicant", Value: fmt.Sprintf("<@%s>", app.UserID), Inline: true},
			{Name: "Character", Value: app.CharacterName, Inline: true},
			{Name: "Approved By", Value: reviewer, Inline: true},
		},
	}
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("🎭 **Congratulations <@%s>!** Your whitelist application has been **APPROVED**!", app.UserID),
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
}

func (d *Discord) rejectionMessage(app *models.Application, reviewer string) *discordgo.MessageSend {
	reason := "Application did not meet requirements"
	if app.ReviewReason != nil {
		reason = *app.ReviewReason
	}
	embed := &discordgo.MessageEmbed{
		Color:       colorRejected,
		Title:       "❌ SORRY BUT WE DIDN'T MAKE IT",
		Description: "**YOUR VISA HAS BEEN REJECTED**",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Applicant", Value: fmt.Sprintf("<@%s>", app.UserID), Inline: true},
			{Name: "Reason", Value: reason, Inline: true},
			{Name: "Rejected By", Value: reviewer, Inline: true},
		},
	}
	return &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s> Your whitelist application has been **REJECTED**.", app.UserID),
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
}

// Discord embed fields cap at 1024 characters.
func truncateField(s string) string {
	if len(s) <= 1024 {
		return s
	}
	return s[:1021] + "..."
}
