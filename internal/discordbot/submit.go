package discordbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"whitelist/internal/application/models"
)

// Modal custom IDs. The submission modal encodes the command options in its
// custom ID because Discord does not carry command state across to the modal
// submit interaction.
const (
	submitModalPrefix = "whitelist_application"

	inputAbout      = "about_yourself"
	inputExperience = "rp_experience"
	inputName       = "character_name"
	inputDetails    = "character_details"
	inputBackstory  = "character_backstory"
)

// handleWhitelistCommand guards the designated channel and opens the
// submission modal. Discord caps modals at five inputs, so the Steam ID and
// the boolean attestations travel as command options and the five free-text
// fields fill the modal; together they form the same canonical payload the
// web form submits.
func (b *Bot) handleWhitelistCommand(_ context.Context, i *discordgo.InteractionCreate) {
	if b.cfg.ApplicationChannelID != "" && i.ChannelID != b.cfg.ApplicationChannelID {
		b.replyEphemeral(i, "❌ This command can only be used in the designated whitelist channel.")
		return
	}

	var steamID string
	var rulesRead, cfxLinked bool
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case optionSteamID:
			steamID = opt.StringValue()
		case optionRulesRead:
			rulesRead = opt.BoolValue()
		case optionCfxLinked:
			cfxLinked = opt.BoolValue()
		}
	}

	modal := &discordgo.InteractionResponseData{
		CustomID: encodeSubmitModalID(steamID, rulesRead, cfxLinked),
		Title:    "Whitelist Application",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{
				CustomID:  inputAbout,
				Label:     "Tell us about yourself (50 words minimum)",
				Style:     discordgo.TextInputParagraph,
				Required:  true,
				MaxLength: 1000,
			}}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{
				CustomID:  inputExperience,
				Label:     "RP experience & motivation (50 words minimum)",
				Style:     discordgo.TextInputParagraph,
				Required:  true,
				MaxLength: 1000,
			}}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{
				CustomID: inputName,
				Label:    "Character full name",
				Style:    discordgo.TextInputShort,
				Required: true,
			}}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{
				CustomID:    inputDetails,
				Label:       "Character age and nationality",
				Style:       discordgo.TextInputShort,
				Required:    true,
				Placeholder: "25, American",
			}}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{
				CustomID:  inputBackstory,
				Label:     "Character backstory (3-4 sentences minimum)",
				Style:     discordgo.TextInputParagraph,
				Required:  true,
				MaxLength: 2000,
			}}},
		},
	}

	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: modal,
	})
	if err != nil {
		b.logger.Warn("failed to open submission modal", "error", err)
	}
}

// handleSubmitModal maps the modal values onto the canonical submission
// payload and funnels it through the engine. All validation happens there.
func (b *Bot) handleSubmitModal(ctx context.Context, i *discordgo.InteractionCreate, customID string) {
	steamID, rulesRead, cfxLinked := decodeSubmitModalID(customID)
	values := modalValues(i.ModalSubmitData())
	age, nationality := splitCharacterDetails(values[inputDetails])

	var discordID string
	if i.Member != nil && i.Member.User != nil {
		discordID = i.Member.User.ID
	}
	req := &models.SubmitApplicationRequest{
		DiscordID:            discordID,
		SteamID:              steamID,
		AboutYourself:        values[inputAbout],
		RPExperience:         values[inputExperience],
		CharacterName:        values[inputName],
		CharacterAge:         age,
		CharacterNationality: nationality,
		CharacterBackstory:   values[inputBackstory],
		RulesRead:            rulesRead,
		CfxLinked:            cfxLinked,
	}
	app, err := b.service.Submit(ctx, req)
	if err != nil {
		b.replyError(i, err)
		return
	}

	b.replyEphemeral(i, fmt.Sprintf(
		"✅ **Application Submitted Successfully!**\n\nThank you <@%s>! Your whitelist application is now under review.\n\n**Application ID:** `%s`",
		app.UserID, app.ID,
	))
}

func encodeSubmitModalID(steamID string, rulesRead, cfxLinked bool) string {
	return strings.Join([]string{submitModalPrefix, steamID, boolFlag(rulesRead), boolFlag(cfxLinked)}, "|")
}

func decodeSubmitModalID(customID string) (steamID string, rulesRead, cfxLinked bool) {
	parts := strings.Split(customID, "|")
	if len(parts) != 4 {
		return "", false, false
	}
	return parts[1], parts[2] == "1", parts[3] == "1"
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// splitCharacterDetails parses "age, nationality" from the combined input.
// Malformed input passes through as-is and fails canonical validation with a
// field-level message instead of being guessed at here.
func splitCharacterDetails(details string) (age, nationality string) {
	age, nationality, found := strings.Cut(details, ",")
	if !found {
		return strings.TrimSpace(details), ""
	}
	return strings.TrimSpace(age), strings.TrimSpace(nationality)
}

func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, component := range actionsRow.Components {
			if input, ok := component.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}
