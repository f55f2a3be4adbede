package discordbot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestSubmitModalIDRoundTrip(t *testing.T) {
	customID := encodeSubmitModalID("110000146218998", true, false)
	steamID, rulesRead, cfxLinked := decodeSubmitModalID(customID)

	assert.Equal(t, "110000146218998", steamID)
	assert.True(t, rulesRead)
	assert.False(t, cfxLinked)
}

func TestDecodeSubmitModalIDMalformed(t *testing.T) {
	steamID, rulesRead, cfxLinked := decodeSubmitModalID("whitelist_application|only-steam")
	assert.Empty(t, steamID)
	assert.False(t, rulesRead)
	assert.False(t, cfxLinked)
}

func TestSplitCharacterDetails(t *testing.T) {
	cases := []struct {
		input       string
		age         string
		nationality string
	}{
		{"25, American", "25", "American"},
		{"25,American", "25", "American"},
		{" 31 , South African ", "31", "South African"},
		{"25", "25", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		age, nationality := splitCharacterDetails(tc.input)
		assert.Equal(t, tc.age, age, tc.input)
		assert.Equal(t, tc.nationality, nationality, tc.input)
	}
}

func TestModalValues(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: inputAbout, Value: "about text"},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: inputName, Value: "Jimmy Hendrix"},
			}},
		},
	}

	values := modalValues(data)
	assert.Equal(t, "about text", values[inputAbout])
	assert.Equal(t, "Jimmy Hendrix", values[inputName])
}
