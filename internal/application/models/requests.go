package models

import (
	"fmt"
	"strings"

	dErrors "whitelist/pkg/domain-errors"
)

const (
	minAboutWords      = 50
	minExperienceWords = 50
	minBackstoryChars  = 100
)

// SubmitApplicationRequest is the canonical submission payload. Both entry
// adapters (HTTP and Discord) build this exact shape; validation lives here
// and nowhere else.
type SubmitApplicationRequest struct {
	DiscordID            string  `json:"discordId"`
	SteamID              string  `json:"steamId"`
	AboutYourself        string  `json:"aboutYourself"`
	RPExperience         string  `json:"rpExperience"`
	CharacterName        string  `json:"characterName"`
	CharacterAge         string  `json:"characterAge"`
	CharacterNationality string  `json:"characterNationality"`
	CharacterBackstory   string  `json:"characterBackstory"`
	ContentCreation      *string `json:"contentCreation,omitempty"`
	PreviousServers      *string `json:"previousServers,omitempty"`
	RulesRead            bool    `json:"rulesRead"`
	CfxLinked            bool    `json:"cfxLinked"`
}

func (r *SubmitApplicationRequest) Normalize() {
	if r == nil {
		return
	}
	r.DiscordID = strings.TrimSpace(r.DiscordID)
	r.SteamID = strings.TrimSpace(r.SteamID)
	r.AboutYourself = strings.TrimSpace(r.AboutYourself)
	r.RPExperience = strings.TrimSpace(r.RPExperience)
	r.CharacterName = strings.TrimSpace(r.CharacterName)
	r.CharacterAge = strings.TrimSpace(r.CharacterAge)
	r.CharacterNationality = strings.TrimSpace(r.CharacterNationality)
	r.CharacterBackstory = strings.TrimSpace(r.CharacterBackstory)
	r.ContentCreation = normalizeOptional(r.ContentCreation)
	r.PreviousServers = normalizeOptional(r.PreviousServers)
}

// Validate checks every field and returns a single validation error carrying
// all violations, so a caller can present every problem at once.
func (r *SubmitApplicationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	var violations []dErrors.FieldViolation
	addRequired := func(field, value, label string) {
		if value == "" {
			violations = append(violations, dErrors.FieldViolation{
				Field:   field,
				Message: label + " is required",
			})
		}
	}

	if wordCount(r.AboutYourself) < minAboutWords {
		violations = append(violations, dErrors.FieldViolation{
			Field:   "aboutYourself",
			Message: fmt.Sprintf("please provide at least %d words about yourself", minAboutWords),
		})
	}
	if wordCount(r.RPExperience) < minExperienceWords {
		violations = append(violations, dErrors.FieldViolation{
			Field:   "rpExperience",
			Message: fmt.Sprintf("please provide at least %d words about your RP experience", minExperienceWords),
		})
	}
	if len(r.CharacterBackstory) < minBackstoryChars {
		violations = append(violations, dErrors.FieldViolation{
			Field:   "characterBackstory",
			Message: "please provide a detailed character backstory (minimum 3-4 sentences)",
		})
	}
	addRequired("characterAge", r.CharacterAge, "character age")
	addRequired("discordId", r.DiscordID, "Discord ID")
	addRequired("steamId", r.SteamID, "Steam Hex ID")
	addRequired("characterName", r.CharacterName, "character name")
	addRequired("characterNationality", r.CharacterNationality, "character nationality")

	if len(violations) > 0 {
		return dErrors.NewValidation(violations)
	}
	return nil
}

// ReviewApplicationRequest carries an admin decision.
type ReviewApplicationRequest struct {
	Status Status  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

func (r *ReviewApplicationRequest) Normalize() {
	if r == nil {
		return
	}
	r.Status = Status(strings.TrimSpace(strings.ToLower(string(r.Status))))
	r.Reason = normalizeOptional(r.Reason)
}

func (r *ReviewApplicationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Status != StatusApproved && r.Status != StatusRejected {
		return dErrors.New(dErrors.CodeValidation, "status must be 'approved' or 'rejected'")
	}
	if r.Status == StatusRejected && r.Reason == nil {
		return dErrors.New(dErrors.CodeValidation, "a reason is required when rejecting an application")
	}
	return nil
}

// wordCount splits on whitespace runs and discards empty tokens.
func wordCount(s string) int {
	return len(strings.Fields(s))
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
