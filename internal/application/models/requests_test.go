package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "whitelist/pkg/domain-errors"
)

// SubmitRequestSuite tests SubmitApplicationRequest validation and
// normalization.
type SubmitRequestSuite struct {
	suite.Suite
}

func TestSubmitRequestSuite(t *testing.T) {
	suite.Run(t, new(SubmitRequestSuite))
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func (s *SubmitRequestSuite) validRequest() *SubmitApplicationRequest {
	return &SubmitApplicationRequest{
		DiscordID:            "123456789012345678",
		SteamID:              "110000146218998",
		AboutYourself:        words(60),
		RPExperience:         words(55),
		CharacterName:        "Jimmy Hendrix",
		CharacterAge:         "28",
		CharacterNationality: "American",
		CharacterBackstory:   strings.Repeat("Born and raised in a small town, moved to the city chasing work. ", 3),
	}
}

// TestValidation verifies the canonical submission rules.
func (s *SubmitRequestSuite) TestValidation() {
	s.Run("valid request passes", func() {
		req := s.validRequest()
		req.Normalize()
		s.NoError(req.Validate())
	})

	s.Run("about yourself below fifty words rejected", func() {
		req := s.validRequest()
		req.AboutYourself = words(49)

		err := req.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.fieldViolated(err, "aboutYourself")
	})

	s.Run("exactly fifty words allowed", func() {
		req := s.validRequest()
		req.AboutYourself = words(50)
		s.NoError(req.Validate())
	})

	s.Run("word count ignores whitespace runs", func() {
		req := s.validRequest()
		req.RPExperience = strings.ReplaceAll(words(50), " ", "   \n")
		s.NoError(req.Validate())
	})

	s.Run("short backstory rejected", func() {
		req := s.validRequest()
		req.CharacterBackstory = "Too short."

		err := req.Validate()
		s.Require().Error(err)
		s.fieldViolated(err, "characterBackstory")
	})

	s.Run("all violations reported at once", func() {
		req := &SubmitApplicationRequest{}
		req.Normalize()

		err := req.Validate()
		s.Require().Error(err)
		violations := dErrors.Violations(err)
		s.Len(violations, 8)
		for _, field := range []string{
			"discordId", "steamId", "aboutYourself", "rpExperience",
			"characterName", "characterAge", "characterNationality", "characterBackstory",
		} {
			s.fieldViolated(err, field)
		}
	})

	s.Run("nil request rejected", func() {
		var req *SubmitApplicationRequest
		err := req.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

// TestNormalization verifies trimming and optional field handling.
func (s *SubmitRequestSuite) TestNormalization() {
	s.Run("trims surrounding whitespace", func() {
		req := s.validRequest()
		req.SteamID = "  110000146218998  "
		req.CharacterName = "\tJimmy Hendrix\n"
		req.Normalize()

		s.Equal("110000146218998", req.SteamID)
		s.Equal("Jimmy Hendrix", req.CharacterName)
	})

	s.Run("blank optional fields become nil", func() {
		req := s.validRequest()
		blank := "   "
		req.ContentCreation = &blank
		req.PreviousServers = nil
		req.Normalize()

		s.Nil(req.ContentCreation)
		s.Nil(req.PreviousServers)
	})

	s.Run("filled optional fields survive", func() {
		req := s.validRequest()
		channel := " https://youtube.com/@jimmy "
		req.ContentCreation = &channel
		req.Normalize()

		s.Require().NotNil(req.ContentCreation)
		s.Equal("https://youtube.com/@jimmy", *req.ContentCreation)
	})
}

func (s *SubmitRequestSuite) fieldViolated(err error, field string) {
	s.T().Helper()
	for _, v := range dErrors.Violations(err) {
		if v.Field == field {
			return
		}
	}
	s.Failf("missing violation", "expected a violation for field %q", field)
}

// ReviewRequestSuite tests ReviewApplicationRequest validation.
type ReviewRequestSuite struct {
	suite.Suite
}

func TestReviewRequestSuite(t *testing.T) {
	suite.Run(t, new(ReviewRequestSuite))
}

// TestValidation verifies the decision rules.
func (s *ReviewRequestSuite) TestValidation() {
	s.Run("approval needs no reason", func() {
		req := &ReviewApplicationRequest{Status: StatusApproved}
		s.NoError(req.Validate())
	})

	s.Run("rejection requires a reason", func() {
		req := &ReviewApplicationRequest{Status: StatusRejected}
		err := req.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejection with reason passes", func() {
		reason := "Backstory does not fit the server lore"
		req := &ReviewApplicationRequest{Status: StatusRejected, Reason: &reason}
		s.NoError(req.Validate())
	})

	s.Run("pending is not a decision", func() {
		req := &ReviewApplicationRequest{Status: StatusPending}
		err := req.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("blank rejection reason normalizes away and fails", func() {
		blank := "  "
		req := &ReviewApplicationRequest{Status: StatusRejected, Reason: &blank}
		req.Normalize()
		s.Error(req.Validate())
	})

	s.Run("status case and whitespace normalized", func() {
		req := &ReviewApplicationRequest{Status: " Approved "}
		req.Normalize()
		s.Equal(StatusApproved, req.Status)
	})
}
