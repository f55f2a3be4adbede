package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"whitelist/internal/identity"
	"whitelist/internal/token/revocation"
)

type TokenSuite struct {
	suite.Suite
	manager *Manager
	ctx     context.Context
}

func (s *TokenSuite) SetupTest() {
	s.manager = NewManager("test-signing-key", revocation.NewInMemory())
	s.ctx = context.Background()
}

func TestTokenSuite(t *testing.T) {
	suite.Run(t, new(TokenSuite))
}

func (s *TokenSuite) adminRequester() identity.Requester {
	return identity.Requester{
		ID:          "200000000000000001",
		Username:    "admin",
		DisplayName: "Chief Admin",
		AvatarURL:   "https://cdn.example.com/avatar.png",
		IsAdmin:     true,
	}
}

// TestIssueAndValidate verifies the token carries the full requester.
func (s *TokenSuite) TestIssueAndValidate() {
	s.Run("round-trips the requester claims", func() {
		requester := s.adminRequester()
		signed, err := s.manager.Issue(requester, time.Now())
		s.Require().NoError(err)

		parsed, jti, err := s.manager.Validate(s.ctx, signed)
		s.Require().NoError(err)
		s.Equal(requester, parsed)
		s.NotEmpty(jti)
	})

	s.Run("admin flag is fixed at issuance", func() {
		requester := s.adminRequester()
		requester.IsAdmin = false
		signed, err := s.manager.Issue(requester, time.Now())
		s.Require().NoError(err)

		parsed, _, err := s.manager.Validate(s.ctx, signed)
		s.Require().NoError(err)
		s.False(parsed.IsAdmin)
	})

	s.Run("rejects a token signed with another key", func() {
		other := NewManager("different-key", revocation.NewInMemory())
		signed, err := other.Issue(s.adminRequester(), time.Now())
		s.Require().NoError(err)

		_, _, err = s.manager.Validate(s.ctx, signed)
		s.Error(err)
	})

	s.Run("rejects an expired token", func() {
		signed, err := s.manager.Issue(s.adminRequester(), time.Now().Add(-48*time.Hour))
		s.Require().NoError(err)

		_, _, err = s.manager.Validate(s.ctx, signed)
		s.Error(err)
	})

	s.Run("rejects garbage", func() {
		_, _, err := s.manager.Validate(s.ctx, "not-a-token")
		s.Error(err)
	})
}

// TestRevocation verifies logout invalidates the token for good.
func (s *TokenSuite) TestRevocation() {
	s.Run("revoked token stops validating", func() {
		signed, err := s.manager.Issue(s.adminRequester(), time.Now())
		s.Require().NoError(err)

		_, jti, err := s.manager.Validate(s.ctx, signed)
		s.Require().NoError(err)

		s.Require().NoError(s.manager.RevokeByID(s.ctx, jti))

		_, _, err = s.manager.Validate(s.ctx, signed)
		s.Error(err)
	})

	s.Run("revoking one token leaves others valid", func() {
		first, err := s.manager.Issue(s.adminRequester(), time.Now())
		s.Require().NoError(err)
		second, err := s.manager.Issue(s.adminRequester(), time.Now())
		s.Require().NoError(err)

		_, firstJTI, err := s.manager.Validate(s.ctx, first)
		s.Require().NoError(err)
		s.Require().NoError(s.manager.RevokeByID(s.ctx, firstJTI))

		_, _, err = s.manager.Validate(s.ctx, second)
		s.NoError(err)
	})

	s.Run("revoking an empty id is a no-op", func() {
		s.NoError(s.manager.RevokeByID(s.ctx, ""))
	})
}
