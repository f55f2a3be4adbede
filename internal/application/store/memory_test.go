package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"whitelist/internal/application/models"
	"whitelist/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newApplication(username string) *models.Application {
	return &models.Application{
		ID:                   uuid.New(),
		UserID:               uuid.NewString(),
		Username:             username,
		DiscordID:            "123456789012345678",
		SteamID:              "110000146218998",
		AboutYourself:        "about",
		RPExperience:         "experience",
		CharacterName:        "Jimmy Hendrix",
		CharacterAge:         "28",
		CharacterNationality: "American",
		CharacterBackstory:   "backstory",
		Status:               models.StatusPending,
		CreatedAt:            time.Now(),
	}
}

func (s *MemoryStoreSuite) approval(by string) models.Review {
	return models.Review{
		Status:     models.StatusApproved,
		ReviewedBy: by,
		ReviewedAt: time.Now(),
	}
}

// TestCreationAndLookups verifies the store creates and retrieves applications.
func (s *MemoryStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds application by ID", func() {
		app := s.newApplication("jimmy")
		s.Require().NoError(s.store.Create(s.ctx, app))

		found, err := s.store.FindByID(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(app.Username, found.Username)
		s.Equal(models.StatusPending, found.Status)
		s.Nil(found.ReviewedBy)
		s.Nil(found.ReviewedAt)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns copies, not the stored record", func() {
		app := s.newApplication("copy")
		s.Require().NoError(s.store.Create(s.ctx, app))

		found, err := s.store.FindByID(s.ctx, app.ID)
		s.Require().NoError(err)
		found.Username = "mutated"

		again, err := s.store.FindByID(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal("copy", again.Username)
	})
}

// TestListing verifies insertion order and status filtering.
func (s *MemoryStoreSuite) TestListing() {
	s.Run("lists in insertion order", func() {
		first := s.newApplication("first")
		second := s.newApplication("second")
		third := s.newApplication("third")
		for _, app := range []*models.Application{first, second, third} {
			s.Require().NoError(s.store.Create(s.ctx, app))
		}

		apps, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(apps, 3)
		s.Equal("first", apps[0].Username)
		s.Equal("second", apps[1].Username)
		s.Equal("third", apps[2].Username)
	})

	s.Run("filters by status preserving order", func() {
		approved := s.newApplication("approved-one")
		pending := s.newApplication("still-pending")
		s.Require().NoError(s.store.Create(s.ctx, approved))
		s.Require().NoError(s.store.Create(s.ctx, pending))

		_, err := s.store.ApplyReview(s.ctx, approved.ID, s.approval("admin"))
		s.Require().NoError(err)

		apps, err := s.store.ListByStatus(s.ctx, models.StatusPending)
		s.Require().NoError(err)
		for _, app := range apps {
			s.Equal(models.StatusPending, app.Status)
		}

		apps, err = s.store.ListByStatus(s.ctx, models.StatusApproved)
		s.Require().NoError(err)
		s.Require().Len(apps, 1)
		s.Equal("approved-one", apps[0].Username)
	})
}

// TestApplyReview verifies the compare-and-swap transition.
func (s *MemoryStoreSuite) TestApplyReview() {
	s.Run("transitions a pending application exactly once", func() {
		app := s.newApplication("jimmy")
		s.Require().NoError(s.store.Create(s.ctx, app))

		reason := "no effort"
		reviewed, err := s.store.ApplyReview(s.ctx, app.ID, models.Review{
			Status:     models.StatusRejected,
			ReviewedBy: "admin",
			Reason:     &reason,
			ReviewedAt: time.Now(),
		})
		s.Require().NoError(err)
		s.Equal(models.StatusRejected, reviewed.Status)
		s.Require().NotNil(reviewed.ReviewedBy)
		s.Equal("admin", *reviewed.ReviewedBy)
		s.Require().NotNil(reviewed.ReviewReason)
		s.Equal(reason, *reviewed.ReviewReason)
		s.NotNil(reviewed.ReviewedAt)
	})

	s.Run("second review observes ErrAlreadyReviewed", func() {
		app := s.newApplication("jimmy")
		s.Require().NoError(s.store.Create(s.ctx, app))

		_, err := s.store.ApplyReview(s.ctx, app.ID, s.approval("first-admin"))
		s.Require().NoError(err)

		_, err = s.store.ApplyReview(s.ctx, app.ID, s.approval("second-admin"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyReviewed)

		found, err := s.store.FindByID(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, found.Status)
		s.Equal("first-admin", *found.ReviewedBy)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.ApplyReview(s.ctx, uuid.New(), s.approval("admin"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("exactly one of two racing reviews wins", func() {
		app := s.newApplication("contested")
		s.Require().NoError(s.store.Create(s.ctx, app))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = s.store.ApplyReview(s.ctx, app.ID, s.approval("racer"))
			}(i)
		}
		wg.Wait()

		var wins, conflicts int
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case s.ErrorIs(err, sentinel.ErrAlreadyReviewed):
				conflicts++
			}
		}
		s.Equal(1, wins)
		s.Equal(1, conflicts)
	})
}

// TestDelete verifies removal.
func (s *MemoryStoreSuite) TestDelete() {
	s.Run("removes an application regardless of status", func() {
		app := s.newApplication("gone")
		s.Require().NoError(s.store.Create(s.ctx, app))
		_, err := s.store.ApplyReview(s.ctx, app.ID, s.approval("admin"))
		s.Require().NoError(err)

		s.Require().NoError(s.store.Delete(s.ctx, app.ID))

		_, err = s.store.FindByID(s.ctx, app.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		s.ErrorIs(s.store.Delete(s.ctx, uuid.New()), sentinel.ErrNotFound)
	})

	s.Run("deleted application leaves the listing", func() {
		keep := s.newApplication("keep")
		drop := s.newApplication("drop")
		s.Require().NoError(s.store.Create(s.ctx, keep))
		s.Require().NoError(s.store.Create(s.ctx, drop))

		s.Require().NoError(s.store.Delete(s.ctx, drop.ID))

		apps, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		for _, app := range apps {
			s.NotEqual(drop.ID, app.ID)
		}
	})
}
