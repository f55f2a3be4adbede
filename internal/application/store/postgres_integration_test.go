//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"whitelist/internal/application/models"
	"whitelist/internal/application/store"
	"whitelist/pkg/platform/sentinel"
	"whitelist/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "applications"))
}

func newTestApplication(username string) *models.Application {
	servers := "played on two other city servers"
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
		PreviousServers:      &servers,
		RulesRead:            true,
		Status:               models.StatusPending,
		CreatedAt:            time.Now().UTC().Truncate(time.Microsecond),
	}
}

// TestRoundTrip verifies persistence of every column including nullables.
func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	app := newTestApplication("jimmy")
	s.Require().NoError(s.store.Create(ctx, app))

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(app.Username, found.Username)
	s.Equal(app.SteamID, found.SteamID)
	s.Equal(models.StatusPending, found.Status)
	s.Nil(found.ContentCreation)
	s.Require().NotNil(found.PreviousServers)
	s.Equal(*app.PreviousServers, *found.PreviousServers)
	s.True(found.RulesRead)
	s.False(found.CfxLinked)
	s.Nil(found.ReviewedBy)
	s.Nil(found.ReviewedAt)
	s.WithinDuration(app.CreatedAt, found.CreatedAt, time.Millisecond)
}

// TestInsertionOrder verifies List returns rows in creation order.
func (s *PostgresStoreSuite) TestInsertionOrder() {
	ctx := context.Background()
	names := []string{"first", "second", "third"}
	for _, name := range names {
		s.Require().NoError(s.store.Create(ctx, newTestApplication(name)))
	}

	apps, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(apps, len(names))
	for i, name := range names {
		s.Equal(name, apps[i].Username)
	}
}

// TestApplyReview verifies the conditional UPDATE transition.
func (s *PostgresStoreSuite) TestApplyReview() {
	ctx := context.Background()
	app := newTestApplication("jimmy")
	s.Require().NoError(s.store.Create(ctx, app))

	reason := "backstory too thin"
	reviewed, err := s.store.ApplyReview(ctx, app.ID, models.Review{
		Status:     models.StatusRejected,
		ReviewedBy: "admin",
		Reason:     &reason,
		ReviewedAt: time.Now().UTC(),
	})
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, reviewed.Status)
	s.Require().NotNil(reviewed.ReviewReason)
	s.Equal(reason, *reviewed.ReviewReason)

	_, err = s.store.ApplyReview(ctx, app.ID, models.Review{
		Status:     models.StatusApproved,
		ReviewedBy: "other-admin",
		ReviewedAt: time.Now().UTC(),
	})
	s.ErrorIs(err, sentinel.ErrAlreadyReviewed)

	_, err = s.store.ApplyReview(ctx, uuid.New(), models.Review{
		Status:     models.StatusApproved,
		ReviewedBy: "admin",
		ReviewedAt: time.Now().UTC(),
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentReviews verifies that of many racing reviews exactly one
// commits and everyone else observes the already-reviewed state.
func (s *PostgresStoreSuite) TestConcurrentReviews() {
	ctx := context.Background()
	app := newTestApplication("contested")
	s.Require().NoError(s.store.Create(ctx, app))

	const goroutines = 50

	var wg sync.WaitGroup
	var wins, conflicts atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			status := models.StatusApproved
			var reason *string
			if idx%2 == 1 {
				status = models.StatusRejected
				r := "lost the race"
				reason = &r
			}
			_, err := s.store.ApplyReview(ctx, app.ID, models.Review{
				Status:     status,
				ReviewedBy: "racer",
				Reason:     reason,
				ReviewedAt: time.Now().UTC(),
			})
			if err == nil {
				wins.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyReviewed) {
				conflicts.Add(1)
			}
		}(i)
	}

	wg.Wait()

	s.Equal(int32(1), wins.Load(), "exactly one review should commit")
	s.Equal(int32(goroutines-1), conflicts.Load(), "all others should observe the conflict")

	found, err := s.store.FindByID(ctx, app.ID)
	s.Require().NoError(err)
	s.True(found.Status.IsTerminal())
	s.NotNil(found.ReviewedBy)
	s.NotNil(found.ReviewedAt)
}

// TestDelete verifies removal and the not-found sentinel.
func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	app := newTestApplication("gone")
	s.Require().NoError(s.store.Create(ctx, app))

	s.Require().NoError(s.store.Delete(ctx, app.ID))

	_, err := s.store.FindByID(ctx, app.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Delete(ctx, uuid.New()), sentinel.ErrNotFound)
}
