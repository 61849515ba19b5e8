package models_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/mocks"
	"devevent/models"
)

func ptr[T any](v T) *T { return &v }

func fullPatch(title string) models.EventPatch {
	return models.EventPatch{
		Title:       ptr(title),
		Description: ptr("Talks and workshops"),
		Overview:    ptr("A full day"),
		Image:       ptr("/images/event1.png"),
		Venue:       ptr("Hall A"),
		Location:    ptr("Berlin"),
		Date:        ptr("2025-6-1"),
		Time:        ptr("9:00 AM"),
		Mode:        ptr("Offline"),
		Audience:    ptr("Gophers"),
		Agenda:      ptr([]string{"Keynote", "Lunch"}),
		Organizer:   ptr("Go Berlin"),
		Tags:        ptr([]string{"go", "cloud"}),
	}
}

func TestEventServiceCreate(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewEventRepo()
	svc := models.NewEventService(repo)

	e, err := svc.Create(ctx, fullPatch("GopherCon EU 2025"))
	require.NoError(t, err)
	assert.False(t, e.ID.IsZero())
	assert.Equal(t, "gophercon-eu-2025", e.Slug)
	assert.Equal(t, "2025-06-01", e.Date)
	assert.Equal(t, "09:00", e.Time)
	assert.Equal(t, models.ModeOffline, e.Mode)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	stored, err := repo.GetBySlug(ctx, "gophercon-eu-2025")
	require.NoError(t, err)
	assert.Equal(t, e.ID, stored.ID)

	// same slug twice hits the unique index
	_, err = svc.Create(ctx, fullPatch("GopherCon EU 2025!"))
	assert.ErrorIs(t, err, mocks.ErrDuplicateSlug)
	assert.Len(t, repo.Items, 1)
}

func TestEventServiceCreateInvalid(t *testing.T) {
	repo := mocks.NewEventRepo()
	svc := models.NewEventService(repo)

	p := fullPatch("Bad Event")
	p.Mode = ptr("VIRTUAL")
	_, err := svc.Create(context.Background(), p)
	assert.ErrorIs(t, err, models.ErrInvalidMode)
	assert.Empty(t, repo.Items)
}

func TestEventServiceUpdate(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewEventRepo()
	svc := models.NewEventService(repo)

	orig, err := svc.Create(ctx, fullPatch("Cloud Summit"))
	require.NoError(t, err)

	// unchanged title keeps the slug
	e, err := svc.Update(ctx, "cloud-summit", models.EventPatch{Venue: ptr("Hall B"), Title: ptr("Cloud Summit")})
	require.NoError(t, err)
	assert.Equal(t, "cloud-summit", e.Slug)
	assert.Equal(t, "Hall B", e.Venue)
	assert.Equal(t, orig.ID, e.ID)
	assert.Equal(t, orig.CreatedAt, e.CreatedAt)

	e, err = svc.Update(ctx, "cloud-summit", models.EventPatch{Title: ptr("Cloud Summit Reloaded"), Time: ptr("6:30 pm")})
	require.NoError(t, err)
	assert.Equal(t, "cloud-summit-reloaded", e.Slug)
	assert.Equal(t, "18:30", e.Time)

	_, err = repo.GetBySlug(ctx, "cloud-summit")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Update(ctx, "missing", models.EventPatch{Venue: ptr("x")})
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestSimilarEventsBySlug(t *testing.T) {
	ctx := context.Background()
	a := storedEvent("A", "a", "go", "cloud")
	b := storedEvent("B", "b", "cloud")
	c := storedEvent("C", "c", "rust")
	repo := mocks.NewEventRepo(a, b, c)

	similar := models.SimilarEventsBySlug(ctx, repo, "a")
	require.Len(t, similar, 1)
	assert.Equal(t, "b", similar[0].Slug)

	assert.Empty(t, models.SimilarEventsBySlug(ctx, repo, "c"))

	missing := models.SimilarEventsBySlug(ctx, repo, "nope")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

const seedYAML = `
events:
  - title: React Conference 2025
    description: React talks
    overview: Two days of React
    image: /images/event1.png
    venue: Moscone Center
    location: San Francisco, CA
    date: "2025-11-15"
    time: "9:00 AM"
    mode: hybrid
    audience: Frontend developers
    agenda: [Keynote, Workshops]
    organizer: React Community
    tags: [react, javascript]
  - title: KubeCon 2025
    description: Cloud native
    overview: The cloud native conference
    image: /images/event2.png
    venue: Excel
    location: London, UK
    date: "2025-04-01"
    time: "10:00"
    mode: offline
    audience: Platform engineers
    agenda: [Keynote]
    organizer: CNCF
    tags: [kubernetes]
`

func TestSeed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	f, err := models.LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, f.Events, 2)

	repo := mocks.NewEventRepo()
	svc := models.NewEventService(repo)

	res, err := models.Seed(ctx, repo, svc, f)
	require.NoError(t, err)
	assert.Equal(t, models.SeedResult{Created: 2}, res)

	e, err := repo.GetBySlug(ctx, "react-conference-2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-15", e.Date)
	assert.Equal(t, "09:00", e.Time)

	res, err = models.Seed(ctx, repo, svc, f)
	require.NoError(t, err)
	assert.Equal(t, models.SeedResult{Skipped: 2}, res)
	assert.Len(t, repo.Items, 2)
}

func TestLoadSeedFileMissing(t *testing.T) {
	_, err := models.LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
