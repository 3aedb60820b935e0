package artwork

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/sec"
)

type stubRepository struct {
	artworks map[string]*Artwork
}

func newStubRepository() *stubRepository {
	return &stubRepository{artworks: map[string]*Artwork{}}
}

func (s *stubRepository) List(_ context.Context, _ Filter, _, _ int) ([]*Artwork, int, error) {
	return nil, 0, nil
}

func (s *stubRepository) Get(_ context.Context, id string) (*Artwork, error) {
	a, ok := s.artworks[id]
	if !ok {
		return nil, apperr.NotFound("Artwork")
	}
	clone := *a
	return &clone, nil
}

func (s *stubRepository) GetBySlug(_ context.Context, slug string) (*Artwork, error) {
	for _, a := range s.artworks {
		if a.Slug == slug {
			clone := *a
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Artwork")
}

func (s *stubRepository) Create(_ context.Context, a *Artwork) error {
	s.artworks[a.ID] = a
	return nil
}

func (s *stubRepository) Update(_ context.Context, a *Artwork) error {
	s.artworks[a.ID] = a
	return nil
}

func (s *stubRepository) SetStatus(_ context.Context, id string, status Status) error {
	a, ok := s.artworks[id]
	if !ok {
		return apperr.NotFound("Artwork")
	}
	a.Status = status
	return nil
}

func (s *stubRepository) Delete(_ context.Context, id string) error {
	delete(s.artworks, id)
	return nil
}

func newTestService() (*Service, *stubRepository) {
	repo := newStubRepository()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func validArtwork() *Artwork {
	return &Artwork{
		ArtistID: "22222222-2222-7222-8222-222222222222",
		Title:    "Desert Rose",
		Price:    250000,
	}
}

/*
TestService_Create checks seller gating and the draft/currency defaults.
*/
func TestService_Create(t *testing.T) {
	service, _ := newTestService()

	t.Run("collector_forbidden", func(t *testing.T) {
		err := service.Create(context.Background(), "user-1", sec.RoleCollector, validArtwork())
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("defaults_applied", func(t *testing.T) {
		a := validArtwork()
		require.NoError(t, service.Create(context.Background(), "seller-1", sec.RoleArtist, a))
		assert.Equal(t, StatusDraft, a.Status)
		assert.Equal(t, "SAR", a.Currency)
		assert.Equal(t, "desert-rose", a.Slug)
		assert.Equal(t, "seller-1", a.OwnerID)
		assert.NotEmpty(t, a.ID)
	})

	t.Run("missing_title_rejected", func(t *testing.T) {
		a := validArtwork()
		a.Title = ""
		err := service.Create(context.Background(), "seller-1", sec.RoleArtist, a)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestService_Update_FrozenInAuction checks that an artwork cannot be edited
or deleted while it is attached to a running auction.
*/
func TestService_Update_FrozenInAuction(t *testing.T) {
	service, repo := newTestService()

	a := validArtwork()
	require.NoError(t, service.Create(context.Background(), "seller-1", sec.RoleArtist, a))
	require.NoError(t, repo.SetStatus(context.Background(), a.ID, StatusInAuction))

	_, err := service.Update(context.Background(), "seller-1", sec.RoleArtist, a.ID, validArtwork())
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	err = service.Delete(context.Background(), "seller-1", sec.RoleArtist, a.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// Settlement releases the freeze.
	require.NoError(t, service.SetStatus(context.Background(), a.ID, StatusSold))
	err = service.Delete(context.Background(), "seller-1", sec.RoleArtist, a.ID)
	assert.NoError(t, err)
}

func TestService_Update_Authorization(t *testing.T) {
	service, _ := newTestService()

	a := validArtwork()
	require.NoError(t, service.Create(context.Background(), "seller-1", sec.RoleArtist, a))

	_, err := service.Update(context.Background(), "stranger", sec.RoleArtist, a.ID, validArtwork())
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// Moderators may edit any listing.
	_, err = service.Update(context.Background(), "staff-1", sec.RoleModerator, a.ID, validArtwork())
	assert.NoError(t, err)
}
