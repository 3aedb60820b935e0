package workshop

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/sec"
)

// stubRepository enforces the same seat accounting as the Postgres store:
// a registration past capacity fails with [ErrFull] and a second claim by
// the same user conflicts.
type stubRepository struct {
	workshops     map[string]*Workshop
	registrations map[string]map[string]bool
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		workshops:     map[string]*Workshop{},
		registrations: map[string]map[string]bool{},
	}
}

func (s *stubRepository) List(_ context.Context, _ Filter, _, _ int) ([]*Workshop, int, error) {
	return nil, 0, nil
}

func (s *stubRepository) Get(_ context.Context, id string) (*Workshop, error) {
	w, ok := s.workshops[id]
	if !ok {
		return nil, apperr.NotFound("Workshop")
	}
	clone := *w
	return &clone, nil
}

func (s *stubRepository) Create(_ context.Context, w *Workshop) error {
	s.workshops[w.ID] = w
	return nil
}

func (s *stubRepository) Update(_ context.Context, w *Workshop) error {
	s.workshops[w.ID] = w
	return nil
}

func (s *stubRepository) Delete(_ context.Context, id string) error {
	delete(s.workshops, id)
	return nil
}

func (s *stubRepository) Register(_ context.Context, workshopID, userID string) (*Registration, error) {
	w, ok := s.workshops[workshopID]
	if !ok {
		return nil, apperr.NotFound("Workshop")
	}
	if s.registrations[workshopID][userID] {
		return nil, apperr.Conflict("You are already registered for this workshop")
	}
	if w.RegisteredCount >= w.Capacity {
		return nil, ErrFull
	}

	if s.registrations[workshopID] == nil {
		s.registrations[workshopID] = map[string]bool{}
	}
	s.registrations[workshopID][userID] = true
	w.RegisteredCount++

	return &Registration{WorkshopID: workshopID, UserID: userID, CreatedAt: time.Now().UTC()}, nil
}

func newTestService() (*Service, *stubRepository) {
	repo := newStubRepository()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func validWorkshop() *Workshop {
	return &Workshop{
		Title:    "Calligraphy for Beginners",
		Venue:    "Lawha Studio",
		City:     "Riyadh",
		Capacity: 2,
		Price:    15000,
		StartsAt: time.Now().Add(72 * time.Hour),
		EndsAt:   time.Now().Add(75 * time.Hour),
	}
}

/*
TestService_Register_Capacity fills a two-seat workshop and verifies the
third registration is refused with the capacity conflict, not silently
oversubscribed.
*/
func TestService_Register_Capacity(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	workshop := validWorkshop()
	require.NoError(t, service.Create(ctx, "owner-1", sec.RoleArtist, workshop))

	_, err := service.Register(ctx, workshop.ID, "collector-1")
	require.NoError(t, err)
	_, err = service.Register(ctx, workshop.ID, "collector-2")
	require.NoError(t, err)

	_, err = service.Register(ctx, workshop.ID, "collector-3")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	assert.ErrorIs(t, err, ErrFull)

	got, err := service.Get(ctx, workshop.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RegisteredCount)
}

func TestService_Register_Conflicts(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	workshop := validWorkshop()
	require.NoError(t, service.Create(ctx, "owner-1", sec.RoleGallery, workshop))

	t.Run("owner cannot claim a seat", func(t *testing.T) {
		_, err := service.Register(ctx, workshop.ID, "owner-1")
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("double registration", func(t *testing.T) {
		_, err := service.Register(ctx, workshop.ID, "collector-1")
		require.NoError(t, err)

		_, err = service.Register(ctx, workshop.ID, "collector-1")
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("unknown workshop", func(t *testing.T) {
		_, err := service.Register(ctx, "11111111-1111-7111-8111-111111111111", "collector-1")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_Update_CapacityFloor verifies that capacity can grow but never
drop below the seats already claimed.
*/
func TestService_Update_CapacityFloor(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	workshop := validWorkshop()
	workshop.Capacity = 3
	require.NoError(t, service.Create(ctx, "owner-1", sec.RoleArtist, workshop))

	_, err := service.Register(ctx, workshop.ID, "collector-1")
	require.NoError(t, err)
	_, err = service.Register(ctx, workshop.ID, "collector-2")
	require.NoError(t, err)

	shrunk := validWorkshop()
	shrunk.Capacity = 1
	_, err = service.Update(ctx, "owner-1", sec.RoleArtist, workshop.ID, shrunk)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	grown := validWorkshop()
	grown.Capacity = 10
	updated, err := service.Update(ctx, "owner-1", sec.RoleArtist, workshop.ID, grown)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Capacity)
	assert.Equal(t, 2, updated.RegisteredCount)
}

func TestService_Create_RequiresSeller(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	err := service.Create(ctx, "collector-1", sec.RoleCollector, validWorkshop())
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	invalid := validWorkshop()
	invalid.Capacity = 0
	err = service.Create(ctx, "artist-1", sec.RoleArtist, invalid)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
