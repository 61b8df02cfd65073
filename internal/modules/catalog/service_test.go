package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lodging/internal/database"
	"lodging/internal/domain"
	"lodging/internal/repository"
)

// The catalog service holds concrete repositories, so it is tested against
// an in-memory SQLite database instead of mocks.
func newTestService(t *testing.T) (*Service, *domain.Tenant) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	sdb, err := database.Sqlx(db)
	require.NoError(t, err)

	tenants := repository.NewTenantRepository(db)
	svc := NewService(
		tenants,
		repository.NewRoomRepository(db),
		repository.NewRateRepository(db, sdb),
		repository.NewAddOnRepository(db),
	)

	tenant := &domain.Tenant{Name: "Karoo Lodge", Slug: "karoo-lodge", Currency: "ZAR", IsActive: true}
	require.NoError(t, tenants.Create(context.Background(), tenant))
	return svc, tenant
}

func TestCreateRoom_InheritsTenantCurrency(t *testing.T) {
	svc, tenant := newTestService(t)

	room, err := svc.CreateRoom(context.Background(), tenant.ID, CreateRoomRequest{
		Name:              "Garden Suite",
		BasePricePerNight: 1000,
		TotalUnits:        2,
		MaxGuests:         2,
	})

	require.NoError(t, err)
	require.Equal(t, "ZAR", room.Currency)
	require.True(t, room.IsActive)
}

func TestCreateRoom_RejectsBadCurrency(t *testing.T) {
	svc, tenant := newTestService(t)

	_, err := svc.CreateRoom(context.Background(), tenant.ID, CreateRoomRequest{
		Name:       "Garden Suite",
		Currency:   "RAND",
		TotalUnits: 1,
	})

	require.ErrorIs(t, err, ErrValidation)
}

func TestDirectory_HidesInactiveRooms(t *testing.T) {
	svc, tenant := newTestService(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, tenant.ID, CreateRoomRequest{Name: "Garden Suite", TotalUnits: 1})
	require.NoError(t, err)
	_, err = svc.CreateRoom(ctx, tenant.ID, CreateRoomRequest{Name: "River Cabin", TotalUnits: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateRoom(ctx, tenant.ID, room.ID))

	rooms, total, err := svc.ListRoomsBySlug(ctx, tenant.Slug, 20, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "River Cabin", rooms[0].Name)

	_, err = svc.GetRoomBySlug(ctx, tenant.Slug, room.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDirectory_UnknownSlug(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.ListRoomsBySlug(context.Background(), "nope", 20, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRate_WindowValidation(t *testing.T) {
	svc, tenant := newTestService(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, tenant.ID, CreateRoomRequest{Name: "Garden Suite", TotalUnits: 1})
	require.NoError(t, err)

	// Single-day window is valid: the bounds are inclusive.
	rate, err := svc.CreateRate(ctx, tenant.ID, CreateRateRequest{
		RoomID:        room.ID,
		Name:          "New Year",
		StartDate:     "2024-12-31",
		EndDate:       "2024-12-31",
		PricePerNight: 3000,
		Priority:      5,
	})
	require.NoError(t, err)
	require.Equal(t, "New Year", rate.Name)

	_, err = svc.CreateRate(ctx, tenant.ID, CreateRateRequest{
		RoomID:    room.ID,
		Name:      "Backwards",
		StartDate: "2024-12-26",
		EndDate:   "2024-12-24",
	})
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.CreateRate(ctx, tenant.ID, CreateRateRequest{
		RoomID:    999,
		Name:      "Ghost",
		StartDate: "2024-12-20",
		EndDate:   "2024-12-26",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRate_KeepsWindowConsistent(t *testing.T) {
	svc, tenant := newTestService(t)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, tenant.ID, CreateRoomRequest{Name: "Garden Suite", TotalUnits: 1})
	require.NoError(t, err)
	rate, err := svc.CreateRate(ctx, tenant.ID, CreateRateRequest{
		RoomID:        room.ID,
		Name:          "December",
		StartDate:     "2024-12-20",
		EndDate:       "2024-12-31",
		PricePerNight: 1500,
	})
	require.NoError(t, err)

	badEnd := "2024-12-01"
	_, err = svc.UpdateRate(ctx, tenant.ID, rate.ID, UpdateRateRequest{EndDate: &badEnd})
	require.ErrorIs(t, err, ErrInvalidWindow)

	price := 1800.0
	updated, err := svc.UpdateRate(ctx, tenant.ID, rate.ID, UpdateRateRequest{PricePerNight: &price})
	require.NoError(t, err)
	require.Equal(t, 1800.0, updated.PricePerNight)
}

func TestUpdateAddOn_PartialUpdate(t *testing.T) {
	svc, tenant := newTestService(t)
	ctx := context.Background()

	addOn, err := svc.CreateAddOn(ctx, tenant.ID, CreateAddOnRequest{Name: "Breakfast", Price: 150})
	require.NoError(t, err)

	price := 175.0
	updated, err := svc.UpdateAddOn(ctx, tenant.ID, addOn.ID, UpdateAddOnRequest{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 175.0, updated.Price)
	require.Equal(t, "Breakfast", updated.Name)

	inactive := false
	_, err = svc.UpdateAddOn(ctx, tenant.ID, addOn.ID, UpdateAddOnRequest{IsActive: &inactive})
	require.NoError(t, err)

	addOns, err := svc.ListAddOns(ctx, tenant.ID)
	require.NoError(t, err)
	require.Empty(t, addOns)
}

func TestUpdateAddOn_OtherTenant(t *testing.T) {
	svc, tenant := newTestService(t)
	ctx := context.Background()

	addOn, err := svc.CreateAddOn(ctx, tenant.ID, CreateAddOnRequest{Name: "Breakfast", Price: 150})
	require.NoError(t, err)

	name := "Dinner"
	_, err = svc.UpdateAddOn(ctx, tenant.ID+1, addOn.ID, UpdateAddOnRequest{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}
