package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lodging/internal/database"
	"lodging/internal/domain"
	"lodging/internal/pricing"
	"lodging/internal/repository"
)

// Seeds a local database with a demo tenant: one lodge, two rooms, the
// December seasonal rates and a couple of bookings to click around with.
func main() {
	ctx := context.Background()

	db, err := database.Connect("lodging.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}
	sdb, err := database.Sqlx(db)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM booking_addons")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM addons")
	db.Exec("DELETE FROM seasonal_rates")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM tenants")

	tenants := repository.NewTenantRepository(db)
	users := repository.NewUserRepository(db)
	rooms := repository.NewRoomRepository(db)
	rates := repository.NewRateRepository(db, sdb)
	addOns := repository.NewAddOnRepository(db)
	bookings := repository.NewBookingRepository(db)

	log.Println("Creating tenant...")
	tenant := &domain.Tenant{Name: "Karoo Lodge", Slug: "karoo-lodge", Currency: "ZAR", IsActive: true}
	must(tenants.Create(ctx, tenant))

	log.Println("Creating users...")
	for _, u := range []struct {
		email, name, password string
		role                  domain.UserRole
	}{
		{"admin@karoo-lodge.example", "Lodge Admin", "admin123", domain.RoleAdmin},
		{"frontdesk@karoo-lodge.example", "Front Desk", "staff123", domain.RoleStaff},
		{"thandi@example.com", "Thandi Nkosi", "guest123", domain.RoleGuest},
	} {
		hash, _ := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		must(users.Create(ctx, &domain.User{
			TenantID:     tenant.ID,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
			Name:         u.name,
		}))
		log.Printf("user created: %s / %s", u.email, u.password)
	}

	log.Println("Creating rooms...")
	garden := &domain.Room{
		TenantID:          tenant.ID,
		Name:              "Garden Suite",
		Description:       "Ground floor suite opening onto the garden.",
		BasePricePerNight: 1000,
		Currency:          "ZAR",
		TotalUnits:        2,
		MaxGuests:         2,
		IsActive:          true,
	}
	must(rooms.Create(ctx, garden))

	river := &domain.Room{
		TenantID:          tenant.ID,
		Name:              "River Cabin",
		Description:       "Self-catering cabin on the river bank.",
		BasePricePerNight: 1400,
		Currency:          "ZAR",
		TotalUnits:        1,
		MaxGuests:         4,
		IsActive:          true,
	}
	must(rooms.Create(ctx, river))

	log.Println("Creating seasonal rates...")
	must(rates.Create(ctx, &domain.SeasonalRate{
		TenantID:      tenant.ID,
		RoomID:        garden.ID,
		Name:          "December",
		StartDate:     date(2024, 12, 20),
		EndDate:       date(2024, 12, 31),
		PricePerNight: 1500,
		Priority:      1,
	}))
	must(rates.Create(ctx, &domain.SeasonalRate{
		TenantID:      tenant.ID,
		RoomID:        garden.ID,
		Name:          "Christmas",
		StartDate:     date(2024, 12, 24),
		EndDate:       date(2024, 12, 26),
		PricePerNight: 2500,
		Priority:      5,
	}))

	log.Println("Creating add-ons...")
	breakfast := &domain.AddOn{TenantID: tenant.ID, Name: "Breakfast", Price: 150, IsActive: true}
	must(addOns.Create(ctx, breakfast))
	must(addOns.Create(ctx, &domain.AddOn{TenantID: tenant.ID, Name: "Airport Shuttle", Price: 400, IsActive: true}))

	log.Println("Creating bookings...")
	stay, err := pricing.NewStayRange(date(2024, 12, 23), date(2024, 12, 27))
	if err != nil {
		log.Fatal(err)
	}

	seasonal, err := rates.ListForStay(ctx, tenant.ID, garden.ID, stay.CheckIn, stay.CheckOut)
	must(err)

	quote := pricing.BuildQuote(garden, seasonal, []pricing.AddOnSelection{
		{ID: breakfast.ID, Name: breakfast.Name, Price: breakfast.Price, Quantity: 2},
	}, stay)

	booking := &domain.Booking{
		Reference:   uuid.NewString(),
		TenantID:    tenant.ID,
		RoomID:      garden.ID,
		GuestName:   "Thandi Nkosi",
		GuestEmail:  "thandi@example.com",
		CheckIn:     stay.CheckIn,
		CheckOut:    stay.CheckOut,
		Status:      domain.BookingConfirmed,
		BaseTotal:   quote.BaseTotal,
		AddOnsTotal: quote.AddOnsTotal,
		TotalAmount: quote.TotalAmount,
		Currency:    quote.Currency,
		NightCount:  quote.NightCount,
		AddOns: []domain.BookingAddOn{
			{AddOnID: breakfast.ID, Name: breakfast.Name, Price: breakfast.Price, Quantity: 2, Total: 300},
		},
	}
	must(bookings.CreateWithCapacityGuard(ctx, booking))
	log.Printf("booking %s: %s %.2f %s", booking.Reference, booking.Status, booking.TotalAmount, booking.Currency)

	log.Println("Seed complete.")
}

func date(y int, m time.Month, d int) time.Time {
	return pricing.NormalizeDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
