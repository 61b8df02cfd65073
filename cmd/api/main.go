package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"lodging/internal/config"
	"lodging/internal/database"
	"lodging/internal/middleware"
	"lodging/internal/modules/auth"
	"lodging/internal/modules/booking"
	"lodging/internal/modules/catalog"
	"lodging/internal/modules/feed"
	jwtsvc "lodging/internal/pkg/jwt"
	"lodging/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}
	sdb, err := database.Sqlx(db)
	if err != nil {
		log.Fatal(err)
	}

	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	rateRepo := repository.NewRateRepository(db, sdb)
	addOnRepo := repository.NewAddOnRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := feed.NewHub()
	defer hub.Close()

	authHandler := auth.NewHandler(auth.NewService(userRepo, tenantRepo, j))
	catalogHandler := catalog.NewHandler(catalog.NewService(tenantRepo, roomRepo, rateRepo, addOnRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, roomRepo, rateRepo, addOnRepo, hub))
	feedHandler := feed.NewHandler(hub)

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		feedHandler.RegisterRoutes(v1)

		// guest endpoints need a token so bookings are tenant-scoped
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}

		// back office
		staff := v1.Group("/staff")
		staff.Use(middleware.Auth(j), middleware.StaffOnly())
		{
			catalogHandler.RegisterStaffRoutes(staff)
			bookingHandler.RegisterStaffRoutes(staff)
		}
	}

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
