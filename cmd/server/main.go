package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/garage-bay-booking/internal/config"
	"github.com/iliyamo/garage-bay-booking/internal/database"
	"github.com/iliyamo/garage-bay-booking/internal/handler"
	"github.com/iliyamo/garage-bay-booking/internal/middleware"
	"github.com/iliyamo/garage-bay-booking/internal/queue"
	"github.com/iliyamo/garage-bay-booking/internal/repository"
	"github.com/iliyamo/garage-bay-booking/internal/router"
	"github.com/iliyamo/garage-bay-booking/internal/service/admin"
	"github.com/iliyamo/garage-bay-booking/internal/service/booking"
	"github.com/iliyamo/garage-bay-booking/internal/session"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	// Redis backs the rate limiters and the response cache.  A nil
	// client disables both; the booking core never depends on Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	garageRepo := repository.NewGarageRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	adminRepo := repository.NewAdminRepo(db)

	sessions := session.NewAuthority(cfg.SessionSecret, time.Duration(cfg.SessionTTLMin)*time.Minute)

	bookingSvc := booking.NewService(garageRepo, bookingRepo)
	adminSvc := admin.NewService(adminRepo, sessions, cfg.BcryptCost)

	bookingHandler := handler.NewBookingHandler(bookingSvc)
	garageHandler := handler.NewGarageHandler(garageRepo, bookingRepo)
	adminAuthHandler := handler.NewAdminAuthHandler(adminSvc)
	adminBookingHandler := handler.NewAdminBookingHandler(bookingSvc)

	bookingLimiter := middleware.NewTokenBucket(config.LoadBookingRateLimit(), rdb)
	adminLimiter := middleware.NewTokenBucket(config.LoadAdminRateLimit(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e, bookingHandler, garageHandler, bookingLimiter, cache)
	router.RegisterAdmin(e, adminAuthHandler, adminBookingHandler, sessions, adminLimiter)

	// Audit consumer runs for the life of the process, reconnecting on
	// broker failures.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
