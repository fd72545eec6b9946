package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/database"
	"github.com/iliyamo/hotel-room-reservation/internal/gateway"
	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/router"
	queuepub "github.com/iliyamo/hotel-room-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	store := repository.NewStore(db)
	pub := queuepub.New()

	// Booking core.
	index := booking.NewAvailabilityIndex(store)
	allocator := booking.NewAllocator(store, pub)
	ledger := booking.NewLedger(store, pub)
	reconciler := booking.NewReconciler(store, allocator, index,
		gateway.NewRedirect(cfg.GatewayCheckout), pub, cfg.Currency)

	// Audit consumer runs for the lifetime of the process; it reconnects on
	// broker failures internally.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()

	// Redis backs rate limiting and the availability response cache.  A nil
	// client disables both; the service still works without Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	avail := handler.NewAvailabilityHandler(index)
	pay := handler.NewPaymentHandler(reconciler)
	res := handler.NewReservationHandler(ledger, allocator, cfg.Currency)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, avail, pay)
	router.RegisterPayments(e, pay, cfg.JWTSecret)
	router.RegisterReservations(e, res, pay, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
