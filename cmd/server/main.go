package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"github.com/franpass87/experience-booking/internal/cache"
	"github.com/franpass87/experience-booking/internal/config"
	"github.com/franpass87/experience-booking/internal/database"
	"github.com/franpass87/experience-booking/internal/handler"
	"github.com/franpass87/experience-booking/internal/middleware"
	"github.com/franpass87/experience-booking/internal/pricing"
	"github.com/franpass87/experience-booking/internal/queue"
	"github.com/franpass87/experience-booking/internal/repository"
	"github.com/franpass87/experience-booking/internal/router"
	"github.com/franpass87/experience-booking/internal/service"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories.
	scheduleRepo := repository.NewScheduleRepo(db)
	overrideRepo := repository.NewOverrideRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	holdRepo := repository.NewHoldRepo(db)
	priceRuleRepo := repository.NewPriceRuleRepo(db)
	productRepo := repository.NewProductRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	// There is no open registration; the first admin account comes from
	// the environment. Further accounts are created via the admin API.
	seedAdmin(cfg, userRepo)

	// Domain services.
	availCache := cache.NewManager(rdb, cfg.CacheTTL)
	priceEngine := pricing.NewEngine(priceRuleRepo)
	holdManager := service.NewHoldManager(db, holdRepo, bookingRepo, scheduleRepo, overrideRepo, availCache,
		cfg.HoldsEnabled, time.Duration(cfg.HoldDurationMin)*time.Minute, cfg.Timezone)
	availability := service.NewAvailability(scheduleRepo, overrideRepo, bookingRepo, holdRepo, availCache,
		priceEngine, cfg.HoldsEnabled, cfg.Timezone)
	prebuilder := service.NewPrebuilder(productRepo, availability, availCache, cfg.PrebuildDays, cfg.HoldsEnabled, cfg.Timezone)

	// Handlers.
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	availHandler := handler.NewAvailabilityHandler(availability)
	holdHandler := handler.NewHoldHandler(holdManager)
	bookingHandler := handler.NewBookingHandler(holdManager, bookingRepo, availCache)
	scheduleHandler := handler.NewAdminScheduleHandler(scheduleRepo, availCache)
	overrideHandler := handler.NewAdminOverrideHandler(overrideRepo, availCache)
	pricingHandler := handler.NewAdminPricingHandler(priceRuleRepo, availCache)
	catalogHandler := handler.NewCatalogHandler(productRepo, repository.NewMeetingPointRepo(db))
	cacheHandler := handler.NewAdminCacheHandler(availCache)

	// Background jobs: sweep expired holds every five minutes, warm the
	// availability cache hourly (a no-op while holds are enabled).
	jobs := cron.New()
	if _, err := jobs.AddFunc("*/5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if n := holdManager.CleanupExpiredHolds(ctx); n > 0 {
			log.Printf("cron: swept %d expired holds", n)
		}
	}); err != nil {
		log.Fatalf("cron: hold sweep: %v", err)
	}
	if _, err := jobs.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if n := prebuilder.Run(ctx); n > 0 {
			log.Printf("cron: prebuilt %d availability entries", n)
		}
	}); err != nil {
		log.Fatalf("cron: prebuild: %v", err)
	}
	jobs.Start()
	defer jobs.Stop()

	// Booking event consumer; runs its own reconnect loop.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterPublic(e, availHandler, holdHandler, bookingHandler, catalogHandler, limiter)
	router.RegisterAdmin(e, cfg.JWTSecret, authHandler, scheduleHandler, overrideHandler, pricingHandler, bookingHandler, cacheHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, holds=%v, tz=%s)", addr, cfg.Env, cfg.HoldsEnabled, cfg.Timezone)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates the bootstrap ADMIN account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set. An existing account with that email is left
// untouched so restarts are safe.
func seedAdmin(cfg config.Config, users *repository.UserRepo) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := users.Create(ctx, cfg.AdminEmail, cfg.AdminPassword, "ADMIN", cfg.BcryptCost)
	switch err {
	case nil:
		log.Printf("seeded admin account %s", cfg.AdminEmail)
	case repository.ErrEmailExists:
		// already seeded
	default:
		log.Fatalf("seed admin: %v", err)
	}
}
