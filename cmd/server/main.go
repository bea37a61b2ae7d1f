package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seating/internal/cache"
	"github.com/iliyamo/event-seating/internal/config"
	"github.com/iliyamo/event-seating/internal/database"
	"github.com/iliyamo/event-seating/internal/editor"
	"github.com/iliyamo/event-seating/internal/handler"
	"github.com/iliyamo/event-seating/internal/middleware"
	"github.com/iliyamo/event-seating/internal/queue"
	"github.com/iliyamo/event-seating/internal/repository"
	"github.com/iliyamo/event-seating/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: cache, rate limiting and the layout snapshot
	// mirror all degrade when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache, rate limiting and snapshot mirror disabled")
	}

	layoutRepo := repository.NewLayoutRepo(db)
	guestRepo := repository.NewGuestRepo(db)
	checkInRepo := repository.NewCheckInRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	edCfg := config.LoadEditorConfig()
	var snap editor.SnapshotStore
	if s := cache.NewSnapshotStore(rdb, cache.DefaultSnapshotKey); s != nil {
		snap = s
	}
	session := editor.NewSession(layoutRepo, snap, editor.Config{
		SaveDebounce: edCfg.SaveDebounce,
		SaveAttempts: edCfg.SaveAttempts,
		SaveBackoff:  edCfg.SaveBackoff,
	})
	loadCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := session.Load(loadCtx); err != nil {
		cancel()
		log.Fatalf("load layout: %v", err)
	}
	cancel()

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	editorH := handler.NewEditorHandler(session)
	regH := handler.NewRegistrationHandler(guestRepo)
	checkInH := handler.NewCheckInHandler(session, checkInRepo, guestRepo)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, editorH, regH, cfg.JWTSecret)

	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.RegisterPublic(e, regH, rateMW, cacheMW)
	router.RegisterCheckIn(e, checkInH, cfg.JWTSecret, cacheMW)

	// Background consumer appends check-in events to logs/checkin.log.
	go func() {
		if err := queue.StartCheckInConsumer(); err != nil {
			log.Printf("checkin consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		session.Wait() // flush pending layout writes before exiting
		log.Fatal(err)
	}
}
