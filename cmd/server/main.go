package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumina/internal/auth"
	"github.com/lumina/internal/cache"
	"github.com/lumina/internal/config"
	"github.com/lumina/internal/db"
	"github.com/lumina/internal/handler"
	"github.com/lumina/internal/notify"
	"github.com/lumina/internal/router"
	"github.com/lumina/internal/service"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode())

	gdb, err := db.Open(cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	var (
		pageCache   *cache.PageCache
		revalidator service.Revalidator = cache.Nop{}
	)
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pageCache, err = cache.Connect(ctx, cfg.RedisURL, cfg.PageCacheTTL)
		cancel()
		if err != nil {
			log.Fatalf("failed to connect page cache: %v", err)
		}
		defer pageCache.Close()
		revalidator = pageCache
	}

	var notifier service.DemoRequestNotifier = notify.Nop{}
	if cfg.ResendAPIKey != "" {
		notifier = notify.NewResendNotifier(cfg.ResendAPIKey, cfg.NotifyFrom, cfg.NotifyTo, cfg.SiteBaseURL)
	}

	guard, err := auth.NewGuard(cfg.AdminPassword, cfg.IsProduction())
	if err != nil {
		log.Fatalf("failed to prepare admin guard: %v", err)
	}
	if !guard.Enabled() {
		log.Printf("ADMIN_PASSWORD is not set; admin login is disabled")
	}
	if cfg.IsProduction() && cfg.CSRFKey == "" {
		log.Printf("CSRF_KEY is not set; form posts are not CSRF protected")
	}

	api := handler.NewAPI(gdb, cfg, guard, revalidator, notifier)
	r, err := router.SetupRouter(cfg, api, pageCache)
	if err != nil {
		log.Fatalf("failed to set up router: %v", err)
	}

	log.Printf("lumina listening on %s (%s)", cfg.ListenAddr, cfg.Environment)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
