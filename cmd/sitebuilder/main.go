package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "go_sitebuilder/api/v1"
	"go_sitebuilder/internal/auth"
	"go_sitebuilder/internal/cache"
	"go_sitebuilder/internal/config"
	"go_sitebuilder/internal/db"
	"go_sitebuilder/internal/dnscheck"
	"go_sitebuilder/internal/domainverify"
	"go_sitebuilder/internal/model"
	"go_sitebuilder/internal/notify"
	"go_sitebuilder/internal/resolve"
	"go_sitebuilder/internal/revalidate"
	"go_sitebuilder/internal/settings"
	"go_sitebuilder/internal/store"
	"go_sitebuilder/internal/tlscert"
	"go_sitebuilder/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "optional INI config file (env vars take precedence)")
	flag.Parse()

	// 1. Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromINI(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Configuration loaded")

	// 2. Initialize MySQL
	if err := db.InitMySQL(cfg.MySQL.DSN); err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(db.GetDB()); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
			os.Exit(1)
		}
	}

	// 3. Initialize Redis
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	// 4. Initialize JWT
	auth.InitJWT(cfg.JWT.Secret)

	// 5. Initialize Socket.IO
	if err := ws.InitServer(); err != nil {
		log.Fatalf("Failed to initialize Socket.IO: %v", err)
		os.Exit(1)
	}
	ws.SetBaseDomain(cfg.Platform.BaseDomain)

	// 6. Wire domain services
	st := store.New(db.GetDB())

	var checker dnscheck.Checker
	if cfg.DNS.SkipVerification {
		log.Println("⚠ DNS verification disabled, all custom domains treated as verified")
		checker = &dnscheck.StaticChecker{
			Result: dnscheck.Result{Status: model.DNSStatusVerified},
		}
	} else {
		checker = dnscheck.NewARecordChecker(cfg.Platform.ServerIP, cfg.DNS.ResolverAddr,
			time.Duration(cfg.DNS.TimeoutMs)*time.Millisecond)
	}

	mailer := notify.NewMailer(cfg.Notify.SendGridKey, cfg.Notify.FromEmail)
	webhook := notify.NewWebhookSender(db.GetDB(), cfg.Notify.WebhookURL,
		time.Duration(cfg.Notify.TimeoutSec)*time.Second)
	notifier := notify.NewNotifier(mailer, webhook, ws.PublishDomainStatus, cfg.Platform.ServerIP)

	resolver := resolve.NewResolver(st, cache.Client, cfg.Platform.BaseDomain)
	verifier := domainverify.NewService(st, checker, notifier)
	verifier.SetCachePurger(resolver)
	settingsSvc := settings.NewService(st, verifier, resolver,
		cfg.Platform.BaseDomain, cfg.Platform.Protocol, cfg.Platform.ServerIP)

	// 7. Background workers
	if cfg.Revalidate.Enabled {
		revalidateWorker := revalidate.NewWorker(&revalidate.Config{
			Sweeper:     verifier,
			Logger:      logrus.NewEntry(logrus.StandardLogger()),
			IntervalSec: cfg.Revalidate.IntervalSec,
			BatchSize:   cfg.Revalidate.BatchSize,
		})
		revalidateWorker.Start()
		defer revalidateWorker.Stop()
	}

	certWorker := tlscert.NewWorker(db.GetDB(),
		tlscert.NewLegoClient(db.GetDB(), tlscert.NewRedisHTTP01Provider(cache.Client),
			cfg.ACME.DirectoryURL, cfg.ACME.Email),
		tlscert.WorkerConfig{
			Enabled:      cfg.ACME.Enabled,
			IntervalSec:  cfg.ACME.IntervalSec,
			BatchSize:    10,
			DirectoryURL: cfg.ACME.DirectoryURL,
			Email:        cfg.ACME.Email,
		})
	certWorker.Start()
	defer certWorker.Stop()

	if cfg.ACME.Enabled {
		certSvc := tlscert.NewService(db.GetDB())
		verifier.OnVerified(func(tenantID int, domain string) {
			if err := certSvc.Enqueue(tenantID, domain); err != nil {
				log.Printf("Failed to enqueue certificate for %s: %v", domain, err)
			}
		})
	}

	// 8. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	v1.SetupRouter(r, v1.Deps{
		DB:       db.GetDB(),
		Cfg:      cfg,
		Redis:    cache.Client,
		Settings: settingsSvc,
		Resolver: resolver,
		Mailer:   mailer,
		Socket:   ws.WrapWithAuth(ws.Server),
	})

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal so workers stop cleanly
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
