package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/config"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/database"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/handlers"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/ratelimit"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/registry"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/scheduler"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/services"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/ws"

	_ "github.com/DrowningToast/sairahut-it20-sub000/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Sairahut API
// @version         1.0
// @description     Registration and resin / passcode / hint economy for the Sairahut onboarding event
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	limiter, err := ratelimit.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedeemLimit, cfg.RedeemWindow)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, passcode rate limiting disabled")
	}
	if cfg.AdminKeyHash == "" {
		log.Println("ADMIN_KEY_HASH not set, admin routes are locked")
	}

	reg := registry.NewClient(cfg.RegistryURL, cfg.RegistryBase, cfg.RegistryToken)
	hub := ws.NewHub()

	authService := services.NewAuthService(cfg.SessionSecret, cfg.SessionTTL)
	participantService := services.NewParticipantService(db, reg, cfg.RegistryFreshmanTable, cfg.RegistrySophomoreTable)
	resinService := services.NewResinService(db, loc)
	passcodeService := services.NewPasscodeService(db)
	hintService := services.NewHintService(db)
	pairService := services.NewPairService(db, resinService)

	var resinScheduler *scheduler.ResinScheduler
	if cfg.ResinScheduler {
		resinScheduler = scheduler.NewResinScheduler(resinService, cfg.ResinCheckInterval)
		resinScheduler.Start()
	} else {
		log.Println("RESIN_SCHEDULER not set, daily resin waits for /api/cron/resin")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Admin-Key", "X-Identity-API-Key"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.Register(r, handlers.Deps{
		Auth:           authService,
		Participants:   participantService,
		Resin:          resinService,
		Passcodes:      passcodeService,
		Hints:          hintService,
		Pairs:          pairService,
		Hub:            hub,
		Limiter:        limiter,
		EmailDomain:    cfg.EmailDomain,
		DepartmentCode: cfg.DepartmentCode,
		SecureCookie:   cfg.SecureCookie,
		IdentityAPIKey: cfg.IdentityAPIKey,
		AdminKeyHash:   cfg.AdminKeyHash,
	})

	srv := &http.Server{Addr: ":" + cfg.ServerPort, Handler: r}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("server starting on :%s", cfg.ServerPort)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if resinScheduler != nil {
			resinScheduler.Stop()
		}
		log.Fatalf("failed to start server: %v", err)
	case <-sigCtx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown: %v", err)
	}
	if resinScheduler != nil {
		resinScheduler.Stop()
	}
}
