package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mercadito/backend/internal/auth"
	"github.com/mercadito/backend/internal/cart"
	"github.com/mercadito/backend/internal/checkout"
	"github.com/mercadito/backend/internal/config"
	deliveryhttp "github.com/mercadito/backend/internal/delivery/http"
	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/messaging/kafka"
	"github.com/mercadito/backend/internal/notification"
	"github.com/mercadito/backend/internal/repository/postgres"
	"github.com/mercadito/backend/internal/service"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Database ---
	db, err := postgres.InitDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to init database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	roleRepo := postgres.NewRoleRepository(db)

	if err := productRepo.Seed(ctx, seedCategories, seedProducts); err != nil {
		slog.Error("Failed to seed catalog", "err", err)
		os.Exit(1)
	}

	// --- Kafka ---
	publisher, subscriber := kafka.NewBroker(cfg.KafkaBrokers())

	// --- Session state ---
	carts := cart.NewStore()
	checkouts := checkout.NewStore()

	// --- Services ---
	catalogSvc := service.NewCatalogService(productRepo)
	orderSvc := service.NewOrderService(orderRepo, publisher)
	checkoutSvc := service.NewCheckoutService(carts, checkouts, productRepo, orderRepo, profileRepo, publisher)
	reviewSvc := service.NewReviewService(reviewRepo, orderRepo)
	favoriteSvc := service.NewFavoriteService(favoriteRepo)
	profileSvc := service.NewProfileService(profileRepo, roleRepo)
	statsSvc := service.NewStatsService(orderRepo, productRepo, profileRepo)

	// --- Notifications ---
	var mailer notification.Mailer
	if cfg.MailAPIKey != "" {
		mailer = notification.NewResendMailer(cfg.MailAPIKey, cfg.MailFrom)
	} else {
		slog.Warn("No mail API key configured, emails will only be logged")
		mailer = notification.NewLogMailer()
	}
	notifier := notification.NewService(orderRepo, profileRepo, mailer)
	go notifier.Run(ctx, subscriber)

	// --- HTTP API ---
	verifier := auth.NewVerifier(cfg.JWTSecret)
	handler := deliveryhttp.NewHandler(
		catalogSvc, orderSvc, checkoutSvc, reviewSvc,
		favoriteSvc, profileSvc, statsSvc, carts, verifier,
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: deliveryhttp.EnableCORS(mux),
	}

	go func() {
		slog.Info("HTTP server starting", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	slog.Info("Notification consumers started")

	<-ctx.Done()
	slog.Info("Shutting down...")
	httpServer.Shutdown(context.Background())
}

var seedCategories = []entity.Category{
	{ID: "cat-alimentos", Name: "Alimentos", Icon: "🥫"},
	{ID: "cat-bebidas", Name: "Bebidas", Icon: "🥤"},
	{ID: "cat-aseo", Name: "Aseo", Icon: "🧼"},
	{ID: "cat-hogar", Name: "Hogar", Icon: "🏠"},
}

var seedProducts = []entity.Product{
	{ID: "prod-001", Name: "Arroz 5kg", Description: "Arroz blanco de grano largo, saco de 5 kilogramos.", Price: 1200, Stock: 80, ImageURL: "https://images.unsplash.com/photo-1586201375761-83865001e31c?w=400", CategoryID: "cat-alimentos", IsActive: true},
	{ID: "prod-002", Name: "Aceite de girasol 1L", Description: "Aceite vegetal de girasol, botella de un litro.", Price: 950, Stock: 60, ImageURL: "https://images.unsplash.com/photo-1474979266404-7eaacbcd87c5?w=400", CategoryID: "cat-alimentos", IsActive: true},
	{ID: "prod-003", Name: "Café molido 500g", Description: "Café tostado y molido, paquete de 500 gramos.", Price: 1800, Stock: 40, ImageURL: "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=400", CategoryID: "cat-bebidas", IsActive: true},
	{ID: "prod-004", Name: "Refresco de cola 1.5L", Description: "Refresco carbonatado sabor cola.", Price: 350, Stock: 120, ImageURL: "https://images.unsplash.com/photo-1554866585-cd94860890b7?w=400", CategoryID: "cat-bebidas", IsActive: true},
	{ID: "prod-005", Name: "Detergente en polvo 1kg", Description: "Detergente multiusos para ropa.", Price: 700, Stock: 90, ImageURL: "https://images.unsplash.com/photo-1563453392212-326f5e854473?w=400", CategoryID: "cat-aseo", IsActive: true},
	{ID: "prod-006", Name: "Bombillo LED 9W", Description: "Bombillo LED de bajo consumo, rosca E27.", Price: 450, Stock: 150, ImageURL: "https://images.unsplash.com/photo-1532007271951-c487760934ae?w=400", CategoryID: "cat-hogar", IsActive: true},
}
