package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/khantzwenaing/roomlynx-sub000/internal/config"
	"github.com/khantzwenaing/roomlynx-sub000/internal/db"
	"github.com/khantzwenaing/roomlynx-sub000/internal/handler"
	"github.com/khantzwenaing/roomlynx-sub000/internal/repository"
	"github.com/khantzwenaing/roomlynx-sub000/internal/server"
	"github.com/khantzwenaing/roomlynx-sub000/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		logger.Error("failed to migrate schema", "err", err)
		os.Exit(1)
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	roomRepo := repository.RoomRepository{DB: pg}
	guestRepo := repository.GuestRepository{DB: pg}
	stayRepo := repository.StayRepository{DB: pg}
	paymentRepo := repository.PaymentRepository{DB: pg}
	settingsRepo := repository.SettingsRepository{DB: pg}
	reportRepo := repository.ReportRepository{DB: pg}

	if cfg.SeedRooms {
		if err := roomRepo.SeedDefaults(ctx); err != nil {
			logger.Error("failed to seed rooms", "err", err)
			os.Exit(1)
		}
	}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo}
	checkoutSvc := service.CheckoutService{
		Stays:    stayRepo,
		Rooms:    roomRepo,
		Settings: settingsRepo,
		Writer:   stayRepo,
		Logger:   logger,
	}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	roomHandler := handler.RoomHandler{Repo: roomRepo}
	roomAdminHandler := handler.RoomAdminHandler{Repo: roomRepo}
	guestHandler := handler.GuestHandler{Repo: guestRepo}
	stayHandler := handler.StayHandler{Stays: stayRepo, Payments: paymentRepo}
	checkoutHandler := handler.CheckoutHandler{Service: &checkoutSvc}
	settingsHandler := handler.SettingsHandler{Repo: settingsRepo}
	reportHandler := handler.ReportHandler{Reports: reportRepo, Payments: paymentRepo}
	homeHandler := handler.HomeHandler{}

	router := server.NewRouter(cfg, logger, healthHandler, authHandler, roomHandler, roomAdminHandler, guestHandler, stayHandler, checkoutHandler, settingsHandler, reportHandler, homeHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
