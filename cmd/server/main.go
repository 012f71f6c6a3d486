package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srikanth112236/pg-application-sub004/internal/config"
	"github.com/srikanth112236/pg-application-sub004/internal/db"
	"github.com/srikanth112236/pg-application-sub004/internal/handler"
	"github.com/srikanth112236/pg-application-sub004/internal/repository"
	"github.com/srikanth112236/pg-application-sub004/internal/server"
	"github.com/srikanth112236/pg-application-sub004/internal/service"
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

	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "err", err)
		os.Exit(1)
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	branchRepo := repository.BranchRepository{DB: pg}
	roomRepo := repository.RoomRepository{DB: pg}
	residentRepo := repository.ResidentRepository{DB: pg}
	paymentRepo := repository.PaymentRepository{DB: pg}
	switchRepo := repository.SwitchHistoryRepository{DB: pg}
	activityRepo := repository.ActivityLogRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}

	if err := branchRepo.SeedDefault(ctx, "Main Branch"); err != nil {
		logger.Error("failed to seed default branch", "err", err)
		os.Exit(1)
	}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger}
	residentSvc := service.ResidentService{Residents: residentRepo, Branches: branchRepo, Activity: activityRepo, Logger: logger}
	inventorySvc := service.InventoryService{Rooms: roomRepo}
	allocationSvc := service.AllocationService{Residents: residentRepo, Rooms: roomRepo, History: switchRepo, Activity: activityRepo, Logger: logger}
	lifecycleSvc := service.LifecycleService{Residents: residentRepo, Activity: activityRepo, Logger: logger}
	paymentSvc := service.PaymentService{Payments: paymentRepo, Residents: residentRepo, Activity: activityRepo, Logger: logger}
	sweeper := service.VacationSweeper{Residents: residentRepo, Lifecycle: lifecycleSvc, Logger: logger}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	homeHandler := handler.HomeHandler{}
	docsHandler := handler.DocsHandler{OpenAPIPath: "api/openapi.yaml"}
	residentHandler := handler.ResidentHandler{Service: residentSvc, Currency: cfg.DefaultCurrency}
	roomHandler := handler.RoomHandler{Service: inventorySvc, Currency: cfg.DefaultCurrency}
	allocationHandler := handler.AllocationHandler{Service: allocationSvc}
	vacationHandler := handler.VacationHandler{Lifecycle: lifecycleSvc, Sweeper: sweeper}
	paymentHandler := handler.PaymentHandler{Service: paymentSvc}
	activityHandler := handler.ActivityLogHandler{Repo: activityRepo}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo}
	exportHandler := handler.ExportHandler{Residents: residentSvc}

	router := server.NewRouter(cfg, logger,
		healthHandler, authHandler, homeHandler, docsHandler,
		residentHandler, roomHandler, allocationHandler, vacationHandler,
		paymentHandler, activityHandler, dashboardHandler, exportHandler)

	go runSweepLoop(ctx, cfg.SweepInterval, sweeper, logger)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

// runSweepLoop drives the overdue-vacation sweep on a fixed cadence. The
// sweeper itself holds no timer, so operators can also trigger it over HTTP
// without fighting this loop.
func runSweepLoop(ctx context.Context, interval time.Duration, sweeper service.VacationSweeper, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if _, err := sweeper.ProcessOverdueVacations(sweepCtx); err != nil {
				logger.Error("scheduled sweep could not start", "err", err)
			}
			cancel()
		}
	}
}
