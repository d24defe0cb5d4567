package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/cart"
	"github.com/mamadbah2/stockpilot/internal/checkout"
	"github.com/mamadbah2/stockpilot/internal/config"
	"github.com/mamadbah2/stockpilot/internal/downloads"
	"github.com/mamadbah2/stockpilot/internal/inventory"
	"github.com/mamadbah2/stockpilot/internal/repository/mongodb"
	"github.com/mamadbah2/stockpilot/internal/repository/sheets"
	"github.com/mamadbah2/stockpilot/internal/scheduler"
	"github.com/mamadbah2/stockpilot/internal/server/handlers"
	"github.com/mamadbah2/stockpilot/internal/server/router"
	reportingsvc "github.com/mamadbah2/stockpilot/internal/service/reporting"
	terminalsvc "github.com/mamadbah2/stockpilot/internal/service/terminal"
	whatsappsvc "github.com/mamadbah2/stockpilot/internal/service/whatsapp"
	"github.com/mamadbah2/stockpilot/internal/session"
	"github.com/mamadbah2/stockpilot/pkg/clients/stockpilot"
	whatsappclient "github.com/mamadbah2/stockpilot/pkg/clients/whatsapp"
	"github.com/mamadbah2/stockpilot/pkg/logger"
	"github.com/mamadbah2/stockpilot/pkg/pdf"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	api := stockpilot.NewClient(cfg.API, logger.Named(baseLogger, "client.stockpilot"))
	sessions, err := session.NewStore(api, session.NewFileStorage(cfg.Terminal.SessionFile), logger.Named(baseLogger, "session"))
	if err != nil {
		baseLogger.Fatal("failed to restore session", zap.Error(err))
	}
	api.BindSession(sessions)

	cache := inventory.NewCache(api, logger.Named(baseLogger, "inventory"))
	if _, ok := sessions.Current(); ok {
		if _, err := cache.Refresh(context.Background()); err != nil {
			baseLogger.Warn("initial inventory load failed", zap.Error(err))
		}
	}

	saleCart := cart.New(cache)
	downloadDir := downloads.NewDir(cfg.Terminal.DownloadDir)
	flow := checkout.NewFlow(saleCart, api, cache, downloadDir, logger.Named(baseLogger, "checkout"))
	terminal := terminalsvc.NewService(api, sessions, cache, saleCart, flow, downloadDir, logger.Named(baseLogger, "svc.terminal"))

	var archive mongodb.Repository
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("MONGODB_URI missing, cash cuts will not be archived")
	}

	var ledger sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		ledger = sheetsRepo
	}

	location, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid reporting timezone", zap.Error(err))
	}
	renderer := pdf.NewGenerator()
	reporting := reportingsvc.NewService(api, cache, archive, ledger, renderer, location, logger.Named(baseLogger, "svc.reporting"))

	var messaging whatsappsvc.MessagingService
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messaging = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, logger.Named(baseLogger, "svc.whatsapp"))
		baseLogger.Info("whatsapp cash-cut notices enabled")
	}

	sched, err := scheduler.NewScheduler(cfg.Reporting, reporting, sessions, renderer, messaging, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to build scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	handler := handlers.NewHandler(terminal, reporting, logger.Named(baseLogger, "handlers"))
	engine := router.New(handler, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("api", cfg.API.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
