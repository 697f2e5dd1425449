package main

import (
	"fmt"
	"os"

	"hos-service/internal/auth"
	"hos-service/internal/config"
	"hos-service/internal/db"
	"hos-service/internal/eld"
	httphandler "hos-service/internal/http"
	"hos-service/internal/http/middleware"
	"hos-service/internal/logger"
	"hos-service/internal/repository"
	"hos-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	logRepo := repository.NewLogRepository(database)

	var eldSource service.EventSource
	if cfg.ELD.BaseURL != "" {
		eldSource = eld.NewClient(cfg.ELD.BaseURL, cfg.ELD.APIToken, cfg.ELD.Timeout)
	} else {
		log.Warn().Msg("ELD_BASE_URL not set, provider sync disabled")
	}

	logService := service.NewLogService(logRepo, eldSource)
	reportService := service.NewReportService(logRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(logService, reportService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), database, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting hos compliance service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
