package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/AnnaCarter465/paye-calculator/config"
	"github.com/AnnaCarter465/paye-calculator/database"
	"github.com/AnnaCarter465/paye-calculator/handler"
	"github.com/AnnaCarter465/paye-calculator/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.Stage)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("cannot connect to database", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx)
	cancel()
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	vl := validator.New()

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.Use(handler.RequestLogger(log))
	e.Use(middleware.Recover())

	e.GET("/", handler.Healthcheck)

	payrollHandler := handler.NewPayrollHandler(vl, db, log, cfg.DefaultScheme, cfg.BatchWorkers)
	e.POST("/payroll/calculations", payrollHandler.CalculatePayroll)
	e.POST("/payroll/calculations/upload-csv", payrollHandler.CalculatePayrollWithCSV)

	e.GET("/tax/schemes", handler.ListSchemes)
	e.GET("/tax/schemes/:version", handler.GetScheme)

	adminHandler := handler.NewAdminHandler(vl, db, log)
	e.GET("/admin/deductions/:scheme", adminHandler.ListDeductionDefaults)
	e.PUT("/admin/deductions/:scheme/:kind", adminHandler.UpdateDeductionDefault)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown

	log.Info("shutting down the server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("shutdown failed", zap.Error(err))
	}
}
