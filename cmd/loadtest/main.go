package main

import (
	"context"
	"eyebench/internal/app/auth"
	"eyebench/internal/app/config"
	"eyebench/internal/app/drivers/logger"
	"eyebench/internal/app/drivers/messaging"
	"eyebench/internal/app/drivers/storage"
	"eyebench/internal/app/flows"
	"eyebench/internal/app/loadgen"
	"eyebench/internal/app/services/fhir"
	"eyebench/internal/app/services/forms"
	"eyebench/internal/app/services/registry"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive simulated clinic traffic against a FHIR server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	consoleLogger := logger.NewLogrusLogger(internalConfig)

	recorder := loadgen.NewStatsRecorder()
	tokens := auth.NewTokenSource(internalConfig.Auth, &http.Client{Timeout: internalConfig.FHIR.Timeout}, zapLogger)
	client := fhir.NewClient(internalConfig.FHIR.BaseUrl, internalConfig.FHIR.Timeout, tokens, recorder, zapLogger)

	registryService := registry.NewService(client, zapLogger)
	formsService := forms.NewService(client, zapLogger)

	runner := loadgen.NewRunner(internalConfig.Load, func() *flows.Session {
		return flows.NewSession(registryService, formsService, zapLogger)
	}, zapLogger)

	bootstrap := config.Bootstrap{
		Router:         loadgen.NewStatsRouter(recorder),
		Logger:         zapLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
		RunnerStop:     runner.Stop,
	}
	if driverConfig.RabbitMQ.Enabled {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig)
	}
	if driverConfig.Minio.Enabled {
		bootstrap.Minio = storage.NewMinio(driverConfig)
	}

	statsServer := &http.Server{
		Addr:    internalConfig.App.StatsAddress,
		Handler: bootstrap.Router,
	}
	go func() {
		if err := statsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("stats server failed", zap.Error(err))
		}
	}()

	runDone := make(chan struct{})
	go func() {
		runner.Run(context.Background())
		close(runDone)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	select {
	case <-runDone:
		zapLogger.Info("load run finished")
	case sig := <-signals:
		zapLogger.Info("received signal, stopping load run", zap.String("signal", sig.String()))
		runner.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	report := recorder.Snapshot()
	report.LogSummary(consoleLogger, internalConfig.Load.SummaryWithDetails)

	if bootstrap.RabbitMQ != nil {
		publisher := loadgen.NewResultPublisher(bootstrap.RabbitMQ, internalConfig.App.RabbitMQResultQueue, zapLogger)
		if err := publisher.Publish(shutdownCtx, report); err != nil {
			zapLogger.Error("result publish failed", zap.Error(err))
		}
	}
	if bootstrap.Minio != nil {
		uploader := loadgen.NewReportUploader(bootstrap.Minio, driverConfig.Minio.BucketName, zapLogger)
		objectName := fmt.Sprintf("report-%s.json", time.Now().Format("20060102-150405"))
		if err := uploader.Upload(shutdownCtx, objectName, report); err != nil {
			zapLogger.Error("report upload failed", zap.Error(err))
		}
	}

	if err := statsServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("stats server shutdown failed", zap.Error(err))
	}
	return bootstrap.Shutdown(shutdownCtx)
}
