package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app_service "rewards-transparency-indexer/internal/application/service"
	domain_service "rewards-transparency-indexer/internal/domain/service"
	"rewards-transparency-indexer/internal/infrastructure/blockchain"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/database"
	"rewards-transparency-indexer/internal/infrastructure/explorer"
	"rewards-transparency-indexer/internal/infrastructure/logger"
	"rewards-transparency-indexer/internal/infrastructure/messaging"
	"rewards-transparency-indexer/internal/infrastructure/storage"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.NewLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create FX application
	app := fx.New(
		// Provide dependencies
		fx.Supply(cfg),
		fx.Supply(log),
		fx.Supply(&cfg.Indexer),
		fx.Supply(&cfg.Report),
		fx.Supply(&cfg.Explorer),
		fx.Supply(&cfg.NATS),
		fx.Supply(&cfg.Neo4J),
		fx.Provide(func() *zap.Logger { return log.Logger }),

		// Infrastructure providers
		fx.Provide(
			database.NewNeo4JClient,
			database.NewNeo4JAllocationArchive,
			blockchain.NewIndexerHTTPClient,
			storage.NewFileTransactionStore,
			explorer.NewLinkBuilder,
			messaging.NewNATSPublisher,
			func(p *messaging.NATSPublisher) domain_service.ReportPublisher { return p },
		),

		// Domain services
		fx.Provide(
			domain_service.NewParserService,
			func(reportCfg *config.ReportConfig) *domain_service.GrouperService {
				return domain_service.NewGrouperService(reportCfg.ProjectAddresses)
			},
			func(reportCfg *config.ReportConfig, links domain_service.ExplorerLinks) *domain_service.FormatterService {
				return domain_service.NewFormatterService(reportCfg.ProjectAddresses, links)
			},
		),

		// Application providers
		fx.Provide(
			app_service.NewFetchService,
			app_service.NewAssetResolverService,
			app_service.NewReportingApplicationService,
		),

		// Lifecycle hooks
		fx.Invoke(startReportServer),

		// Configure logging
		fx.WithLogger(func() fxevent.Logger {
			return fxevent.NopLogger
		}),
	)

	// Start the application
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Error("Failed to start application", zap.Error(err))
		os.Exit(1)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down application...")

	// Stop the application
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application gracefully", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}

// startReportServer connects the side channels and serves the report API
func startReportServer(
	lifecycle fx.Lifecycle,
	cfg *config.Config,
	reporting domain_service.ReportingService,
	publisher *messaging.NATSPublisher,
	neo4jClient *database.Neo4JClient,
	log *logger.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting report service...")

			if err := neo4jClient.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect to Neo4J: %w", err)
			}
			if err := publisher.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect to NATS: %w", err)
			}

			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"status":"ok"}`))
			})
			mux.HandleFunc("/report", handleReport(reporting, log))

			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.App.HTTPPort),
				Handler: mux,
			}

			// Start server in background
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("Report server error", zap.Error(err))
				}
			}()

			log.Info("Report service started successfully", zap.Int("port", cfg.App.HTTPPort))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping report service...")
			if err := neo4jClient.Close(ctx); err != nil {
				log.Error("Failed to close Neo4J connection", zap.Error(err))
			}
			return publisher.Disconnect()
		},
	})
}

// handleReport serves GET /report?start=...&end=...&grouping=chronological|type
func handleReport(reporting domain_service.ReportingService, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := parseDate(r.URL.Query().Get("start"))
		if err != nil {
			http.Error(w, "invalid start date", http.StatusBadRequest)
			return
		}
		end, err := parseDate(r.URL.Query().Get("end"))
		if err != nil {
			http.Error(w, "invalid end date", http.StatusBadRequest)
			return
		}

		grouping := r.URL.Query().Get("grouping")
		if grouping == "" {
			grouping = string(domain_service.GroupingChronological)
		}
		policy, err := domain_service.ParseGroupingPolicy(grouping)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		report, err := reporting.CreateReport(r.Context(), start, end, policy)
		if err != nil {
			log.Error("Failed to create report", zap.Error(err))
			http.Error(w, "failed to create report", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report))
	}
}

// parseDate accepts RFC3339 timestamps or plain dates (UTC midnight).
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
