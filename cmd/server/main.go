package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/scribesync/server/internal/collab"
	"github.com/scribesync/server/internal/config"
	"github.com/scribesync/server/internal/handlers"
	custommw "github.com/scribesync/server/internal/middleware"
	"github.com/scribesync/server/internal/models"
	"github.com/scribesync/server/internal/observability"
	"github.com/scribesync/server/internal/repository"
)

const serviceVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.GetLogger()

	// Telemetry
	ctx := context.Background()
	telemetry, err := observability.Initialize(ctx, observability.NewConfig("scribesync-server", serviceVersion))
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer telemetry.Shutdown(ctx)

	// Database
	var db *sql.DB
	if cfg.UsePostgres() {
		logger.Info("using PostgreSQL database")
		db, err = repository.NewPostgresDB(cfg.DatabaseURL)
	} else {
		logger.Infof("using SQLite database at %s", cfg.DatabasePath)
		db, err = repository.NewSQLiteDB(cfg.DatabasePath)
	}
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	sessionRepo := repository.NewSessionRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	accessRepo := repository.NewAccessRepository(db)
	operationRepo := repository.NewOperationRepository(db)
	annotationRepo := repository.NewAnnotationRepository(db)

	// Collaboration core
	bus := collab.NewEventBus()
	sessions := collab.NewSessionRegistry(bus)
	store := collab.NewDocumentStore(bus, sessions, collab.StoreOptions{
		LockOnSessionClose: cfg.Collaboration.LockDocumentsOnSessionClose,
	})

	// Durability: mirror successful mutations into the database
	bridge := collab.NewPersistenceBridge(store, sessionRepo, documentRepo, accessRepo, operationRepo, annotationRepo, logger)
	bridge.Attach(bus)

	// WebSocket event stream
	hub := handlers.NewEventHub(logger)
	hub.AttachBus(bus)
	go hub.Run()

	metrics, err := observability.NewCollabMetrics()
	if err != nil {
		logger.Warnf("metrics init failed, continuing without: %v", err)
		metrics = nil
	}
	if metrics != nil {
		bus.SubscribeSession(func(models.SessionUpdate) {
			metrics.RecordEventPublished(ctx, "session")
		})
		bus.SubscribeDocument(func(models.DocumentUpdate) {
			metrics.RecordEventPublished(ctx, "document")
		})
	}

	core := handlers.NewCoreGuard(sessions, store)
	sessionHandler := handlers.NewSessionHandler(core, metrics)
	documentHandler := handlers.NewDocumentHandler(core, metrics)
	wsHandler := handlers.NewWebSocketHandler(hub, logger)
	healthHandler := handlers.NewHealthHandler()

	// Router
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(observability.TracingMiddleware())
	r.Use(custommw.APIKeyAuth(cfg.Security.APIKey, cfg.Security.APIKeyHeader))

	r.Get("/health", healthHandler.HealthCheck)
	r.Get("/api/health", healthHandler.HealthCheck)
	r.Get("/ws", wsHandler.HandleConnection)

	r.Route("/api/session", func(r chi.Router) {
		r.Post("/", sessionHandler.CreateSession)
		r.Get("/", sessionHandler.GetActiveSession)
		r.Post("/join", sessionHandler.JoinSession)
		r.Post("/leave", sessionHandler.LeaveSession)
		r.Get("/users", sessionHandler.GetConnectedUsers)
		r.Post("/conversations", sessionHandler.ShareConversation)
	})

	r.Route("/api/documents", func(r chi.Router) {
		r.Post("/", documentHandler.CreateDocument)
		r.Get("/", documentHandler.ListDocuments)
		r.Get("/{id}", documentHandler.GetDocument)
		r.Post("/{id}/share", documentHandler.ShareDocument)
		r.Post("/{id}/edits", documentHandler.ApplyEdit)
		r.Get("/{id}/history", documentHandler.GetHistory)
		r.Post("/{id}/annotations", documentHandler.AddAnnotation)
		r.Get("/{id}/annotations", documentHandler.GetAnnotations)
		r.Post("/{id}/annotations/{annotationId}/replies", documentHandler.AddReply)
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("ScribeSync server starting on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server stopped")
}
