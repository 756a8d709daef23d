package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"inkwell/internal/ai"
	"inkwell/internal/auth"
	"inkwell/internal/autosave"
	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/middleware"
	"inkwell/internal/realtime"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/service"
	"inkwell/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.Debug {
		if logFile, err := config.SetupLogFile("logs", 5); err == nil {
			defer logFile.Close()
			logOut = io.MultiWriter(os.Stdout, logFile)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	docService := service.NewDocumentService(docRepo, folderRepo, txManager, logger)
	folderService := service.NewFolderService(folderRepo, docRepo, docService, txManager, logger)
	treeService := service.NewTreeService(folderRepo, docRepo, logger)
	searchService := service.NewSearchService(docRepo, folderRepo, logger)

	// Autosave manager flushes debounced patches through the document service
	saves := autosave.NewManager(
		service.NewAutosaveStore(docService),
		autosave.NewTimerScheduler(),
		cfg.AutosaveDebounce,
		logger,
	)

	// AI action registry and provider
	promptRegistry, err := ai.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load AI action registry: %v", err)
	}
	provider, err := ai.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.DefaultModel)
	if err != nil {
		log.Fatalf("Failed to setup AI provider: %v", err)
	}
	aiService := ai.NewService(promptRegistry, provider, logger)

	// Object storage for uploaded assets
	objectStore, err := storage.NewMinioStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Realtime hub for insert fan-out
	hub := realtime.NewHub(logger)
	go hub.Run()

	logger.Info("services initialized")

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, saves, hub, logger)
	folderHandler := handler.NewFolderHandler(folderService, hub, logger)
	treeHandler := handler.NewTreeHandler(treeService, searchService, logger)
	exportHandler := handler.NewExportHandler(docService, logger)
	assistantHandler := handler.NewAssistantHandler(aiService, logger)
	assetHandler := handler.NewAssetHandler(objectStore, logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/archived", docHandler.ListArchived) // Must come before {id} route
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PUT /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.AutosaveDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/save", docHandler.SaveDocument)
	mux.HandleFunc("POST /api/documents/{id}/archive", docHandler.ArchiveDocument)
	mux.HandleFunc("POST /api/documents/{id}/unarchive", docHandler.UnarchiveDocument)
	mux.HandleFunc("POST /api/documents/{id}/move", docHandler.MoveDocument)
	mux.HandleFunc("POST /api/documents/{id}/duplicate", docHandler.DuplicateDocument)
	mux.HandleFunc("GET /api/documents/{id}/export", exportHandler.ExportDocument)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/duplicate", folderHandler.DuplicateFolder)

	// Tree and search routes
	mux.HandleFunc("GET /api/tree", treeHandler.GetTree)
	mux.HandleFunc("GET /api/search", treeHandler.Search)

	// AI assistant routes
	mux.HandleFunc("POST /api/ai", assistantHandler.RunAction)
	mux.HandleFunc("GET /api/ai/actions", assistantHandler.ListActions)

	// Asset upload route
	mux.HandleFunc("POST /api/assets", assetHandler.UploadAsset)

	// Realtime websocket route (auth token via query param)
	mux.HandleFunc("GET /api/realtime", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, w, r, logger)
	})

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived websocket connections
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
