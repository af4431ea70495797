package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"clearedforcloud/auth"
	"clearedforcloud/config"
	"clearedforcloud/handlers"
	"clearedforcloud/middleware"
	"clearedforcloud/service"
	"clearedforcloud/storage"
	"clearedforcloud/storage/file"
	"clearedforcloud/storage/in_memory"
	"clearedforcloud/storage/persistent"
	"clearedforcloud/storage/persistent_cached"
)

func CreateStorage(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	switch cfg.StorageMode {
	case config.File:
		return file.CreateFileStorage(cfg.DataFile), nil
	case config.Static:
		return in_memory.CreateInMemoryStorage(), nil
	case config.Mongo, config.MongoWithCache:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		mongoStorage, err := persistent.CreateMongoStorage(connectCtx, cfg.MongoURL, cfg.MongoDBName, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		if cfg.StorageMode == config.Mongo {
			return mongoStorage, nil
		}
		cached, err := persistent_cached.CreatePersistentStorageCachedWithRedis(mongoStorage, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			_ = mongoStorage.Close(ctx)
			return nil, err
		}
		return cached, nil
	}
	return nil, fmt.Errorf("invalid STORAGE_MODE %q", cfg.StorageMode)
}

// NewHandler wires the single auth strategy selected by cfg.AuthMode.
func NewHandler(cfg config.Config, posts storage.Storage) (*handlers.HTTPHandler, *auth.Gate, error) {
	handler := &handlers.HTTPHandler{
		Posts:         service.NewPostService(posts, in_memory.SeedPosts),
		Issuer:        auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		SecureCookies: cfg.SecureCookies,
	}
	verifier := auth.NewTokenVerifier(cfg.JWTSecret)

	switch cfg.AuthMode {
	case config.PasswordAuth:
		check, err := auth.NewPasswordCheck(cfg.AdminPassword)
		if err != nil {
			return nil, nil, err
		}
		handler.Password = check
		return handler, auth.NewGate(verifier, auth.AdminStrategy{}), nil
	case config.EmailAuth:
		check, err := auth.NewEmailCheck(cfg.AuthorizedEmail)
		if err != nil {
			return nil, nil, err
		}
		handler.Email = check
		handler.Exchanger = auth.NewGoogleExchanger(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURI)
		return handler, auth.NewGate(verifier, auth.EmailStrategy{Check: check}), nil
	}
	return nil, nil, fmt.Errorf("invalid AUTH_MODE %q", cfg.AuthMode)
}

func NewRouter(cfg config.Config, handler *handlers.HTTPHandler, gate *auth.Gate, logger *log.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/maintenance/ping", handler.HealthCheck).Methods("GET")
	r.HandleFunc("/posts", handler.HandleGetPosts).Methods("GET")
	r.Handle("/posts", middleware.RequireToken(gate)(http.HandlerFunc(handler.HandleCreatePost))).Methods("POST")

	switch cfg.AuthMode {
	case config.PasswordAuth:
		r.HandleFunc("/posts/login", handler.HandleLogin).Methods("POST")
	case config.EmailAuth:
		r.HandleFunc("/auth/callback", handler.HandleAuthCallback).Methods("GET")
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CorsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}).Handler

	return middleware.Logging(logger)(corsHandler(r))
}

// CreateServer builds the storage backend and the HTTP server around it.
// The caller owns the returned storage and must close it after shutdown.
func CreateServer(ctx context.Context, cfg config.Config, logger *log.Logger) (*http.Server, storage.Storage, error) {
	posts, err := CreateStorage(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating storage: %w", err)
	}
	handler, gate, err := NewHandler(cfg, posts)
	if err != nil {
		_ = posts.Close(ctx)
		return nil, nil, fmt.Errorf("configuring auth: %w", err)
	}

	return &http.Server{
		Handler:      NewRouter(cfg, handler, gate, logger),
		Addr:         "0.0.0.0:" + cfg.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, posts, nil
}

func main() {
	logger := log.New(os.Stdout, "blog ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Invalid configuration: %s", err.Error())
	}
	if cfg.AdminPasswordDefault {
		logger.Printf("WARNING: admin login accepts the built-in default password; set ADMIN_PASSWORD")
	}

	ctx := context.Background()
	srv, posts, err := CreateServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to start: %s", err.Error())
	}

	go func() {
		logger.Printf("Start serving on %s (storage=%s, auth=%s)", srv.Addr, cfg.StorageMode, cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %s", err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("Server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Shutdown error: %s", err.Error())
	}
	if err := posts.Close(shutdownCtx); err != nil {
		logger.Printf("Failed to close storage: %s", err.Error())
	}
	logger.Println("Server stopped")
}
