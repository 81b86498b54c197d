package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sketchfolio/backend/internal/config"
	"github.com/sketchfolio/backend/internal/docstore"
	"github.com/sketchfolio/backend/internal/form"
	"github.com/sketchfolio/backend/internal/handler"
	"github.com/sketchfolio/backend/internal/logging"
	"github.com/sketchfolio/backend/internal/repository"
	"github.com/sketchfolio/backend/internal/service"
	"github.com/sketchfolio/backend/internal/storage"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without a store the site runs on the sample reviews and logs submissions.
	var store docstore.Store
	var pinger handler.Pinger
	if cfg.Store.Configured() {
		openCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
		s, err := docstore.Open(openCtx, cfg.Store)
		cancel()
		if err != nil {
			logging.Fatal("failed to open document store", "driver", cfg.Store.Driver, "error", err)
		}
		defer s.Close()
		store, pinger = s, s
		slog.Info("document store configured", "driver", cfg.Store.Driver, "project_id", cfg.Store.ProjectID)
	} else {
		slog.Warn("document store not configured, running in mock mode")
	}

	reviewRepo := repository.NewDocReviewRepository(store)
	contactRepo := repository.NewDocContactRepository(store)
	reviewService := service.NewReviewService(reviewRepo, rand.IntN)
	contactService := service.NewContactService(contactRepo)

	reviewTracker := form.NewTracker(form.ReviewHold, nil)
	contactTracker := form.NewTracker(form.ContactHold, nil)
	go reviewTracker.Run(ctx, time.Minute)
	go contactTracker.Run(ctx, time.Minute)

	rateLimiter := handler.NewRateLimiter(cfg.RateLimitPerMinute)
	go rateLimiter.Run(ctx)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logging.Fatal("failed to create upload dir", "dir", cfg.UploadDir, "error", err)
	}
	avatarStorage := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadURLPrefix)

	h := handler.New(pinger, cfg.FrontendURL)
	reviewHandler := handler.NewReviewHandler(reviewService, avatarStorage, reviewTracker)
	contactHandler := handler.NewContactHandler(contactService, contactTracker)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("GET /api/reviews", reviewHandler.List)
	mux.HandleFunc("GET /api/reviews/featured", reviewHandler.Featured)
	mux.HandleFunc("GET /api/reviews/stats", reviewHandler.Stats)
	mux.HandleFunc("GET /api/reviews/submission", reviewHandler.SubmissionStatus)
	mux.Handle("POST /api/reviews", rateLimiter.Middleware(http.HandlerFunc(reviewHandler.Submit)))

	mux.HandleFunc("GET /api/contact/submission", contactHandler.SubmissionStatus)
	mux.Handle("POST /api/contact", rateLimiter.Middleware(http.HandlerFunc(contactHandler.Submit)))

	// Uploaded avatars
	mux.Handle("GET "+cfg.UploadURLPrefix+"/", http.StripPrefix(cfg.UploadURLPrefix, http.FileServer(http.Dir(cfg.UploadDir))))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
