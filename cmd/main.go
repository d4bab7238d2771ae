package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"TodoList/server/internal/appMiddleware"
	"TodoList/server/internal/auth"
	"TodoList/server/internal/config"
	"TodoList/server/internal/db"
	"TodoList/server/internal/handlers"
	"TodoList/server/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %s\n", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to apply migrations: %s\n", err)
	}

	tm := auth.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessExpiresIn, cfg.RefreshExpiresIn)
	userService := services.NewUserService(pool)
	refreshTokenService := services.NewRefreshTokenService(pool)
	todoService := services.NewTodoService(pool)

	authHandler := handlers.NewAuthHandler(userService, refreshTokenService, tm, cfg.RefreshExpiresIn)
	todoHandler := handlers.NewTodoHandler(todoService)
	healthHandler := handlers.NewHealthHandler(pool)

	r := chi.NewRouter()

	r.Use(appMiddleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler.Check)

	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(tm))

		r.Post("/auth/logout", authHandler.Logout)

		r.Post("/todos", todoHandler.Create)
		r.Get("/todos", todoHandler.List)
		r.Get("/todos/trash", todoHandler.ListTrash)
		r.Post("/todos/trash/{id}/restore", todoHandler.Restore)
		r.Delete("/todos/trash/{id}", todoHandler.PermanentlyDelete)
		r.Get("/todos/{id}", todoHandler.GetById)
		r.Put("/todos/{id}", todoHandler.Update)
		r.Delete("/todos/{id}", todoHandler.SoftDelete)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server started on port %d\n", cfg.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %s\n", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Stopping the server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %s\n", err)
	}
	log.Println("Server has been successfully stopped")
}
