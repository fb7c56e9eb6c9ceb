package main

import (
	"context"
	"fmt"
	"gradebook/internal/api"
	"gradebook/internal/app/service"
	"gradebook/internal/common/security"
	"gradebook/internal/domain/repository"
	"gradebook/internal/platform/cache"
	"gradebook/internal/platform/config"
	"gradebook/internal/platform/database"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	courseRepo := repository.NewPgCourseRepository(database.DB)
	gradeRepo := repository.NewPgGradeRepository(database.DB)
	activityRepo := repository.NewPgActivityRepository(database.DB)

	// 6. Initialize Services
	statsCache := cache.NewStore(cache.RDB, config.AppConfig.StatsCacheTTL)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, gradeRepo, activityRepo, statsCache)
	courseService := service.NewCourseService(courseRepo, gradeRepo)
	gradeService := service.NewGradeService(gradeRepo, statsCache)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, courseService, gradeService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
