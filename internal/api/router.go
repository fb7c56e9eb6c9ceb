package api

import (
	"gradebook/internal/api/handler"
	"gradebook/internal/api/middleware"
	"gradebook/internal/app/service"
	"gradebook/internal/common/security"
	"gradebook/internal/domain/model"
	"gradebook/internal/platform/config"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	courseService *service.CourseService,
	gradeService *service.GradeService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{config.AppConfig.CORSAllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Verifies the bearer token if present, puts claims in context. The
	// Authenticator middleware on protected subtrees enforces validity.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		api.Route("/auth", authHandler.RegisterRoutes)

		adminHandler := handler.NewAdminHandler(userService)
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.Authenticator)
			admin.Use(middleware.RequireRole(model.RoleAdmin))
			adminHandler.RegisterRoutes(admin)
		})

		teacherHandler := handler.NewTeacherHandler(gradeService, courseService, userService)
		api.Route("/teacher", func(teacher chi.Router) {
			teacher.Use(middleware.Authenticator)
			teacher.Use(middleware.RequireRole(model.RoleTeacher))
			teacherHandler.RegisterRoutes(teacher)
		})

		studentHandler := handler.NewStudentHandler(gradeService, courseService)
		api.Route("/student", func(student chi.Router) {
			student.Use(middleware.Authenticator)
			student.Use(middleware.RequireRole(model.RoleStudent))
			studentHandler.RegisterRoutes(student)
		})
	})

	return r
}
