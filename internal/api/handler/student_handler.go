package handler

import (
	"gradebook/internal/api/middleware"
	"gradebook/internal/app/service"
	"gradebook/internal/common"
	"gradebook/internal/domain/model"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type StudentHandler struct {
	gradeService  *service.GradeService
	courseService *service.CourseService
}

func NewStudentHandler(gradeService *service.GradeService, courseService *service.CourseService) *StudentHandler {
	return &StudentHandler{gradeService: gradeService, courseService: courseService}
}

func (h *StudentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/grades", h.listGrades)
	r.Get("/courses", h.listCourses)
	r.Get("/dashboard/statistics", h.dashboardStatistics)
	r.Get("/dashboard/recent-grades", h.recentGrades)
}

func (h *StudentHandler) listGrades(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	// Query parameters narrow the student's own records, never widen them.
	grades, err := h.gradeService.ListGrades(r.Context(), identity, service.GradeQuery{
		CourseID: r.URL.Query().Get("courseId"),
		Semester: r.URL.Query().Get("semester"),
	})
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, grades)
}

func (h *StudentHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	courses, err := h.courseService.StudentCourses(r.Context(), identity.UserID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	common.RespondWithJSON(w, http.StatusOK, courses)
}

func (h *StudentHandler) dashboardStatistics(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	stats, err := h.gradeService.StudentStatistics(r.Context(), identity)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *StudentHandler) recentGrades(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	grades, err := h.gradeService.RecentGrades(r.Context(), identity)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, grades)
}
