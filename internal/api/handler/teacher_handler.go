package handler

import (
	"encoding/json"
	"gradebook/internal/api/middleware"
	"gradebook/internal/app/service"
	"gradebook/internal/common"
	"gradebook/internal/domain/model"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type TeacherHandler struct {
	gradeService  *service.GradeService
	courseService *service.CourseService
	userService   *service.UserService
}

func NewTeacherHandler(
	gradeService *service.GradeService,
	courseService *service.CourseService,
	userService *service.UserService,
) *TeacherHandler {
	return &TeacherHandler{
		gradeService:  gradeService,
		courseService: courseService,
		userService:   userService,
	}
}

func (h *TeacherHandler) RegisterRoutes(r chi.Router) {
	r.Get("/grades", h.listGrades)
	r.Post("/grades", h.createGrade)
	r.Get("/grades/export", h.exportGrades)
	r.Put("/grades/{gradeID}", h.updateGrade)
	r.Delete("/grades/{gradeID}", h.deleteGrade)

	r.Get("/courses", h.listCourses)
	r.Post("/courses", h.createCourse)
	r.Put("/courses/{courseID}", h.updateCourse)
	r.Delete("/courses/{courseID}", h.deleteCourse)

	r.Get("/students", h.listStudents)
	r.Get("/dashboard/statistics", h.dashboardStatistics)
	r.Get("/dashboard/recent-grades", h.recentGrades)
}

func (h *TeacherHandler) listGrades(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

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

func (h *TeacherHandler) createGrade(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	var req service.CreateGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	grade, err := h.gradeService.CreateGrade(r.Context(), identity, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, grade)
}

func (h *TeacherHandler) updateGrade(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	var req service.UpdateGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	grade, err := h.gradeService.UpdateGrade(r.Context(), identity, chi.URLParam(r, "gradeID"), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, grade)
}

func (h *TeacherHandler) deleteGrade(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	if err := h.gradeService.DeleteGrade(r.Context(), identity, chi.URLParam(r, "gradeID")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Grade deleted"})
}

func (h *TeacherHandler) exportGrades(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	workbook, err := h.gradeService.ExportGrades(r.Context(), identity)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="grades.xlsx"`)
	if err := workbook.Write(w); err != nil {
		log.Printf("ERROR: failed to write grades workbook: %v", err)
	}
}

func (h *TeacherHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	courses, err := h.courseService.ListCourses(r.Context(), identity)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	common.RespondWithJSON(w, http.StatusOK, courses)
}

func (h *TeacherHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	var req service.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), identity, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, course)
}

func (h *TeacherHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	var req service.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), identity, chi.URLParam(r, "courseID"), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *TeacherHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	if err := h.courseService.DeleteCourse(r.Context(), identity, chi.URLParam(r, "courseID")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Course deleted"})
}

func (h *TeacherHandler) listStudents(w http.ResponseWriter, r *http.Request) {
	// Roster is read-all for teachers; grades stay ownership-scoped.
	students, err := h.userService.ListStudents(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, students)
}

func (h *TeacherHandler) dashboardStatistics(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	stats, err := h.gradeService.TeacherStatistics(r.Context(), identity)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *TeacherHandler) recentGrades(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentityFromContext(r.Context())

	grades, err := h.gradeService.RecentGrades(r.Context(), identity)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, grades)
}
