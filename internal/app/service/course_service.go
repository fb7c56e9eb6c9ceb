package service

import (
	"context"
	"fmt"
	"gradebook/internal/common"
	"gradebook/internal/common/validate"
	"gradebook/internal/domain/model"
	"gradebook/internal/domain/repository"

	"github.com/google/uuid"
)

type CourseService struct {
	courseRepo repository.CourseRepository
	gradeRepo  repository.GradeRepository
}

func NewCourseService(courseRepo repository.CourseRepository, gradeRepo repository.GradeRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo, gradeRepo: gradeRepo}
}

type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,notblank"`
	Code        string `json:"code" validate:"required,notblank"`
	Semester    string `json:"semester" validate:"required,notblank"`
	Credits     int    `json:"credits" validate:"required,gte=1,lte=20"`
	Description string `json:"description,omitempty"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Semester    *string `json:"semester,omitempty"`
	Credits     *int    `json:"credits,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ListCourses returns the courses visible to the caller: teachers see the
// courses they own, admins see everything.
func (s *CourseService) ListCourses(ctx context.Context, identity model.Identity) ([]model.Course, error) {
	filter := repository.CourseFilter{}
	if identity.Role == model.RoleTeacher {
		filter.TeacherID = identity.UserID
	}
	return s.courseRepo.List(ctx, filter)
}

func (s *CourseService) CreateCourse(ctx context.Context, identity model.Identity, req CreateCourseRequest) (*model.Course, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	course := &model.Course{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Code:        req.Code,
		TeacherID:   identity.UserID,
		Description: req.Description,
		Semester:    req.Semester,
		Credits:     req.Credits,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, identity model.Identity, id string, req UpdateCourseRequest) (*model.Course, error) {
	course, err := s.findOwned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Code != nil {
		course.Code = *req.Code
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}
	if req.Credits != nil {
		if *req.Credits < 1 {
			return nil, fmt.Errorf("credits must be positive: %w", common.ErrValidation)
		}
		course.Credits = *req.Credits
	}
	if req.Description != nil {
		course.Description = *req.Description
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse refuses to delete a course that still has grades.
func (s *CourseService) DeleteCourse(ctx context.Context, identity model.Identity, id string) error {
	course, err := s.findOwned(ctx, identity, id)
	if err != nil {
		return err
	}

	count, err := s.gradeRepo.CountByCourse(ctx, course.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("cannot delete course with existing grades: %w", common.ErrConflict)
	}
	return s.courseRepo.Delete(ctx, course.ID)
}

// StudentCourses returns the courses a student is graded in, with the
// teacher name populated.
func (s *CourseService) StudentCourses(ctx context.Context, studentID string) ([]model.Course, error) {
	grades, err := s.gradeRepo.List(ctx, repository.GradeFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	if len(grades) == 0 {
		return []model.Course{}, nil
	}

	seen := make(map[string]struct{}, len(grades))
	var ids []string
	for _, g := range grades {
		if _, ok := seen[g.CourseID]; !ok {
			seen[g.CourseID] = struct{}{}
			ids = append(ids, g.CourseID)
		}
	}
	return s.courseRepo.List(ctx, repository.CourseFilter{IDs: ids})
}

// findOwned loads a course and conceals its existence from non-owning
// teachers: a mismatch reads the same as no course at all.
func (s *CourseService) findOwned(ctx context.Context, identity model.Identity, id string) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role == model.RoleTeacher && course.TeacherID != identity.UserID {
		return nil, common.ErrNotFound
	}
	return course, nil
}
