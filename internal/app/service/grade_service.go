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

const recentGradeLimit = 5

type GradeService struct {
	gradeRepo repository.GradeRepository
	cache     StatsCache
}

func NewGradeService(gradeRepo repository.GradeRepository, cache StatsCache) *GradeService {
	return &GradeService{gradeRepo: gradeRepo, cache: cache}
}

type CreateGradeRequest struct {
	StudentID string   `json:"studentId" validate:"required,notblank"`
	CourseID  string   `json:"courseId" validate:"required,notblank"`
	TeacherID string   `json:"teacherId,omitempty"` // admins grade on a teacher's behalf
	Score     *float64 `json:"score" validate:"required,gte=0,lte=100"`
	Semester  string   `json:"semester" validate:"required,notblank"`
	Comments  string   `json:"comments,omitempty"`
}

type UpdateGradeRequest struct {
	Score    *float64 `json:"score,omitempty"`
	Comments *string  `json:"comments,omitempty"`
	Semester *string  `json:"semester,omitempty"`
}

// GradeQuery carries the caller-supplied list filters. The identity scope is
// applied on top and cannot be overridden by query parameters.
type GradeQuery struct {
	CourseID string
	Semester string
}

func scopedFilter(identity model.Identity) repository.GradeFilter {
	filter := repository.GradeFilter{}
	switch identity.Role {
	case model.RoleStudent:
		filter.StudentID = identity.UserID
	case model.RoleTeacher:
		filter.TeacherID = identity.UserID
	}
	return filter
}

func (s *GradeService) ListGrades(ctx context.Context, identity model.Identity, query GradeQuery) ([]model.Grade, error) {
	filter := scopedFilter(identity)
	filter.CourseID = query.CourseID
	filter.Semester = query.Semester
	filter.NewestFirst = true
	grades, err := s.gradeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if grades == nil {
		grades = []model.Grade{}
	}
	return grades, nil
}

func (s *GradeService) CreateGrade(ctx context.Context, identity model.Identity, req CreateGradeRequest) (*model.Grade, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	teacherID := identity.UserID
	if identity.Role == model.RoleAdmin && req.TeacherID != "" {
		teacherID = req.TeacherID
	}

	grade := &model.Grade{
		ID:        uuid.NewString(),
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		TeacherID: teacherID,
		Score:     *req.Score,
		Semester:  req.Semester,
		Comments:  req.Comments,
	}
	// The unique (student, course, semester) index is the serialization point
	// for concurrent creations; the loser sees ErrDuplicate from the repo.
	if err := s.gradeRepo.Create(ctx, grade); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, grade)
	return grade, nil
}

// UpdateGrade patches score, comments and semester only.
func (s *GradeService) UpdateGrade(ctx context.Context, identity model.Identity, id string, req UpdateGradeRequest) (*model.Grade, error) {
	grade, err := s.findOwned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if req.Score != nil {
		if *req.Score < 0 || *req.Score > 100 {
			return nil, fmt.Errorf("score must be between 0 and 100: %w", common.ErrValidation)
		}
		grade.Score = *req.Score
	}
	if req.Comments != nil {
		grade.Comments = *req.Comments
	}
	if req.Semester != nil {
		if *req.Semester == "" {
			return nil, fmt.Errorf("semester cannot be blank: %w", common.ErrValidation)
		}
		grade.Semester = *req.Semester
	}

	if err := s.gradeRepo.Update(ctx, grade); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, grade)
	return grade, nil
}

func (s *GradeService) DeleteGrade(ctx context.Context, identity model.Identity, id string) error {
	grade, err := s.findOwned(ctx, identity, id)
	if err != nil {
		return err
	}
	if err := s.gradeRepo.Delete(ctx, grade.ID); err != nil {
		return err
	}
	s.invalidateStats(ctx, grade)
	return nil
}

func (s *GradeService) RecentGrades(ctx context.Context, identity model.Identity) ([]model.Grade, error) {
	filter := scopedFilter(identity)
	filter.NewestFirst = true
	filter.Limit = recentGradeLimit
	grades, err := s.gradeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if grades == nil {
		grades = []model.Grade{}
	}
	return grades, nil
}

// invalidateStats drops every cached summary a grade mutation can stale:
// the student's, the grading teacher's and the admin totals.
func (s *GradeService) invalidateStats(ctx context.Context, grade *model.Grade) {
	cacheInvalidate(ctx, s.cache,
		studentStatsKey(grade.StudentID),
		teacherStatsKey(grade.TeacherID),
		adminStatsCacheKey,
	)
}

func (s *GradeService) StudentStatistics(ctx context.Context, identity model.Identity) (StudentStatistics, error) {
	key := studentStatsKey(identity.UserID)
	var stats StudentStatistics
	if cacheGet(ctx, s.cache, key, &stats) {
		return stats, nil
	}

	grades, err := s.gradeRepo.List(ctx, repository.GradeFilter{StudentID: identity.UserID})
	if err != nil {
		return StudentStatistics{}, err
	}
	stats = SummarizeStudent(grades)
	cacheSet(ctx, s.cache, key, stats)
	return stats, nil
}

func (s *GradeService) TeacherStatistics(ctx context.Context, identity model.Identity) (TeacherStatistics, error) {
	key := teacherStatsKey(identity.UserID)
	var stats TeacherStatistics
	if cacheGet(ctx, s.cache, key, &stats) {
		return stats, nil
	}

	grades, err := s.gradeRepo.List(ctx, repository.GradeFilter{TeacherID: identity.UserID})
	if err != nil {
		return TeacherStatistics{}, err
	}
	stats = SummarizeTeacher(grades)
	cacheSet(ctx, s.cache, key, stats)
	return stats, nil
}

// findOwned loads a grade and conceals its existence from non-owning
// teachers: a mismatch reads the same as no grade at all.
func (s *GradeService) findOwned(ctx context.Context, identity model.Identity, id string) (*model.Grade, error) {
	grade, err := s.gradeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role == model.RoleTeacher && grade.TeacherID != identity.UserID {
		return nil, common.ErrNotFound
	}
	return grade, nil
}
