package service

import (
	"context"
	"fmt"
	"gradebook/internal/common"
	"gradebook/internal/common/security"
	"gradebook/internal/common/validate"
	"gradebook/internal/domain/model"
	"gradebook/internal/domain/repository"
	"log"

	"github.com/google/uuid"
)

const (
	recentActivityLimit = 10
	adminStatsCacheKey  = "stats:admin"
)

// UserService is the admin-facing user management: CRUD with an append-only
// activity trail, plus the system-wide statistics.
type UserService struct {
	userRepo     repository.UserRepository
	gradeRepo    repository.GradeRepository
	activityRepo repository.ActivityRepository
	cache        StatsCache
}

func NewUserService(
	userRepo repository.UserRepository,
	gradeRepo repository.GradeRepository,
	activityRepo repository.ActivityRepository,
	cache StatsCache,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		gradeRepo:    gradeRepo,
		activityRepo: activityRepo,
		cache:        cache,
	}
}

type CreateUserRequest struct {
	Username   string `json:"username" validate:"required,min=3"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"required,oneof=admin teacher student"`
	Name       string `json:"name" validate:"required,notblank"`
	Email      string `json:"email" validate:"required,email"`
	StudentNo  string `json:"studentId,omitempty"`
	Class      string `json:"class,omitempty"`
	TeacherNo  string `json:"teacherId,omitempty"`
	Department string `json:"department,omitempty"`
}

type UpdateUserRequest struct {
	Username   *string `json:"username,omitempty"`
	Role       *string `json:"role,omitempty"`
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	StudentNo  *string `json:"studentId,omitempty"`
	Class      *string `json:"class,omitempty"`
	TeacherNo  *string `json:"teacherId,omitempty"`
	Department *string `json:"department,omitempty"`
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// ListStudents backs the teacher roster view.
func (s *UserService) ListStudents(ctx context.Context) ([]model.User, error) {
	students, err := s.userRepo.List(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	for i := range students {
		students[i].HashedPassword = ""
	}
	if students == nil {
		students = []model.User{}
	}
	return students, nil
}

func (s *UserService) CreateUser(ctx context.Context, adminID string, req CreateUserRequest) (*model.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		HashedPassword: hashed,
		Role:           req.Role,
		Name:           req.Name,
		Email:          req.Email,
	}
	// Role-specific fields only stick for the matching role.
	switch req.Role {
	case model.RoleStudent:
		user.StudentNo = optional(req.StudentNo)
		user.Class = optional(req.Class)
	case model.RoleTeacher:
		user.TeacherNo = optional(req.TeacherNo)
		user.Department = optional(req.Department)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logActivity(ctx, adminID, model.ActionCreateUser, fmt.Sprintf("Created user %s", user.Username))
	cacheInvalidate(ctx, s.cache, adminStatsCacheKey)
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, adminID, id string, req UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Role != nil {
		if !model.IsValidRole(*req.Role) {
			return nil, fmt.Errorf("invalid role %q: %w", *req.Role, common.ErrValidation)
		}
		user.Role = *req.Role
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.StudentNo != nil {
		user.StudentNo = optional(*req.StudentNo)
	}
	if req.Class != nil {
		user.Class = optional(*req.Class)
	}
	if req.TeacherNo != nil {
		user.TeacherNo = optional(*req.TeacherNo)
	}
	if req.Department != nil {
		user.Department = optional(*req.Department)
	}

	// Keep the role-specific invariant after any role change.
	if user.Role != model.RoleStudent {
		user.StudentNo, user.Class = nil, nil
	}
	if user.Role != model.RoleTeacher {
		user.TeacherNo, user.Department = nil, nil
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logActivity(ctx, adminID, model.ActionUpdateUser, fmt.Sprintf("Updated user %s", user.Username))
	cacheInvalidate(ctx, s.cache, adminStatsCacheKey)
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, adminID, id string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logActivity(ctx, adminID, model.ActionDeleteUser, fmt.Sprintf("Deleted user %s", user.Username))
	cacheInvalidate(ctx, s.cache, adminStatsCacheKey)
	return nil
}

func (s *UserService) Statistics(ctx context.Context) (AdminStatistics, error) {
	var stats AdminStatistics
	if cacheGet(ctx, s.cache, adminStatsCacheKey, &stats) {
		return stats, nil
	}

	counts, err := s.userRepo.Counts(ctx)
	if err != nil {
		return AdminStatistics{}, err
	}
	totalGrades, err := s.gradeRepo.Count(ctx)
	if err != nil {
		return AdminStatistics{}, err
	}
	stats = AdminStatistics{
		TotalUsers:    counts.Total,
		TotalTeachers: counts.Teachers,
		TotalStudents: counts.Students,
		TotalGrades:   totalGrades,
	}
	cacheSet(ctx, s.cache, adminStatsCacheKey, stats)
	return stats, nil
}

func (s *UserService) RecentActivities(ctx context.Context) ([]model.Activity, error) {
	return s.activityRepo.ListRecent(ctx, recentActivityLimit)
}

// logActivity appends to the audit trail. The mutation already succeeded, so
// a failed append is logged rather than surfaced.
func (s *UserService) logActivity(ctx context.Context, adminID, action, details string) {
	activity := &model.Activity{
		ID:      uuid.NewString(),
		Action:  action,
		UserID:  adminID,
		Details: details,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		log.Printf("WARN: failed to record activity %s: %v", action, err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
