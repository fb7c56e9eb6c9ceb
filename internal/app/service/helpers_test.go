package service

import (
	"context"
	"encoding/json"
	"fmt"
	"gradebook/internal/common"
	"gradebook/internal/domain/model"
	"gradebook/internal/domain/repository"
	"sort"
	"sync"
	"time"
)

// In-memory repositories backing the service tests. They enforce the same
// uniqueness rules as the SQL schema so duplicate handling can be exercised.

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

var clock = &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrDuplicate)
		}
	}
	user.CreatedAt = clock.next()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	u, ok := r.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.HashedPassword = hashedPassword
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context, role string) ([]model.User, error) {
	var users []model.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r *fakeUserRepo) Counts(_ context.Context) (repository.UserCounts, error) {
	c := repository.UserCounts{Total: len(r.users)}
	for _, u := range r.users {
		switch u.Role {
		case model.RoleTeacher:
			c.Teachers++
		case model.RoleStudent:
			c.Students++
		}
	}
	return c, nil
}

type fakeGradeRepo struct {
	grades map[string]*model.Grade
}

func newFakeGradeRepo() *fakeGradeRepo {
	return &fakeGradeRepo{grades: make(map[string]*model.Grade)}
}

func (r *fakeGradeRepo) Create(_ context.Context, grade *model.Grade) error {
	for _, g := range r.grades {
		if g.StudentID == grade.StudentID && g.CourseID == grade.CourseID && g.Semester == grade.Semester {
			return fmt.Errorf("grade already exists for this student, course and semester: %w", common.ErrDuplicate)
		}
	}
	grade.CreatedAt = clock.next()
	grade.UpdatedAt = grade.CreatedAt
	cp := *grade
	r.grades[grade.ID] = &cp
	return nil
}

func (r *fakeGradeRepo) Update(_ context.Context, grade *model.Grade) error {
	existing, ok := r.grades[grade.ID]
	if !ok {
		return common.ErrNotFound
	}
	for _, g := range r.grades {
		if g.ID != grade.ID && g.StudentID == existing.StudentID && g.CourseID == existing.CourseID && g.Semester == grade.Semester {
			return fmt.Errorf("grade already exists for this student, course and semester: %w", common.ErrDuplicate)
		}
	}
	existing.Score = grade.Score
	existing.Comments = grade.Comments
	existing.Semester = grade.Semester
	existing.UpdatedAt = clock.next()
	return nil
}

func (r *fakeGradeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.grades[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.grades, id)
	return nil
}

func (r *fakeGradeRepo) FindByID(_ context.Context, id string) (*model.Grade, error) {
	g, ok := r.grades[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGradeRepo) List(_ context.Context, filter repository.GradeFilter) ([]model.Grade, error) {
	var grades []model.Grade
	for _, g := range r.grades {
		if filter.StudentID != "" && g.StudentID != filter.StudentID {
			continue
		}
		if filter.TeacherID != "" && g.TeacherID != filter.TeacherID {
			continue
		}
		if filter.CourseID != "" && g.CourseID != filter.CourseID {
			continue
		}
		if filter.Semester != "" && g.Semester != filter.Semester {
			continue
		}
		grades = append(grades, *g)
	}
	sort.Slice(grades, func(i, j int) bool {
		if filter.NewestFirst {
			return grades[i].CreatedAt.After(grades[j].CreatedAt)
		}
		return grades[i].CreatedAt.Before(grades[j].CreatedAt)
	})
	if filter.Limit > 0 && len(grades) > filter.Limit {
		grades = grades[:filter.Limit]
	}
	return grades, nil
}

func (r *fakeGradeRepo) CountByCourse(_ context.Context, courseID string) (int, error) {
	count := 0
	for _, g := range r.grades {
		if g.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (r *fakeGradeRepo) Count(_ context.Context) (int, error) {
	return len(r.grades), nil
}

type fakeCourseRepo struct {
	courses map[string]*model.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*model.Course)}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range r.courses {
		if c.Code == course.Code {
			return fmt.Errorf("course code already exists: %w", common.ErrDuplicate)
		}
	}
	course.CreatedAt = clock.next()
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *model.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return common.ErrNotFound
	}
	for _, c := range r.courses {
		if c.ID != course.ID && c.Code == course.Code {
			return fmt.Errorf("course code already exists: %w", common.ErrDuplicate)
		}
	}
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.courses[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) FindByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]model.Course, error) {
	var courses []model.Course
	for _, c := range r.courses {
		if filter.TeacherID != "" && c.TeacherID != filter.TeacherID {
			continue
		}
		if filter.IDs != nil && !contains(filter.IDs, c.ID) {
			continue
		}
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses, nil
}

type fakeActivityRepo struct {
	activities []model.Activity
}

func (r *fakeActivityRepo) Create(_ context.Context, a *model.Activity) error {
	a.CreatedAt = clock.next()
	r.activities = append(r.activities, *a)
	return nil
}

func (r *fakeActivityRepo) ListRecent(_ context.Context, limit int) ([]model.Activity, error) {
	recent := make([]model.Activity, len(r.activities))
	copy(recent, r.activities)
	sort.Slice(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

type fakeStatsCache struct {
	store map[string][]byte
	hits  int
}

func (c *fakeStatsCache) GetJSON(_ context.Context, key string, dest interface{}) bool {
	data, ok := c.store[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false
	}
	c.hits++
	return true
}

func (c *fakeStatsCache) Invalidate(_ context.Context, keys ...string) {
	for _, key := range keys {
		delete(c.store, key)
	}
}

func (c *fakeStatsCache) SetJSON(_ context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if c.store == nil {
		c.store = make(map[string][]byte)
	}
	c.store[key] = data
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
