package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"gradebook/internal/common"
	"gradebook/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// CourseFilter restricts course reads. A zero filter lists everything; the
// authorization gate fills in the ownership fields before it reaches here.
type CourseFilter struct {
	TeacherID string
	IDs       []string
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]model.Course, error)
}

type pgCourseRepository struct {
	db *sql.DB
}

func NewPgCourseRepository(db *sql.DB) CourseRepository {
	return &pgCourseRepository{db: db}
}

func (r *pgCourseRepository) Create(ctx context.Context, c *model.Course) error {
	query := `INSERT INTO courses (id, name, code, teacher_id, description, semester, credits)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Code, c.TeacherID, nullIfEmpty(c.Description), c.Semester, c.Credits)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint on code
			return fmt.Errorf("course code already exists: %w", common.ErrDuplicate)
		}
		return fmt.Errorf("pgCourseRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCourseRepository) Update(ctx context.Context, c *model.Course) error {
	query := `UPDATE courses SET
	              name = $1, code = $2, description = $3, semester = $4, credits = $5
	          WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Code, nullIfEmpty(c.Description), c.Semester, c.Credits, c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("course code already exists: %w", common.ErrDuplicate)
		}
		return fmt.Errorf("pgCourseRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCourseRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	query := `SELECT c.id, c.name, c.code, c.teacher_id, COALESCE(c.description, ''), c.semester, c.credits, c.created_at
	          FROM courses c WHERE c.id = $1`
	c := &model.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Code, &c.TeacherID, &c.Description, &c.Semester, &c.Credits, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCourseRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgCourseRepository) List(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	query := `SELECT c.id, c.name, c.code, c.teacher_id, COALESCE(c.description, ''), c.semester, c.credits, c.created_at,
	                 u.name
	          FROM courses c
	          JOIN users u ON u.id = c.teacher_id`
	var conds []string
	var args []interface{}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conds = append(conds, fmt.Sprintf("c.teacher_id = $%d", len(args)))
	}
	if filter.IDs != nil {
		args = append(args, filter.IDs)
		conds = append(conds, fmt.Sprintf("c.id = ANY($%d)", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY c.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgCourseRepository.List: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		var teacherName string
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.TeacherID, &c.Description, &c.Semester, &c.Credits, &c.CreatedAt, &teacherName); err != nil {
			return nil, fmt.Errorf("pgCourseRepository.List scan: %w", err)
		}
		c.Teacher = &model.UserRef{ID: c.TeacherID, Name: teacherName}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
