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

// GradeFilter restricts grade reads. The authorization gate sets StudentID or
// TeacherID from the caller's identity before the filter reaches the store;
// CourseID and Semester come from query parameters.
type GradeFilter struct {
	StudentID   string
	TeacherID   string
	CourseID    string
	Semester    string
	Limit       int
	NewestFirst bool
}

type GradeRepository interface {
	Create(ctx context.Context, grade *model.Grade) error
	Update(ctx context.Context, grade *model.Grade) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Grade, error)
	List(ctx context.Context, filter GradeFilter) ([]model.Grade, error)
	CountByCourse(ctx context.Context, courseID string) (int, error)
	Count(ctx context.Context) (int, error)
}

type pgGradeRepository struct {
	db *sql.DB
}

func NewPgGradeRepository(db *sql.DB) GradeRepository {
	return &pgGradeRepository{db: db}
}

func (r *pgGradeRepository) Create(ctx context.Context, g *model.Grade) error {
	query := `INSERT INTO grades (id, student_id, course_id, teacher_id, score, semester, comments)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, g.ID, g.StudentID, g.CourseID, g.TeacherID, g.Score, g.Semester, nullIfEmpty(g.Comments))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // (student, course, semester) already graded
				return fmt.Errorf("grade already exists for this student, course and semester: %w", common.ErrDuplicate)
			case "23503": // bad student/course/teacher reference
				return fmt.Errorf("referenced student or course does not exist: %w", common.ErrBadRequest)
			}
		}
		return fmt.Errorf("pgGradeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgGradeRepository) Update(ctx context.Context, g *model.Grade) error {
	query := `UPDATE grades SET
	              score = $1, comments = $2, semester = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, g.Score, nullIfEmpty(g.Comments), g.Semester, g.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		// moving a grade to another semester can collide with an existing one
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("grade already exists for this student, course and semester: %w", common.ErrDuplicate)
		}
		return fmt.Errorf("pgGradeRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgGradeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgGradeRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgGradeRepository) FindByID(ctx context.Context, id string) (*model.Grade, error) {
	query := `SELECT g.id, g.student_id, g.course_id, g.teacher_id, g.score, g.semester,
	                 COALESCE(g.comments, ''), g.created_at, g.updated_at
	          FROM grades g WHERE g.id = $1`
	g := &model.Grade{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.StudentID, &g.CourseID, &g.TeacherID, &g.Score, &g.Semester,
		&g.Comments, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgGradeRepository.FindByID: %w", err)
	}
	return g, nil
}

// List returns grades with the student, teacher and course display fields
// populated from joins.
func (r *pgGradeRepository) List(ctx context.Context, filter GradeFilter) ([]model.Grade, error) {
	query := `SELECT g.id, g.student_id, g.course_id, g.teacher_id, g.score, g.semester,
	                 COALESCE(g.comments, ''), g.created_at, g.updated_at,
	                 s.name, t.name, c.name, c.code, c.credits
	          FROM grades g
	          JOIN users s ON s.id = g.student_id
	          JOIN users t ON t.id = g.teacher_id
	          JOIN courses c ON c.id = g.course_id`
	var conds []string
	var args []interface{}
	add := func(cond, val string) {
		if val != "" {
			args = append(args, val)
			conds = append(conds, fmt.Sprintf(cond, len(args)))
		}
	}
	add("g.student_id = $%d", filter.StudentID)
	add("g.teacher_id = $%d", filter.TeacherID)
	add("g.course_id = $%d", filter.CourseID)
	add("g.semester = $%d", filter.Semester)
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	if filter.NewestFirst {
		query += " ORDER BY g.created_at DESC"
	} else {
		query += " ORDER BY g.created_at ASC"
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgGradeRepository.List: %w", err)
	}
	defer rows.Close()

	var grades []model.Grade
	for rows.Next() {
		var g model.Grade
		var studentName, teacherName, courseName, courseCode string
		var courseCredits int
		err := rows.Scan(
			&g.ID, &g.StudentID, &g.CourseID, &g.TeacherID, &g.Score, &g.Semester,
			&g.Comments, &g.CreatedAt, &g.UpdatedAt,
			&studentName, &teacherName, &courseName, &courseCode, &courseCredits,
		)
		if err != nil {
			return nil, fmt.Errorf("pgGradeRepository.List scan: %w", err)
		}
		g.Student = &model.UserRef{ID: g.StudentID, Name: studentName}
		g.Teacher = &model.UserRef{ID: g.TeacherID, Name: teacherName}
		g.Course = &model.CourseRef{ID: g.CourseID, Name: courseName, Code: courseCode, Credits: courseCredits}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

func (r *pgGradeRepository) CountByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grades WHERE course_id = $1`, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgGradeRepository.CountByCourse: %w", err)
	}
	return count, nil
}

func (r *pgGradeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grades`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgGradeRepository.Count: %w", err)
	}
	return count, nil
}
