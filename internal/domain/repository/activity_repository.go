package repository

import (
	"context"
	"database/sql"
	"fmt"
	"gradebook/internal/domain/model"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	ListRecent(ctx context.Context, limit int) ([]model.Activity, error)
}

type pgActivityRepository struct {
	db *sql.DB
}

func NewPgActivityRepository(db *sql.DB) ActivityRepository {
	return &pgActivityRepository{db: db}
}

func (r *pgActivityRepository) Create(ctx context.Context, a *model.Activity) error {
	query := `INSERT INTO activities (id, action, user_id, details)
	          VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Action, a.UserID, a.Details)
	if err != nil {
		return fmt.Errorf("pgActivityRepository.Create: %w", err)
	}
	return nil
}

func (r *pgActivityRepository) ListRecent(ctx context.Context, limit int) ([]model.Activity, error) {
	query := `SELECT a.id, a.action, a.user_id, a.details, a.created_at, u.username
	          FROM activities a
	          JOIN users u ON u.id = a.user_id
	          ORDER BY a.created_at DESC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgActivityRepository.ListRecent: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		var a model.Activity
		var username string
		if err := rows.Scan(&a.ID, &a.Action, &a.UserID, &a.Details, &a.CreatedAt, &username); err != nil {
			return nil, fmt.Errorf("pgActivityRepository.ListRecent scan: %w", err)
		}
		a.User = &model.UserRef{ID: a.UserID, Username: username}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
