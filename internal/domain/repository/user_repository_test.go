package repository

import (
	"errors"
	"gradebook/internal/common"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapUserDeleteError(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "grades_student_id_fkey"}
	err := mapUserDeleteError(fkErr)
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, http.StatusBadRequest, common.HTTPStatusFromError(err))

	plain := errors.New("connection reset")
	err = mapUserDeleteError(plain)
	assert.NotErrorIs(t, err, common.ErrConflict)
	assert.ErrorIs(t, err, plain)
}
