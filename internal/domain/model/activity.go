package model

import (
	"time"
)

const (
	ActionCreateUser = "create_user"
	ActionUpdateUser = "update_user"
	ActionDeleteUser = "delete_user"
)

// Activity is the append-only audit trail of admin mutations.
type Activity struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`

	User *UserRef `json:"user,omitempty"` // populated on reads (username)
}
