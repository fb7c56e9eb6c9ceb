package model

import (
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTeacher || role == RoleStudent
}

// User holds all three roles in one table. StudentNo/Class are only set for
// students, TeacherNo/Department only for teachers (the JSON field names
// studentId/teacherId are the registry numbers, not user references).
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"role"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	StudentNo      *string   `json:"studentId,omitempty"`
	Class          *string   `json:"class,omitempty"`
	TeacherNo      *string   `json:"teacherId,omitempty"`
	Department     *string   `json:"department,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserRef is the read-side join summary embedded in grades and activities.
type UserRef struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Identity is the authenticated caller, carried through the request context.
type Identity struct {
	UserID string
	Role   string
}
