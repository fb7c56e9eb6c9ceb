package model

import (
	"time"
)

// Grade links a student, a course and the teacher who graded it. At most one
// grade exists per (student, course, semester); the database enforces this.
type Grade struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	CourseID  string    `json:"courseId"`
	TeacherID string    `json:"teacherId"`
	Score     float64   `json:"score"`
	Semester  string    `json:"semester"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// populated on reads
	Student *UserRef   `json:"student,omitempty"`
	Teacher *UserRef   `json:"teacher,omitempty"`
	Course  *CourseRef `json:"course,omitempty"`
}
