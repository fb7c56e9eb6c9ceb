package model

import (
	"time"
)

type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	TeacherID   string    `json:"teacherId"`
	Description string    `json:"description,omitempty"`
	Semester    string    `json:"semester"`
	Credits     int       `json:"credits"`
	CreatedAt   time.Time `json:"createdAt"`

	Teacher *UserRef `json:"teacher,omitempty"` // populated on reads
}

// CourseRef is the read-side join summary embedded in grades. Credits are
// carried so the aggregation engine can weight GPA without a second lookup.
type CourseRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Credits int    `json:"credits,omitempty"`
}
