package service

import (
	"gradebook/internal/domain/model"
	"math"
)

// StudentStatistics is the student dashboard summary over the student's own
// grade set. Empty sets yield zeros across the board, including highest and
// lowest score.
type StudentStatistics struct {
	TotalCourses int     `json:"totalCourses"`
	AverageScore float64 `json:"averageScore"`
	HighestScore float64 `json:"highestScore"`
	LowestScore  float64 `json:"lowestScore"`
	TotalCredits int     `json:"totalCredits"`
	GPA          float64 `json:"gpa"`
	PassRate     float64 `json:"passRate"`
}

// TeacherStatistics is the teacher dashboard summary over the grades the
// teacher assigned. Student and course counts are distinct.
type TeacherStatistics struct {
	TotalStudents int     `json:"totalStudents"`
	TotalCourses  int     `json:"totalCourses"`
	AverageScore  float64 `json:"averageScore"`
	PassRate      float64 `json:"passRate"`
}

type AdminStatistics struct {
	TotalUsers    int `json:"totalUsers"`
	TotalTeachers int `json:"totalTeachers"`
	TotalStudents int `json:"totalStudents"`
	TotalGrades   int `json:"totalGrades"`
}

const passThreshold = 60

// gradePoint maps a percentage score to a 0-5 grade point scale. Failing
// scores carry zero points regardless of how close to passing they are.
func gradePoint(score float64) float64 {
	if score >= passThreshold {
		return (score - 50) / 10
	}
	return 0
}

func averageScore(grades []model.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g.Score
	}
	return sum / float64(len(grades))
}

func passRate(grades []model.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	passed := 0
	for _, g := range grades {
		if g.Score >= passThreshold {
			passed++
		}
	}
	return round1(float64(passed) / float64(len(grades)) * 100)
}

// SummarizeStudent computes the credit-weighted statistics for one student's
// grade set. Credits are counted once per grade, not deduplicated per course.
func SummarizeStudent(grades []model.Grade) StudentStatistics {
	stats := StudentStatistics{
		TotalCourses: len(grades),
		AverageScore: averageScore(grades),
		PassRate:     passRate(grades),
	}
	if len(grades) == 0 {
		return stats
	}

	stats.HighestScore = grades[0].Score
	stats.LowestScore = grades[0].Score
	var weightedPoints float64
	for _, g := range grades {
		stats.HighestScore = math.Max(stats.HighestScore, g.Score)
		stats.LowestScore = math.Min(stats.LowestScore, g.Score)
		if g.Course != nil {
			stats.TotalCredits += g.Course.Credits
			weightedPoints += gradePoint(g.Score) * float64(g.Course.Credits)
		}
	}
	if stats.TotalCredits > 0 {
		stats.GPA = round2(weightedPoints / float64(stats.TotalCredits))
	}
	return stats
}

// SummarizeTeacher computes the teacher dashboard statistics with distinct
// student and course counts over the grade set.
func SummarizeTeacher(grades []model.Grade) TeacherStatistics {
	students := make(map[string]struct{})
	courses := make(map[string]struct{})
	for _, g := range grades {
		students[g.StudentID] = struct{}{}
		courses[g.CourseID] = struct{}{}
	}
	return TeacherStatistics{
		TotalStudents: len(students),
		TotalCourses:  len(courses),
		AverageScore:  round1(averageScore(grades)),
		PassRate:      passRate(grades),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
