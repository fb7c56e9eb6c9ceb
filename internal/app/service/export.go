package service

import (
	"context"
	"fmt"
	"gradebook/internal/domain/model"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Grades"

// ExportGrades renders the caller's visible grades as an xlsx workbook.
func (s *GradeService) ExportGrades(ctx context.Context, identity model.Identity) (*excelize.File, error) {
	filter := scopedFilter(identity)
	filter.NewestFirst = true
	grades, err := s.gradeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return gradesWorkbook(grades)
}

func gradesWorkbook(grades []model.Grade) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("gradesWorkbook: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("gradesWorkbook: %w", err)
	}

	headers := []string{"Student", "Course", "Code", "Semester", "Score", "Comments", "Updated"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("gradesWorkbook: %w", err)
		}
	}

	for row, g := range grades {
		values := []interface{}{
			refName(g.Student), courseName(g.Course), courseCode(g.Course),
			g.Semester, g.Score, g.Comments, g.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("gradesWorkbook: %w", err)
			}
		}
	}
	return f, nil
}

func refName(u *model.UserRef) string {
	if u == nil {
		return ""
	}
	return u.Name
}

func courseName(c *model.CourseRef) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func courseCode(c *model.CourseRef) string {
	if c == nil {
		return ""
	}
	return c.Code
}
