package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"gradebook/internal/common"
	"gradebook/internal/common/security"
	"gradebook/internal/domain/model"
	"gradebook/internal/domain/repository"
	"gradebook/internal/platform/config"
	"gradebook/internal/platform/database"
	"log"
	"math/rand"

	"github.com/google/uuid"
)

// Seeds the default admin account, and optionally a small demo data set of
// teachers, students, courses and grades for local development.
func main() {
	demo := flag.Bool("demo", false, "also create demo teachers, students, courses and grades")
	flag.Parse()

	config.Load()
	database.Connect()
	defer database.Close()

	ctx := context.Background()
	userRepo := repository.NewPgUserRepository(database.DB)
	courseRepo := repository.NewPgCourseRepository(database.DB)
	gradeRepo := repository.NewPgGradeRepository(database.DB)

	if err := seedAdmin(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	if *demo {
		if err := seedDemoData(ctx, userRepo, courseRepo, gradeRepo); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	fmt.Println("Seeding completed successfully!")
}

func seedAdmin(ctx context.Context, userRepo repository.UserRepository) error {
	if _, err := userRepo.FindByUsername(ctx, "admin"); err == nil {
		fmt.Println("Admin user already exists")
		return nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	hashed, err := security.HashPassword("admin123")
	if err != nil {
		return err
	}
	admin := &model.User{
		ID:             uuid.NewString(),
		Username:       "admin",
		HashedPassword: hashed,
		Role:           model.RoleAdmin,
		Name:           "System Admin",
		Email:          "admin@example.com",
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	fmt.Println("Admin user created successfully")
	return nil
}

func seedDemoData(
	ctx context.Context,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	gradeRepo repository.GradeRepository,
) error {
	hashed, err := security.HashPassword("123456")
	if err != nil {
		return err
	}

	courseNames := []string{
		"Calculus", "Linear Algebra", "Probability Theory", "Discrete Mathematics",
		"C Programming", "Java Programming", "Data Structures", "Operating Systems",
		"Computer Networks", "Database Principles",
	}
	semesters := []string{"2022-2023-1", "2022-2023-2", "2023-2024-1", "2023-2024-2"}

	var teachers []*model.User
	for i := 0; i < 5; i++ {
		username := fmt.Sprintf("teacher%d", i+1)
		teacherNo := fmt.Sprintf("T%07d", 2023000+i)
		department := "Computer Science"
		teacher := &model.User{
			ID:             uuid.NewString(),
			Username:       username,
			HashedPassword: hashed,
			Role:           model.RoleTeacher,
			Name:           fmt.Sprintf("Teacher %d", i+1),
			Email:          username + "@example.com",
			TeacherNo:      &teacherNo,
			Department:     &department,
		}
		if err := createUnlessExists(ctx, userRepo, teacher); err != nil {
			return err
		}
		teachers = append(teachers, teacher)
	}
	fmt.Println("Teachers created:", len(teachers))

	var students []*model.User
	for i := 0; i < 50; i++ {
		username := fmt.Sprintf("student%d", i+1)
		studentNo := fmt.Sprintf("S%07d", 2023000+i)
		class := fmt.Sprintf("CS-%d", i%4+1)
		student := &model.User{
			ID:             uuid.NewString(),
			Username:       username,
			HashedPassword: hashed,
			Role:           model.RoleStudent,
			Name:           fmt.Sprintf("Student %d", i+1),
			Email:          username + "@example.com",
			StudentNo:      &studentNo,
			Class:          &class,
		}
		if err := createUnlessExists(ctx, userRepo, student); err != nil {
			return err
		}
		students = append(students, student)
	}
	fmt.Println("Students created:", len(students))

	var courses []*model.Course
	for i, name := range courseNames {
		course := &model.Course{
			ID:          uuid.NewString(),
			Name:        name,
			Code:        fmt.Sprintf("C%04d", i+1),
			TeacherID:   teachers[i%len(teachers)].ID,
			Description: name + " course",
			Semester:    semesters[rand.Intn(len(semesters))],
			Credits:     rand.Intn(2) + 2, // 2-3 credits
		}
		if err := courseRepo.Create(ctx, course); err != nil {
			if errors.Is(err, common.ErrDuplicate) {
				continue
			}
			return err
		}
		courses = append(courses, course)
	}
	fmt.Println("Courses created:", len(courses))

	gradeCount := 0
	for _, course := range courses {
		enrolled := rand.Intn(11) + 30 // 30-40 students per course
		if enrolled > len(students) {
			enrolled = len(students)
		}
		perm := rand.Perm(len(students))
		for _, si := range perm[:enrolled] {
			grade := &model.Grade{
				ID:        uuid.NewString(),
				StudentID: students[si].ID,
				CourseID:  course.ID,
				TeacherID: course.TeacherID,
				Score:     demoScore(),
				Semester:  course.Semester,
				Comments:  "Final exam score",
			}
			if err := gradeRepo.Create(ctx, grade); err != nil {
				if errors.Is(err, common.ErrDuplicate) {
					continue
				}
				return err
			}
			gradeCount++
		}
	}
	fmt.Println("Grades created:", gradeCount)
	return nil
}

func createUnlessExists(ctx context.Context, userRepo repository.UserRepository, user *model.User) error {
	existing, err := userRepo.FindByUsername(ctx, user.Username)
	if err == nil {
		*user = *existing
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return userRepo.Create(ctx, user)
}

// demoScore draws from a rough normal distribution around 75, clamped to the
// valid score range.
func demoScore() float64 {
	score := 75 + rand.NormFloat64()*10
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return float64(int(score + 0.5))
}
