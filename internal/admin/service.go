// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package admin

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Service fronts the administration repository with input validation.
// The operations are thin single-row creates; cross-entity integrity is
// enforced by the store's foreign keys, not re-checked here.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a Service using the default logger.
func NewService(repo Repository) (*Service, error) {
	return NewServiceWithLogger(repo, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(repo Repository, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.Code("ADMIN_SERVICE_INVALID").Errorf("repository is required")
	}
	if logger == nil {
		return nil, oops.Code("ADMIN_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{repo: repo, logger: logger}, nil
}

func requireName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return oops.Code("ADMIN_INVALID_INPUT").
			With("field", field).
			Errorf("%s cannot be empty", field)
	}
	return nil
}

// CreateSchool registers a school. SchoolType is optional free-form text.
func (s *Service) CreateSchool(ctx context.Context, name, place string, schoolType *string) (*School, error) {
	if err := requireName("name", name); err != nil {
		return nil, err
	}
	if err := requireName("place", place); err != nil {
		return nil, err
	}

	school, err := s.repo.CreateSchool(ctx, name, place, schoolType)
	if err != nil {
		return nil, oops.Code("ADMIN_CREATE_FAILED").
			With("entity", "school").
			Wrap(err)
	}

	s.logger.Info("school created", "school_id", school.ID, "name", name)
	return school, nil
}

// CreateGroup adds a student cohort to a school.
func (s *Service) CreateGroup(ctx context.Context, name string, schoolID uuid.UUID) (*Group, error) {
	if err := requireName("name", name); err != nil {
		return nil, err
	}

	group, err := s.repo.CreateGroup(ctx, name, schoolID)
	if err != nil {
		return nil, oops.Code("ADMIN_CREATE_FAILED").
			With("entity", "group").
			Wrap(err)
	}

	s.logger.Info("group created", "group_id", group.ID, "school_id", schoolID)
	return group, nil
}

// CreateSubject adds a subject to a school's curriculum.
func (s *Service) CreateSubject(ctx context.Context, name string, schoolID uuid.UUID) (*Subject, error) {
	if err := requireName("name", name); err != nil {
		return nil, err
	}

	subject, err := s.repo.CreateSubject(ctx, name, schoolID)
	if err != nil {
		return nil, oops.Code("ADMIN_CREATE_FAILED").
			With("entity", "subject").
			Wrap(err)
	}

	s.logger.Info("subject created", "subject_id", subject.ID, "school_id", schoolID)
	return subject, nil
}

// CreateStudent enrolls a student in a group. A linked login account is
// optional; students too young to have one carry a nil UserID.
func (s *Service) CreateStudent(ctx context.Context, in NewStudent) (*Student, error) {
	if err := requireName("first_name", in.FirstName); err != nil {
		return nil, err
	}
	if err := requireName("last_name", in.LastName); err != nil {
		return nil, err
	}
	if in.DateOfBirth.After(time.Now()) {
		return nil, oops.Code("ADMIN_INVALID_INPUT").
			With("field", "date_of_birth").
			Errorf("date of birth cannot be in the future")
	}

	student, err := s.repo.CreateStudent(ctx, in)
	if err != nil {
		return nil, oops.Code("ADMIN_CREATE_FAILED").
			With("entity", "student").
			Wrap(err)
	}

	s.logger.Info("student created", "student_id", student.ID, "group_id", in.GroupID)
	return student, nil
}

// CreateTeacher registers a teacher at a school.
func (s *Service) CreateTeacher(ctx context.Context, firstName, lastName string, userID, schoolID uuid.UUID) (*Teacher, error) {
	if err := requireName("first_name", firstName); err != nil {
		return nil, err
	}
	if err := requireName("last_name", lastName); err != nil {
		return nil, err
	}

	teacher, err := s.repo.CreateTeacher(ctx, firstName, lastName, userID, schoolID)
	if err != nil {
		return nil, oops.Code("ADMIN_CREATE_FAILED").
			With("entity", "teacher").
			Wrap(err)
	}

	s.logger.Info("teacher created", "teacher_id", teacher.ID, "school_id", schoolID)
	return teacher, nil
}

// CreateClass binds a subject, group, and teacher into a class.
func (s *Service) CreateClass(ctx context.Context, subjectID, groupID, teacherID uuid.UUID) (*Class, error) {
	class, err := s.repo.CreateClass(ctx, subjectID, groupID, teacherID)
	if err != nil {
		return nil, oops.Code("ADMIN_CREATE_FAILED").
			With("entity", "class").
			Wrap(err)
	}

	s.logger.Info("class created", "class_id", class.ID, "teacher_id", teacherID)
	return class, nil
}

// AddStudentToClass puts a student on a class roster.
func (s *Service) AddStudentToClass(ctx context.Context, classID, studentID uuid.UUID) (*ClassStudent, error) {
	enrollment, err := s.repo.AddStudentToClass(ctx, classID, studentID)
	if err != nil {
		return nil, oops.Code("ADMIN_CREATE_FAILED").
			With("entity", "class_student").
			Wrap(err)
	}

	s.logger.Info("student added to class", "class_id", classID, "student_id", studentID)
	return enrollment, nil
}

// CreateTask registers a gradeable assessment.
func (s *Service) CreateTask(ctx context.Context, name string) (*Task, error) {
	if err := requireName("name", name); err != nil {
		return nil, err
	}

	task, err := s.repo.CreateTask(ctx, name)
	if err != nil {
		return nil, oops.Code("ADMIN_CREATE_FAILED").
			With("entity", "task").
			Wrap(err)
	}

	s.logger.Info("task created", "task_id", task.ID)
	return task, nil
}

// CreateGrade records a grade a teacher gave for a task.
func (s *Service) CreateGrade(ctx context.Context, in NewGrade) (*Grade, error) {
	if in.Weight < 0 {
		return nil, oops.Code("ADMIN_INVALID_INPUT").
			With("field", "weight").
			Errorf("weight cannot be negative")
	}

	grade, err := s.repo.CreateGrade(ctx, in)
	if err != nil {
		return nil, oops.Code("ADMIN_CREATE_FAILED").
			With("entity", "grade").
			Wrap(err)
	}

	s.logger.Info("grade created",
		"student_id", in.StudentID,
		"subject_id", in.SubjectID,
		"task_id", in.TaskID)
	return grade, nil
}

// GradeFromScale converts a raw score into a grade on the default
// thresholds and records it for the task.
func (s *Service) GradeFromScale(ctx context.Context, scale Scale, taskID, studentID, subjectID, teacherID uuid.UUID) (*Grade, error) {
	if scale.MaxScore <= 0 {
		return nil, oops.Code("ADMIN_INVALID_INPUT").
			With("field", "max_score").
			Errorf("max score must be positive")
	}
	if scale.Thresholds == nil {
		scale.Thresholds = DefaultThresholds
	}

	converted := scale.ToGrade()
	return s.CreateGrade(ctx, NewGrade{
		Value:     converted.Value,
		Weight:    int32(converted.Weight),
		TaskID:    taskID,
		StudentID: studentID,
		SubjectID: subjectID,
		TeacherID: teacherID,
	})
}
