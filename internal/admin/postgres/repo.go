// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

// Package postgres provides the PostgreSQL-backed repository for the
// admin domain.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/gradekeeper/gradekeeper/internal/admin"
)

// DB is the subset of pgxpool.Pool used by the repository. pgxmock
// satisfies it for unit tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements admin.Repository using PostgreSQL. Every create
// relies on the database to assign identifiers; RETURNING hands back the
// stored row.
type Repository struct {
	db DB
}

// NewRepository creates a new Repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// CreateSchool inserts a school and returns the stored row.
func (r *Repository) CreateSchool(ctx context.Context, name, place string, schoolType *string) (*admin.School, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO schools (name, place, school_type)
		VALUES ($1, $2, $3)
		RETURNING id::text, name, place, school_type
	`, name, place, schoolType)

	var (
		idStr  string
		school admin.School
	)
	if err := row.Scan(&idStr, &school.Name, &school.Place, &school.SchoolType); err != nil {
		return nil, wrapInsertErr(err, "school")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, invalidIDErr(err, "school", idStr)
	}
	school.ID = id
	return &school, nil
}

// CreateGroup inserts a group and returns the stored row.
func (r *Repository) CreateGroup(ctx context.Context, name string, schoolID uuid.UUID) (*admin.Group, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO groups (name, school_id)
		VALUES ($1, $2)
		RETURNING id::text, name, school_id::text
	`, name, schoolID.String())

	var idStr, schoolIDStr string
	var group admin.Group
	if err := row.Scan(&idStr, &group.Name, &schoolIDStr); err != nil {
		return nil, wrapInsertErr(err, "group")
	}

	if err := parseIDs(map[*uuid.UUID]string{
		&group.ID:       idStr,
		&group.SchoolID: schoolIDStr,
	}, "group"); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateSubject inserts a subject and returns the stored row.
func (r *Repository) CreateSubject(ctx context.Context, name string, schoolID uuid.UUID) (*admin.Subject, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO subjects (name, school_id)
		VALUES ($1, $2)
		RETURNING id::text, name, school_id::text
	`, name, schoolID.String())

	var idStr, schoolIDStr string
	var subject admin.Subject
	if err := row.Scan(&idStr, &subject.Name, &schoolIDStr); err != nil {
		return nil, wrapInsertErr(err, "subject")
	}

	if err := parseIDs(map[*uuid.UUID]string{
		&subject.ID:       idStr,
		&subject.SchoolID: schoolIDStr,
	}, "subject"); err != nil {
		return nil, err
	}
	return &subject, nil
}

// CreateStudent inserts a student and returns the stored row. UserID is
// nullable; students without login accounts store NULL.
func (r *Repository) CreateStudent(ctx context.Context, in admin.NewStudent) (*admin.Student, error) {
	var userID *string
	if in.UserID != nil {
		s := in.UserID.String()
		userID = &s
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO students (first_name, last_name, date_of_birth, user_id, group_id, school_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, first_name, last_name, date_of_birth, user_id::text, group_id::text, school_id::text
	`, in.FirstName, in.LastName, in.DateOfBirth, userID, in.GroupID.String(), in.SchoolID.String())

	var (
		idStr, groupIDStr, schoolIDStr string
		userIDStr                      *string
		student                        admin.Student
		dob                            time.Time
	)
	if err := row.Scan(&idStr, &student.FirstName, &student.LastName, &dob, &userIDStr, &groupIDStr, &schoolIDStr); err != nil {
		return nil, wrapInsertErr(err, "student")
	}
	student.DateOfBirth = dob

	if err := parseIDs(map[*uuid.UUID]string{
		&student.ID:       idStr,
		&student.GroupID:  groupIDStr,
		&student.SchoolID: schoolIDStr,
	}, "student"); err != nil {
		return nil, err
	}
	if userIDStr != nil {
		uid, err := uuid.Parse(*userIDStr)
		if err != nil {
			return nil, invalidIDErr(err, "student", *userIDStr)
		}
		student.UserID = &uid
	}
	return &student, nil
}

// CreateTeacher inserts a teacher and returns the stored row.
func (r *Repository) CreateTeacher(ctx context.Context, firstName, lastName string, userID, schoolID uuid.UUID) (*admin.Teacher, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO teachers (first_name, last_name, user_id, school_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, first_name, last_name, user_id::text, school_id::text
	`, firstName, lastName, userID.String(), schoolID.String())

	var idStr, userIDStr, schoolIDStr string
	var teacher admin.Teacher
	if err := row.Scan(&idStr, &teacher.FirstName, &teacher.LastName, &userIDStr, &schoolIDStr); err != nil {
		return nil, wrapInsertErr(err, "teacher")
	}

	if err := parseIDs(map[*uuid.UUID]string{
		&teacher.ID:       idStr,
		&teacher.UserID:   userIDStr,
		&teacher.SchoolID: schoolIDStr,
	}, "teacher"); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// CreateClass inserts a class and returns the stored row.
func (r *Repository) CreateClass(ctx context.Context, subjectID, groupID, teacherID uuid.UUID) (*admin.Class, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO classes (subject_id, group_id, teacher_id)
		VALUES ($1, $2, $3)
		RETURNING id::text, subject_id::text, group_id::text, teacher_id::text
	`, subjectID.String(), groupID.String(), teacherID.String())

	var idStr, subjectIDStr, groupIDStr, teacherIDStr string
	var class admin.Class
	if err := row.Scan(&idStr, &subjectIDStr, &groupIDStr, &teacherIDStr); err != nil {
		return nil, wrapInsertErr(err, "class")
	}

	if err := parseIDs(map[*uuid.UUID]string{
		&class.ID:        idStr,
		&class.SubjectID: subjectIDStr,
		&class.GroupID:   groupIDStr,
		&class.TeacherID: teacherIDStr,
	}, "class"); err != nil {
		return nil, err
	}
	return &class, nil
}

// AddStudentToClass inserts a roster entry.
func (r *Repository) AddStudentToClass(ctx context.Context, classID, studentID uuid.UUID) (*admin.ClassStudent, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO class_students (class_id, student_id)
		VALUES ($1, $2)
		RETURNING class_id::text, student_id::text
	`, classID.String(), studentID.String())

	var classIDStr, studentIDStr string
	var entry admin.ClassStudent
	if err := row.Scan(&classIDStr, &studentIDStr); err != nil {
		return nil, wrapInsertErr(err, "class_student")
	}

	if err := parseIDs(map[*uuid.UUID]string{
		&entry.ClassID:   classIDStr,
		&entry.StudentID: studentIDStr,
	}, "class_student"); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateTask inserts a task and returns the stored row.
func (r *Repository) CreateTask(ctx context.Context, name string) (*admin.Task, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tasks (name)
		VALUES ($1)
		RETURNING id::text, name
	`, name)

	var idStr string
	var task admin.Task
	if err := row.Scan(&idStr, &task.Name); err != nil {
		return nil, wrapInsertErr(err, "task")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, invalidIDErr(err, "task", idStr)
	}
	task.ID = id
	return &task, nil
}

// CreateGrade inserts a grade and returns the stored row.
func (r *Repository) CreateGrade(ctx context.Context, in admin.NewGrade) (*admin.Grade, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO grades (value, weight, task_id, student_id, subject_id, teacher_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING value, weight, task_id::text, student_id::text, subject_id::text, teacher_id::text
	`, in.Value, in.Weight, in.TaskID.String(), in.StudentID.String(), in.SubjectID.String(), in.TeacherID.String())

	var taskIDStr, studentIDStr, subjectIDStr, teacherIDStr string
	var grade admin.Grade
	if err := row.Scan(&grade.Value, &grade.Weight, &taskIDStr, &studentIDStr, &subjectIDStr, &teacherIDStr); err != nil {
		return nil, wrapInsertErr(err, "grade")
	}

	if err := parseIDs(map[*uuid.UUID]string{
		&grade.TaskID:    taskIDStr,
		&grade.StudentID: studentIDStr,
		&grade.SubjectID: subjectIDStr,
		&grade.TeacherID: teacherIDStr,
	}, "grade"); err != nil {
		return nil, err
	}
	return &grade, nil
}

// wrapInsertErr classifies an insert failure. Integrity violations are
// translated into the package sentinels so callers can match with
// errors.Is; the constraint name rides along as context.
func wrapInsertErr(err error, entity string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return oops.Code("ADMIN_DUPLICATE").
				With("entity", entity).
				With("constraint", pgErr.ConstraintName).
				Wrap(admin.ErrDuplicate)
		case pgerrcode.ForeignKeyViolation:
			return oops.Code("ADMIN_DANGLING_REFERENCE").
				With("entity", entity).
				With("constraint", pgErr.ConstraintName).
				Wrap(admin.ErrDanglingReference)
		}
	}
	return oops.Code("ADMIN_INSERT_FAILED").
		With("entity", entity).
		Wrap(err)
}

func invalidIDErr(err error, entity, raw string) error {
	return oops.Code("ADMIN_INVALID_ID").
		With("entity", entity).
		With("id", raw).
		Wrap(err)
}

func parseIDs(fields map[*uuid.UUID]string, entity string) error {
	for dst, raw := range fields {
		id, err := uuid.Parse(raw)
		if err != nil {
			return invalidIDErr(err, entity, raw)
		}
		*dst = id
	}
	return nil
}

// Compile-time interface check.
var _ admin.Repository = (*Repository)(nil)
