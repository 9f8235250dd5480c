// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// School is a registered institution. SchoolType is free-form and
// optional ("primary", "high school", ...).
type School struct {
	ID         uuid.UUID
	Name       string
	Place      string
	SchoolType *string
}

// Group is a named cohort of students within one school.
type Group struct {
	ID       uuid.UUID
	Name     string
	SchoolID uuid.UUID
}

// Subject is a course of study offered by one school.
type Subject struct {
	ID       uuid.UUID
	Name     string
	SchoolID uuid.UUID
}

// Student belongs to exactly one group and one school. UserID links the
// student to a login account and is nil for students without one.
type Student struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	UserID      *uuid.UUID
	GroupID     uuid.UUID
	SchoolID    uuid.UUID
}

// Teacher always has a login account.
type Teacher struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	UserID    uuid.UUID
	SchoolID  uuid.UUID
}

// Class binds a subject, a group, and the teacher running it.
type Class struct {
	ID        uuid.UUID
	SubjectID uuid.UUID
	GroupID   uuid.UUID
	TeacherID uuid.UUID
}

// ClassStudent is a class roster entry.
type ClassStudent struct {
	ClassID   uuid.UUID
	StudentID uuid.UUID
}

// Task is a gradeable assessment (test, homework, project).
type Task struct {
	ID   uuid.UUID
	Name string
}

// Grade records one score a teacher gave a student for a task in a
// subject. Value is on the grading scale; Weight sets its share in
// averages.
type Grade struct {
	Value     float64
	Weight    int32
	TaskID    uuid.UUID
	StudentID uuid.UUID
	SubjectID uuid.UUID
	TeacherID uuid.UUID
}

// NewStudent carries the caller-supplied fields for student creation.
type NewStudent struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	UserID      *uuid.UUID
	GroupID     uuid.UUID
	SchoolID    uuid.UUID
}

// NewGrade carries the caller-supplied fields for grade creation.
type NewGrade struct {
	Value     float64
	Weight    int32
	TaskID    uuid.UUID
	StudentID uuid.UUID
	SubjectID uuid.UUID
	TeacherID uuid.UUID
}

// Repository persists administration entities. Every Create method
// returns the stored row with its store-assigned identifier. Referential
// integrity is the store's job; implementations translate integrity
// violations into ErrDuplicate and ErrDanglingReference.
type Repository interface {
	CreateSchool(ctx context.Context, name, place string, schoolType *string) (*School, error)
	CreateGroup(ctx context.Context, name string, schoolID uuid.UUID) (*Group, error)
	CreateSubject(ctx context.Context, name string, schoolID uuid.UUID) (*Subject, error)
	CreateStudent(ctx context.Context, in NewStudent) (*Student, error)
	CreateTeacher(ctx context.Context, firstName, lastName string, userID, schoolID uuid.UUID) (*Teacher, error)
	CreateClass(ctx context.Context, subjectID, groupID, teacherID uuid.UUID) (*Class, error)
	AddStudentToClass(ctx context.Context, classID, studentID uuid.UUID) (*ClassStudent, error)
	CreateTask(ctx context.Context, name string) (*Task, error)
	CreateGrade(ctx context.Context, in NewGrade) (*Grade, error)
}
