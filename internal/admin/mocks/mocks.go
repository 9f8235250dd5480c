// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

// Package mocks provides testify mocks for the admin package interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/gradekeeper/gradekeeper/internal/admin"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockRepository is a mock implementation of admin.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a MockRepository that asserts its
// expectations during test cleanup.
func NewMockRepository(t testingT) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) CreateSchool(ctx context.Context, name, place string, schoolType *string) (*admin.School, error) {
	args := m.Called(ctx, name, place, schoolType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.School), args.Error(1)
}

func (m *MockRepository) CreateGroup(ctx context.Context, name string, schoolID uuid.UUID) (*admin.Group, error) {
	args := m.Called(ctx, name, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.Group), args.Error(1)
}

func (m *MockRepository) CreateSubject(ctx context.Context, name string, schoolID uuid.UUID) (*admin.Subject, error) {
	args := m.Called(ctx, name, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.Subject), args.Error(1)
}

func (m *MockRepository) CreateStudent(ctx context.Context, in admin.NewStudent) (*admin.Student, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.Student), args.Error(1)
}

func (m *MockRepository) CreateTeacher(ctx context.Context, firstName, lastName string, userID, schoolID uuid.UUID) (*admin.Teacher, error) {
	args := m.Called(ctx, firstName, lastName, userID, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.Teacher), args.Error(1)
}

func (m *MockRepository) CreateClass(ctx context.Context, subjectID, groupID, teacherID uuid.UUID) (*admin.Class, error) {
	args := m.Called(ctx, subjectID, groupID, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.Class), args.Error(1)
}

func (m *MockRepository) AddStudentToClass(ctx context.Context, classID, studentID uuid.UUID) (*admin.ClassStudent, error) {
	args := m.Called(ctx, classID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.ClassStudent), args.Error(1)
}

func (m *MockRepository) CreateTask(ctx context.Context, name string) (*admin.Task, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.Task), args.Error(1)
}

func (m *MockRepository) CreateGrade(ctx context.Context, in admin.NewGrade) (*admin.Grade, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.Grade), args.Error(1)
}

var _ admin.Repository = (*MockRepository)(nil)
