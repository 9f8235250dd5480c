// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package admin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradekeeper/gradekeeper/internal/admin"
	"github.com/gradekeeper/gradekeeper/internal/admin/mocks"
	"github.com/gradekeeper/gradekeeper/pkg/errutil"
)

func newService(t *testing.T) (*admin.Service, *mocks.MockRepository) {
	t.Helper()
	repo := mocks.NewMockRepository(t)
	svc, err := admin.NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestNewService_NilRepository(t *testing.T) {
	_, err := admin.NewService(nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ADMIN_SERVICE_INVALID")
}

func TestService_CreateSchool(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	want := &admin.School{ID: uuid.New(), Name: "Northside High", Place: "Springfield"}
	repo.On("CreateSchool", ctx, "Northside High", "Springfield", (*string)(nil)).
		Return(want, nil)

	school, err := svc.CreateSchool(ctx, "Northside High", "Springfield", nil)
	require.NoError(t, err)
	assert.Equal(t, want, school)
}

func TestService_CreateSchool_EmptyName(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateSchool(context.Background(), "  ", "Springfield", nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ADMIN_INVALID_INPUT")
}

func TestService_CreateSchool_StoreFailure(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	repo.On("CreateSchool", ctx, "Northside High", "Springfield", (*string)(nil)).
		Return(nil, errors.New("connection reset"))

	_, err := svc.CreateSchool(ctx, "Northside High", "Springfield", nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ADMIN_CREATE_FAILED")
}

func TestService_CreateGroup(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	schoolID := uuid.New()

	want := &admin.Group{ID: uuid.New(), Name: "3A", SchoolID: schoolID}
	repo.On("CreateGroup", ctx, "3A", schoolID).Return(want, nil)

	group, err := svc.CreateGroup(ctx, "3A", schoolID)
	require.NoError(t, err)
	assert.Equal(t, want, group)
}

func TestService_CreateSubject_EmptyName(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateSubject(context.Background(), "", uuid.New())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ADMIN_INVALID_INPUT")
}

func TestService_CreateStudent(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	in := admin.NewStudent{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: time.Date(2010, 12, 10, 0, 0, 0, 0, time.UTC),
		GroupID:     uuid.New(),
		SchoolID:    uuid.New(),
	}
	want := &admin.Student{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace"}
	repo.On("CreateStudent", ctx, in).Return(want, nil)

	student, err := svc.CreateStudent(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, want, student)
}

func TestService_CreateStudent_FutureBirthDate(t *testing.T) {
	svc, _ := newService(t)

	in := admin.NewStudent{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: time.Now().Add(24 * time.Hour),
		GroupID:     uuid.New(),
		SchoolID:    uuid.New(),
	}
	_, err := svc.CreateStudent(context.Background(), in)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ADMIN_INVALID_INPUT")
}

func TestService_CreateTeacher(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	userID, schoolID := uuid.New(), uuid.New()

	want := &admin.Teacher{ID: uuid.New(), FirstName: "Grace", LastName: "Hopper"}
	repo.On("CreateTeacher", ctx, "Grace", "Hopper", userID, schoolID).Return(want, nil)

	teacher, err := svc.CreateTeacher(ctx, "Grace", "Hopper", userID, schoolID)
	require.NoError(t, err)
	assert.Equal(t, want, teacher)
}

func TestService_CreateClass(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	subjectID, groupID, teacherID := uuid.New(), uuid.New(), uuid.New()

	want := &admin.Class{ID: uuid.New(), SubjectID: subjectID, GroupID: groupID, TeacherID: teacherID}
	repo.On("CreateClass", ctx, subjectID, groupID, teacherID).Return(want, nil)

	class, err := svc.CreateClass(ctx, subjectID, groupID, teacherID)
	require.NoError(t, err)
	assert.Equal(t, want, class)
}

func TestService_AddStudentToClass_DanglingReference(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	classID, studentID := uuid.New(), uuid.New()

	repo.On("AddStudentToClass", ctx, classID, studentID).
		Return(nil, errors.New("foreign key violation"))

	_, err := svc.AddStudentToClass(ctx, classID, studentID)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ADMIN_CREATE_FAILED")
}

func TestService_CreateTask(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	want := &admin.Task{ID: uuid.New(), Name: "Midterm exam"}
	repo.On("CreateTask", ctx, "Midterm exam").Return(want, nil)

	task, err := svc.CreateTask(ctx, "Midterm exam")
	require.NoError(t, err)
	assert.Equal(t, want, task)
}

func TestService_CreateGrade_NegativeWeight(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateGrade(context.Background(), admin.NewGrade{Value: 5, Weight: -1})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ADMIN_INVALID_INPUT")
}

func TestService_GradeFromScale(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	taskID, studentID, subjectID, teacherID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	// 11.5 of 20 lands in the 0.5 threshold band, grade 3.
	expected := admin.NewGrade{
		Value:     3,
		Weight:    2,
		TaskID:    taskID,
		StudentID: studentID,
		SubjectID: subjectID,
		TeacherID: teacherID,
	}
	want := &admin.Grade{Value: 3, Weight: 2, TaskID: taskID, StudentID: studentID, SubjectID: subjectID, TeacherID: teacherID}
	repo.On("CreateGrade", ctx, expected).Return(want, nil)

	grade, err := svc.GradeFromScale(ctx, admin.Scale{Score: 11.5, MaxScore: 20, Weight: 2},
		taskID, studentID, subjectID, teacherID)
	require.NoError(t, err)
	assert.Equal(t, want, grade)
}

func TestService_GradeFromScale_InvalidMaxScore(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GradeFromScale(context.Background(), admin.Scale{Score: 5, MaxScore: 0, Weight: 1},
		uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "ADMIN_INVALID_INPUT")
}

func TestService_CreateGroup_RepoErrorDoesNotLeakEntity(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	schoolID := uuid.New()

	repo.On("CreateGroup", ctx, "3A", schoolID).Return(nil, errors.New("deadlock detected"))

	group, err := svc.CreateGroup(ctx, "3A", schoolID)
	require.Error(t, err)
	assert.Nil(t, group)
	errutil.AssertErrorContext(t, err, "entity", "group")
}
