// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gradekeeper/gradekeeper/internal/admin"
	"github.com/gradekeeper/gradekeeper/pkg/errutil"
)

// dateOnly is the wire format for date_of_birth.
const dateOnly = "2006-01-02"

type createSchoolRequest struct {
	Name       string  `json:"name"`
	Place      string  `json:"place"`
	SchoolType *string `json:"school_type"`
}

type createGroupRequest struct {
	Name     string    `json:"name"`
	SchoolID uuid.UUID `json:"school_id"`
}

type createSubjectRequest struct {
	Name     string    `json:"name"`
	SchoolID uuid.UUID `json:"school_id"`
}

type createStudentRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth string     `json:"date_of_birth"`
	UserID      *uuid.UUID `json:"user_id"`
	GroupID     uuid.UUID  `json:"group_id"`
	SchoolID    uuid.UUID  `json:"school_id"`
}

type createTeacherRequest struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	UserID    uuid.UUID `json:"user_id"`
	SchoolID  uuid.UUID `json:"school_id"`
}

type createClassRequest struct {
	SubjectID uuid.UUID `json:"subject_id"`
	GroupID   uuid.UUID `json:"group_id"`
	TeacherID uuid.UUID `json:"teacher_id"`
}

type createClassStudentRequest struct {
	ClassID   uuid.UUID `json:"class_id"`
	StudentID uuid.UUID `json:"student_id"`
}

type createTaskRequest struct {
	Name string `json:"name"`
}

type createGradeRequest struct {
	Value     float64   `json:"value"`
	Weight    int32     `json:"weight"`
	TaskID    uuid.UUID `json:"task_id"`
	StudentID uuid.UUID `json:"student_id"`
	SubjectID uuid.UUID `json:"subject_id"`
	TeacherID uuid.UUID `json:"teacher_id"`
}

type createGradeFromScaleRequest struct {
	Score     float64   `json:"score"`
	MaxScore  float64   `json:"max_score"`
	Weight    float64   `json:"weight"`
	TaskID    uuid.UUID `json:"task_id"`
	StudentID uuid.UUID `json:"student_id"`
	SubjectID uuid.UUID `json:"subject_id"`
	TeacherID uuid.UUID `json:"teacher_id"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// writeAdminError maps admin service failures onto status codes. Input
// rejections and integrity violations are the caller's fault; the rest
// stays a 500 with no detail leaked.
func (s *Server) writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errutil.ErrorCode(err) == "ADMIN_INVALID_INPUT":
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, admin.ErrDuplicate):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, admin.ErrDanglingReference):
		writeError(w, http.StatusBadRequest, "referenced entity does not exist")
	default:
		errutil.LogError(r.Context(), s.logger, "admin create failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleCreateSchool(w http.ResponseWriter, r *http.Request) {
	var req createSchoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	school, err := s.admin.CreateSchool(r.Context(), req.Name, req.Place, req.SchoolType)
	if err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "school created", ID: school.ID.String()})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	group, err := s.admin.CreateGroup(r.Context(), req.Name, req.SchoolID)
	if err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "group created", ID: group.ID.String()})
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	subject, err := s.admin.CreateSubject(r.Context(), req.Name, req.SchoolID)
	if err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "subject created", ID: subject.ID.String()})
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	dob, err := time.Parse(dateOnly, req.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
		return
	}

	student, err := s.admin.CreateStudent(r.Context(), admin.NewStudent{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		UserID:      req.UserID,
		GroupID:     req.GroupID,
		SchoolID:    req.SchoolID,
	})
	if err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "student created", ID: student.ID.String()})
}

func (s *Server) handleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req createTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	teacher, err := s.admin.CreateTeacher(r.Context(), req.FirstName, req.LastName, req.UserID, req.SchoolID)
	if err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "teacher created", ID: teacher.ID.String()})
}

func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req createClassRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	class, err := s.admin.CreateClass(r.Context(), req.SubjectID, req.GroupID, req.TeacherID)
	if err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "class created", ID: class.ID.String()})
}

func (s *Server) handleAddStudentToClass(w http.ResponseWriter, r *http.Request) {
	var req createClassStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if _, err := s.admin.AddStudentToClass(r.Context(), req.ClassID, req.StudentID); err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "student added to class")
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	task, err := s.admin.CreateTask(r.Context(), req.Name)
	if err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Message: "task created", ID: task.ID.String()})
}

func (s *Server) handleCreateGrade(w http.ResponseWriter, r *http.Request) {
	var req createGradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if _, err := s.admin.CreateGrade(r.Context(), admin.NewGrade{
		Value:     req.Value,
		Weight:    req.Weight,
		TaskID:    req.TaskID,
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
	}); err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "grade created")
}

// handleCreateGradeFromScale records a grade converted from a raw score
// on the default thresholds.
func (s *Server) handleCreateGradeFromScale(w http.ResponseWriter, r *http.Request) {
	var req createGradeFromScaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	scale := admin.Scale{Score: req.Score, MaxScore: req.MaxScore, Weight: req.Weight}
	if _, err := s.admin.GradeFromScale(r.Context(), scale,
		req.TaskID, req.StudentID, req.SubjectID, req.TeacherID); err != nil {
		s.writeAdminError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "grade created")
}
