// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gradekeeper/gradekeeper/internal/admin"
	adminmocks "github.com/gradekeeper/gradekeeper/internal/admin/mocks"
	"github.com/gradekeeper/gradekeeper/internal/auth"
	authmocks "github.com/gradekeeper/gradekeeper/internal/auth/mocks"
)

// testServer wires a Server onto mock repositories so handler tests can
// drive every outcome without a database.
type testServer struct {
	server    *Server
	handler   http.Handler
	accounts  *authmocks.MockAccountRepository
	sessions  *authmocks.MockSessionRepository
	hasher    *authmocks.MockPasswordHasher
	strength  *authmocks.MockStrengthValidator
	adminRepo *adminmocks.MockRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	accounts := authmocks.NewMockAccountRepository(t)
	sessions := authmocks.NewMockSessionRepository(t)
	hasher := authmocks.NewMockPasswordHasher(t)
	strength := authmocks.NewMockStrengthValidator(t)

	authSvc, err := auth.NewService(accounts, sessions, hasher, strength)
	require.NoError(t, err)

	adminRepo := adminmocks.NewMockRepository(t)
	adminSvc, err := admin.NewService(adminRepo)
	require.NoError(t, err)

	srv, err := New(authSvc, adminSvc, nil, nil)
	require.NoError(t, err)

	return &testServer{
		server:    srv,
		handler:   srv.Handler(),
		accounts:  accounts,
		sessions:  sessions,
		hasher:    hasher,
		strength:  strength,
		adminRepo: adminRepo,
	}
}

func (ts *testServer) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleRegister_Success(t *testing.T) {
	ts := newTestServer(t)

	ts.accounts.On("FindByLogin", mock.Anything, "alice").Return(nil, auth.ErrNotFound)
	ts.accounts.On("FindByEmail", mock.Anything, "alice@x.com").Return(nil, auth.ErrNotFound)
	ts.strength.On("IsStrong", "correct horse battery staple", "alice", "alice@x.com").Return(true)
	ts.hasher.On("Hash", "correct horse battery staple").Return("digest", nil)
	ts.accounts.On("Insert", mock.Anything, "alice", "alice@x.com", "digest").
		Return(&auth.Account{ID: uuid.New(), Login: "alice", Email: "alice@x.com"}, nil)

	rec := ts.do(http.MethodPost, "/api/auth/register",
		`{"login":"alice","email":"alice@x.com","password":"correct horse battery staple"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "registered", decodeBody(t, rec)["message"])
}

func TestHandleRegister_DuplicateLogin(t *testing.T) {
	ts := newTestServer(t)

	ts.accounts.On("FindByLogin", mock.Anything, "alice").
		Return(&auth.Account{ID: uuid.New(), Login: "alice"}, nil)

	rec := ts.do(http.MethodPost, "/api/auth/register",
		`{"login":"alice","email":"alice@x.com","password":"correct horse battery staple"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user already exists", decodeBody(t, rec)["error"])
}

func TestHandleRegister_WeakPassword(t *testing.T) {
	ts := newTestServer(t)

	ts.accounts.On("FindByLogin", mock.Anything, "alice").Return(nil, auth.ErrNotFound)
	ts.accounts.On("FindByEmail", mock.Anything, "alice@x.com").Return(nil, auth.ErrNotFound)
	ts.strength.On("IsStrong", "password", "alice", "alice@x.com").Return(false)

	rec := ts.do(http.MethodPost, "/api/auth/register",
		`{"login":"alice","email":"alice@x.com","password":"password"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password is too weak", decodeBody(t, rec)["error"])
}

func TestHandleRegister_InvalidLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/register",
		`{"login":"1bad","email":"alice@x.com","password":"correct horse battery staple"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRegister_StoreFailureDoesNotLeakDetail(t *testing.T) {
	ts := newTestServer(t)

	ts.accounts.On("FindByLogin", mock.Anything, "alice").
		Return(nil, errors.New("pq: relation users does not exist"))

	rec := ts.do(http.MethodPost, "/api/auth/register",
		`{"login":"alice","email":"alice@x.com","password":"correct horse battery staple"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestHandleRegister_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/register", `{"login":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLogin_SetsSessionCookie(t *testing.T) {
	ts := newTestServer(t)
	accountID := uuid.New()
	sessionID := uuid.New()

	ts.accounts.On("FindByLogin", mock.Anything, "alice").
		Return(&auth.Account{ID: accountID, Login: "alice", PasswordHash: "digest"}, nil)
	ts.hasher.On("Verify", "secret", "digest").Return(true, nil)
	ts.sessions.On("Insert", mock.Anything, accountID).
		Return(&auth.Session{ID: sessionID, IssuedAt: time.Now().UTC(), AccountID: accountID}, nil)

	rec := ts.do(http.MethodPost, "/api/auth/login", `{"login":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, sessionCookieName, cookie.Name)
	assert.Equal(t, sessionID.String(), cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(auth.SessionTTL.Seconds()), cookie.MaxAge)
}

func TestHandleLogin_UnknownUserAndWrongPasswordAnswerIdentically(t *testing.T) {
	ts := newTestServer(t)

	ts.accounts.On("FindByLogin", mock.Anything, "ghost").Return(nil, auth.ErrNotFound)
	recUnknown := ts.do(http.MethodPost, "/api/auth/login", `{"login":"ghost","password":"secret"}`)

	ts.accounts.On("FindByLogin", mock.Anything, "alice").
		Return(&auth.Account{ID: uuid.New(), Login: "alice", PasswordHash: "digest"}, nil)
	ts.hasher.On("Verify", "wrong", "digest").Return(false, nil)
	recWrong := ts.do(http.MethodPost, "/api/auth/login", `{"login":"alice","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, recUnknown.Body.String(), recWrong.Body.String())
}

func TestHandleLogin_SessionInsertFailure(t *testing.T) {
	ts := newTestServer(t)
	accountID := uuid.New()

	ts.accounts.On("FindByLogin", mock.Anything, "alice").
		Return(&auth.Account{ID: accountID, Login: "alice", PasswordHash: "digest"}, nil)
	ts.hasher.On("Verify", "secret", "digest").Return(true, nil)
	ts.sessions.On("Insert", mock.Anything, accountID).Return(nil, errors.New("disk full"))

	rec := ts.do(http.MethodPost, "/api/auth/login", `{"login":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "no cookie on failed login")
}

func TestHandleChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(ts *testServer)
		wantStatus int
	}{
		{
			name: "success",
			setup: func(ts *testServer) {
				ts.accounts.On("FindByLogin", mock.Anything, "alice").
					Return(&auth.Account{Login: "alice", Email: "alice@x.com", PasswordHash: "old-digest"}, nil)
				ts.hasher.On("Verify", "old-pass", "old-digest").Return(true, nil)
				ts.strength.On("IsStrong", "new strong passphrase", "alice", "alice@x.com").Return(true)
				ts.hasher.On("Hash", "new strong passphrase").Return("new-digest", nil)
				ts.accounts.On("UpdatePassword", mock.Anything, "alice", "new-digest").Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown user",
			setup: func(ts *testServer) {
				ts.accounts.On("FindByLogin", mock.Anything, "alice").Return(nil, auth.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "wrong old password",
			setup: func(ts *testServer) {
				ts.accounts.On("FindByLogin", mock.Anything, "alice").
					Return(&auth.Account{Login: "alice", Email: "alice@x.com", PasswordHash: "old-digest"}, nil)
				ts.hasher.On("Verify", "old-pass", "old-digest").Return(false, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "weak new password",
			setup: func(ts *testServer) {
				ts.accounts.On("FindByLogin", mock.Anything, "alice").
					Return(&auth.Account{Login: "alice", Email: "alice@x.com", PasswordHash: "old-digest"}, nil)
				ts.hasher.On("Verify", "old-pass", "old-digest").Return(true, nil)
				ts.strength.On("IsStrong", "new strong passphrase", "alice", "alice@x.com").Return(false)
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			tt.setup(ts)

			rec := ts.do(http.MethodPost, "/api/auth/change-pass",
				`{"login":"alice","password":"old-pass","new_password":"new strong passphrase"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleGreet_RequiresSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/auth/greet", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleGreet_WithValidSession(t *testing.T) {
	ts := newTestServer(t)
	accountID := uuid.New()
	sessionID := uuid.New()

	ts.sessions.On("Find", mock.Anything, sessionID).
		Return(&auth.Session{ID: sessionID, IssuedAt: time.Now().UTC(), AccountID: accountID}, nil)
	ts.accounts.On("FindByID", mock.Anything, accountID).
		Return(&auth.Account{ID: accountID, Login: "alice"}, nil)

	rec := ts.do(http.MethodGet, "/api/auth/greet", "",
		&http.Cookie{Name: sessionCookieName, Value: sessionID.String()})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello alice", decodeBody(t, rec)["message"])
}

func TestHandleGreet_ExpiredSession(t *testing.T) {
	ts := newTestServer(t)
	accountID := uuid.New()
	sessionID := uuid.New()
	issuedAt := time.Now().UTC().Add(-auth.SessionTTL - time.Minute)

	ts.sessions.On("Find", mock.Anything, sessionID).
		Return(&auth.Session{ID: sessionID, IssuedAt: issuedAt, AccountID: accountID}, nil)
	ts.sessions.On("Delete", mock.Anything, sessionID).Return(nil)

	rec := ts.do(http.MethodGet, "/api/auth/greet", "",
		&http.Cookie{Name: sessionCookieName, Value: sessionID.String()})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSession_MalformedCookie(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/auth/greet", "",
		&http.Cookie{Name: sessionCookieName, Value: "not-a-uuid"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
