package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/tests"
)

func createSession(t *testing.T, env *env, token string) attendance.Session {
	body := []byte(`{"subject": "Algorithms", "division": "a"}`)
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/sessions", token, body)
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sess attendance.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	return sess
}

func joinBody(t *testing.T, code string, loc *attendance.Location) []byte {
	return marchallObj(t, attendance.JoinRequest{Code: code, Location: loc})
}

func Test_attendanceApi_createSession(t *testing.T) {
	env := setup(t)
	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher@test.cd", "pwd", user.RoleTeacher, "")
	student := testutil.CreateUser(t, env.usrRepo, "Student", "student@test.cd", "pwd", user.RoleStudent, "a")

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/attendance/sessions", []byte(`{"subject": "x", "division": "a"}`))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("students may not open sessions", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/sessions", getToken(t, student), []byte(`{"subject": "x", "division": "a"}`))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("teacher opens a session", func(t *testing.T) {
		sess := createSession(t, env, getToken(t, teacher))
		assert.Regexp(t, `^\d{6}$`, sess.Code)
		assert.True(t, sess.IsActive)
		assert.Equal(t, teacher.ID, sess.CreatorID)
	})

	t.Run("subject is required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/sessions", getToken(t, teacher), []byte(`{"division": "a"}`))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"subject": "this field is required"}),
		}, rec)
	})
}

func Test_attendanceApi_join(t *testing.T) {
	env := setup(t)
	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher@test.cd", "pwd", user.RoleTeacher, "")
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "asha@test.cd", "pwd", user.RoleStudent, "a")
	studentToken := getToken(t, student)

	sess := createSession(t, env, getToken(t, teacher))
	loc := &attendance.Location{Lat: 18.52, Lng: 73.85}

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/join", studentToken, joinBody(t, sess.Code, loc))
		env.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var joined attendance.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &joined))
		assert.Equal(t, student.ID, joined.StudentID)
		assert.Equal(t, "Asha", joined.StudentName)
		assert.Equal(t, *loc, joined.Location)
	})

	t.Run("second join conflicts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/join", studentToken, joinBody(t, sess.Code, loc))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "attendance already marked for this session"}),
		}, rec)
	})

	t.Run("invalid code", func(t *testing.T) {
		other := testutil.CreateUser(t, env.usrRepo, "Ben", "ben@test.cd", "pwd", user.RoleStudent, "a")
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/join", getToken(t, other), joinBody(t, "000000", loc))
		if sess.Code == "000000" { // astronomically unlucky draw
			t.Skip()
		}
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired session code"}),
		}, rec)
	})

	t.Run("malformed code", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/join", studentToken, []byte(`{"code": "12ab"}`))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		var fldErrs map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
		assert.Contains(t, fldErrs, "code")
	})

	t.Run("location falls back to campus", func(t *testing.T) {
		other := testutil.CreateUser(t, env.usrRepo, "Cara", "cara@test.cd", "pwd", user.RoleStudent, "a")
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/join", getToken(t, other), joinBody(t, sess.Code, nil))
		env.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var joined attendance.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &joined))
		conf := testutil.NewConfig()
		assert.Equal(t, attendance.Location{Lat: conf.Campus.Lat, Lng: conf.Campus.Lng}, joined.Location)
	})
}

func Test_attendanceApi_closeSession(t *testing.T) {
	env := setup(t)
	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher@test.cd", "pwd", user.RoleTeacher, "")
	other := testutil.CreateUser(t, env.usrRepo, "Other", "other@test.cd", "pwd", user.RoleTeacher, "")
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "asha@test.cd", "pwd", user.RoleStudent, "a")

	sess := createSession(t, env, getToken(t, teacher))
	closePath := "/v1/attendance/sessions/" + sess.ID + "/close"

	t.Run("only the creator or an HOD", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, closePath, getToken(t, other))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("creator closes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, closePath, getToken(t, teacher))
		env.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var closed attendance.Session
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &closed))
		assert.False(t, closed.IsActive)
	})

	t.Run("joins on a closed session fail", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/join", getToken(t, student), joinBody(t, sess.Code, nil))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired session code"}),
		}, rec)
	})

	t.Run("unknown session", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/sessions/nope/close", getToken(t, teacher))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "session not found"}),
		}, rec)
	})
}

func Test_attendanceApi_querySessions(t *testing.T) {
	env := setup(t)
	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher@test.cd", "pwd", user.RoleTeacher, "")
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "asha@test.cd", "pwd", user.RoleStudent, "a")
	teacherToken := getToken(t, teacher)

	s1 := createSession(t, env, teacherToken)
	s2 := createSession(t, env, teacherToken)

	req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/sessions", getToken(t, student))
	env.app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sessions []attendance.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
	assert.Equal(t, s1.ID, sessions[0].ID, "creation order")
	assert.Equal(t, s2.ID, sessions[1].ID)

	req, rec = newAuthRequest(http.MethodGet, "/v1/attendance/sessions/"+s1.ID, getToken(t, student))
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
