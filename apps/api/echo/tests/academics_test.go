package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core/academics"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/tests"
)

func createSubject(t *testing.T, env *env, token, teacherID string) academics.Subject {
	body := marchallObj(t, academics.NewSubject{Name: "Algorithms", Code: "cs201", TeacherID: teacherID})
	req, rec := newAuthRequest(http.MethodPost, "/v1/subjects", token, body)
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var subj academics.Subject
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subj))
	return subj
}

func Test_academicsApi_subjects(t *testing.T) {
	env := setup(t)
	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher@test.cd", "pwd", user.RoleTeacher, "")
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "asha@test.cd", "pwd", user.RoleStudent, "a")

	t.Run("staff only", func(t *testing.T) {
		body := marchallObj(t, academics.NewSubject{Name: "Nope", Code: "x1", TeacherID: teacher.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/subjects", getToken(t, student), body)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	subj := createSubject(t, env, getToken(t, teacher), teacher.ID)

	t.Run("students can browse the curriculum", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/subjects", getToken(t, student))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, subj)}, rec)
	})

	t.Run("add assignment", func(t *testing.T) {
		body := []byte(`{"title": "Graphs worksheet", "due_date": "2026-03-20T00:00:00Z"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/subjects/"+subj.ID+"/assignments", getToken(t, teacher), body)
		env.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var got academics.Subject
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Assignments, 1)
		assert.Equal(t, "Graphs worksheet", got.Assignments[0].Title)
	})
}

func Test_academicsApi_marks(t *testing.T) {
	env := setup(t)
	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher@test.cd", "pwd", user.RoleTeacher, "")
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "asha@test.cd", "pwd", user.RoleStudent, "a")
	other := testutil.CreateUser(t, env.usrRepo, "Ben", "ben@test.cd", "pwd", user.RoleStudent, "a")

	subj := createSubject(t, env, getToken(t, teacher), teacher.ID)

	markBody := marchallObj(t, academics.NewMark{
		SubjectID:     subj.ID,
		StudentID:     student.ID,
		MarksObtained: 42,
		TotalMarks:    50,
		ExamType:      "midterm",
	})

	t.Run("staff only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/marks", getToken(t, student), markBody)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("obtained may not exceed total", func(t *testing.T) {
		bad := marchallObj(t, academics.NewMark{
			SubjectID: subj.ID, StudentID: student.ID,
			MarksObtained: 60, TotalMarks: 50, ExamType: "midterm",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/marks", getToken(t, teacher), bad)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		var fldErrs map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
		assert.Contains(t, fldErrs, "total_marks")
	})

	var mark academics.Mark
	t.Run("teacher records a mark", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/marks", getToken(t, teacher), markBody)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mark))
	})

	t.Run("students see their own marks", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/marks", getToken(t, student))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, mark)}, rec)
	})

	t.Run("students cannot read someone else's marks", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/marks?student_id="+student.ID, getToken(t, other))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("teachers can", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/marks?student_id="+student.ID, getToken(t, teacher))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, mark)}, rec)
	})
}
