package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/tests"
)

func Test_noticeApi_post(t *testing.T) {
	env := setup(t)
	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher@test.cd", "pwd", user.RoleTeacher, "")
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "asha@test.cd", "pwd", user.RoleStudent, "a")

	body := []byte(`{"title": "Midterm schedule", "content": "Posted on the board."}`)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/notices", body)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("students may not post", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/notices", getToken(t, student), body)
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("teacher posts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/notices", getToken(t, teacher), body)
		env.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var n notice.Notice
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &n))
		assert.Equal(t, teacher.ID, n.AuthorID)
		assert.Equal(t, "Teacher", n.AuthorName)
		assert.Equal(t, notice.AudienceAll, n.Audience, "audience defaults to ALL")
	})

	t.Run("title is required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/notices", getToken(t, teacher), []byte(`{"content": "c"}`))
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "this field is required"}),
		}, rec)
	})
}

func Test_noticeApi_query_newestFirst(t *testing.T) {
	env := setup(t)
	teacher := testutil.CreateUser(t, env.usrRepo, "Teacher", "teacher@test.cd", "pwd", user.RoleTeacher, "")
	student := testutil.CreateUser(t, env.usrRepo, "Asha", "asha@test.cd", "pwd", user.RoleStudent, "a")
	teacherToken := getToken(t, teacher)

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	clock := base
	notice.NowFunc = func() time.Time { clock = clock.Add(time.Minute); return clock }
	defer func() { notice.NowFunc = time.Now }()

	for _, title := range []string{"first", "second", "third"} {
		body := marchallObj(t, notice.NewNotice{Title: title, Content: "c"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/notices", teacherToken, body)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/notices", getToken(t, student))
	env.app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var notices []notice.Notice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notices))
	require.Len(t, notices, 3)
	assert.Equal(t, "third", notices[0].Title)
	assert.Equal(t, "second", notices[1].Title)
	assert.Equal(t, "first", notices[2].Title)
}
