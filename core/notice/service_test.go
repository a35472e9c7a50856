package notice_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/storage/database/inmem"
	"github.com/trezcool/chuo/tests"
)

func setup(t *testing.T) *notice.Service {
	db := testutil.OpenDB(t)
	return notice.NewService(inmemdb.NewNoticeRepository(db))
}

func Test_Service_Post(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	hod := user.User{ID: "hod-1", Name: "Head", Role: user.RoleHOD}

	n, err := svc.Post(ctx, hod, notice.NewNotice{
		Title:    "Midterm schedule",
		Content:  "Posted on the department board.",
		Audience: notice.AudienceAll,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, hod.ID, n.AuthorID)
	assert.Equal(t, "Head", n.AuthorName, "author name is captured at post time")
	assert.False(t, n.CreatedAt.IsZero())

	// students may not post
	student := user.User{ID: "s-1", Role: user.RoleStudent}
	_, err = svc.Post(ctx, student, notice.NewNotice{Title: "t", Content: "c"})
	assert.Equal(t, notice.ErrPermissionDenied, errors.Cause(err))

	// CRs and teachers may
	for _, author := range []user.User{
		{ID: "cr-1", Name: "Rep", Role: user.RoleCR},
		{ID: "t-1", Name: "Teacher", Role: user.RoleTeacher},
	} {
		_, err = svc.Post(ctx, author, notice.NewNotice{Title: "t", Content: "c"})
		require.NoError(t, err, author.Role)
	}
}

func Test_Service_List_newestFirst(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	author := user.User{ID: "t-1", Name: "Teacher", Role: user.RoleTeacher}

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	clock := base
	notice.NowFunc = func() time.Time { clock = clock.Add(time.Minute); return clock }
	defer func() { notice.NowFunc = time.Now }()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		_, err := svc.Post(ctx, author, notice.NewNotice{Title: title, Content: "c"})
		require.NoError(t, err)
	}

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(titles))
	assert.Equal(t, "third", got[0].Title)
	assert.Equal(t, "second", got[1].Title)
	assert.Equal(t, "first", got[2].Title)

	found, err := svc.GetByID(ctx, got[0].ID)
	require.NoError(t, err)
	assert.Equal(t, got[0], found)

	_, err = svc.GetByID(ctx, "nope")
	assert.Equal(t, notice.ErrNotFound, errors.Cause(err))
}

// Repeated reads with no writes in between return identical ordered results,
// and a caller scribbling on a returned slice does not touch the board.
func Test_Service_List_idempotent(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	author := user.User{ID: "t-1", Name: "Teacher", Role: user.RoleTeacher}

	for _, title := range []string{"first", "second"} {
		_, err := svc.Post(ctx, author, notice.NewNotice{Title: title, Content: "c"})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx)
	require.NoError(t, err)
	again, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	first[0].Title = "scribble"
	third, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, again, third)
	assert.Equal(t, "second", third[0].Title)
}
