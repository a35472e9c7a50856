package user_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/services/email"
	"github.com/trezcool/chuo/storage/database/inmem"
	"github.com/trezcool/chuo/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	db := testutil.OpenDB(t)
	repo := inmemdb.NewUserRepository(db)
	conf := testutil.NewConfig()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	return user.NewService(repo, mailSvc, conf), repo
}

func newUser(name, email string, role user.Role) user.NewUser {
	return user.NewUser{
		Name:            name,
		Email:           email,
		Role:            role,
		Password:        "S3cret!pwd",
		PasswordConfirm: "S3cret!pwd",
	}
}

func Test_Service_Register_permissions(t *testing.T) {
	tests := []struct {
		registrar user.Role
		target    user.Role
		allowed   bool
	}{
		{user.RoleHOD, user.RoleStudent, true},
		{user.RoleHOD, user.RoleCR, true},
		{user.RoleHOD, user.RoleTeacher, true},
		{user.RoleHOD, user.RoleHOD, true},
		{user.RoleTeacher, user.RoleStudent, true},
		{user.RoleTeacher, user.RoleCR, true},
		{user.RoleTeacher, user.RoleTeacher, false},
		{user.RoleTeacher, user.RoleHOD, false},
		{user.RoleCR, user.RoleStudent, false},
		{user.RoleCR, user.RoleCR, false},
		{user.RoleCR, user.RoleTeacher, false},
		{user.RoleCR, user.RoleHOD, false},
		{user.RoleStudent, user.RoleStudent, false},
		{user.RoleStudent, user.RoleCR, false},
		{user.RoleStudent, user.RoleTeacher, false},
		{user.RoleStudent, user.RoleHOD, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.registrar)+" registers "+string(tt.target), func(t *testing.T) {
			svc, _ := setup(t)
			registrar := user.User{ID: "reg-1", Name: "Registrar", Role: tt.registrar}

			usr, err := svc.Register(
				context.Background(), registrar,
				newUser("New Guy", "new.guy@test.cd", tt.target),
			)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.target, usr.Role)
				assert.NotEmpty(t, usr.ID)
				assert.NotEmpty(t, usr.Avatar)
				assert.False(t, usr.CreatedAt.IsZero())
			} else {
				assert.Equal(t, user.ErrPermissionDenied, errors.Cause(err))
			}
		})
	}
}

func Test_Service_Register(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	hod := user.User{ID: "hod-1", Name: "Head", Role: user.RoleHOD}

	usr, err := svc.Register(ctx, hod, newUser("Jane Doe", "Jane.Doe@test.cd", user.RoleStudent))
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@test.cd", usr.Email, "email must be stored lowercase")
	assert.NoError(t, usr.CheckPassword("S3cret!pwd"))

	// welcome email goes out
	require.NotEmpty(t, emailsvc.SentMessages)
	last := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	assert.Equal(t, "jane.doe@test.cd", last.To[0].Address)

	// duplicate email rejected with a field error
	_, err = svc.Register(ctx, hod, newUser("Jane Dupe", "JANE.DOE@test.cd", user.RoleStudent))
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "email", vErr.Fields[0].Field)
}

func Test_Service_Authenticate(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	testutil.CreateUser(t, repo, "Jane", "jane@test.cd", "S3cret!pwd", user.RoleStudent, "a")

	// email match is case-insensitive
	usr, err := svc.Authenticate(ctx, "JANE@Test.CD", "S3cret!pwd")
	require.NoError(t, err)
	assert.Equal(t, "jane@test.cd", usr.Email)

	_, err = svc.Authenticate(ctx, "jane@test.cd", "nope")
	assert.Equal(t, user.ErrInvalidCredentials, errors.Cause(err))

	_, err = svc.Authenticate(ctx, "ghost@test.cd", "S3cret!pwd")
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}

func Test_Service_filters(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	s1 := testutil.CreateUser(t, repo, "S1", "s1@test.cd", "", user.RoleStudent, "a")
	s2 := testutil.CreateUser(t, repo, "S2", "s2@test.cd", "", user.RoleStudent, "b")
	tch := testutil.CreateUser(t, repo, "T1", "t1@test.cd", "", user.RoleTeacher, "")

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	students, err := svc.FilterByRole(ctx, user.RoleStudent)
	require.NoError(t, err)
	assert.ElementsMatch(t, []user.User{s1, s2}, students)

	divA, err := svc.FilterByDivision(ctx, "A")
	require.NoError(t, err)
	assert.ElementsMatch(t, []user.User{s1}, divA)

	got, err := svc.GetByID(ctx, tch.ID)
	require.NoError(t, err)
	assert.Equal(t, tch, got)
}

func TestMenuFor(t *testing.T) {
	for _, role := range user.AllRoles {
		menu := user.MenuFor(role)
		require.NotEmpty(t, menu, role)
		// common entries come first for every role
		assert.Equal(t, "dashboard", menu[0].ID)
		assert.Equal(t, "notices", menu[1].ID)
	}
	ids := func(role user.Role) []string {
		var out []string
		for _, item := range user.MenuFor(role) {
			out = append(out, item.ID)
		}
		return out
	}
	assert.Contains(t, ids(user.RoleStudent), "attendance_student")
	assert.Contains(t, ids(user.RoleCR), "attendance_monitor")
	assert.Contains(t, ids(user.RoleTeacher), "class_management")
	assert.Contains(t, ids(user.RoleHOD), "admin_panel")
	assert.NotContains(t, ids(user.RoleStudent), "admin_panel")
}
