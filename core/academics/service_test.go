package academics_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/chuo/core/academics"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/storage/database/inmem"
	"github.com/trezcool/chuo/tests"
)

var (
	teacher = user.User{ID: "t-1", Name: "Mr. Okoye", Role: user.RoleTeacher}
	hod     = user.User{ID: "hod-1", Name: "Head", Role: user.RoleHOD}
	student = user.User{ID: "s-1", Name: "Asha", Role: user.RoleStudent}
)

func setup(t *testing.T) *academics.Service {
	db := testutil.OpenDB(t)
	return academics.NewService(inmemdb.NewAcademicsRepository(db))
}

func Test_Service_AddSubject(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	subj, err := svc.AddSubject(ctx, teacher, academics.NewSubject{Name: "Algorithms", Code: "cs201", TeacherID: teacher.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, subj.ID)
	assert.Empty(t, subj.Assignments)

	_, err = svc.AddSubject(ctx, student, academics.NewSubject{Name: "Nope", Code: "x", TeacherID: teacher.ID})
	assert.Equal(t, academics.ErrPermissionDenied, errors.Cause(err))

	all, err := svc.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func Test_Service_AddAssignment(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	subj, err := svc.AddSubject(ctx, teacher, academics.NewSubject{Name: "Algorithms", Code: "cs201", TeacherID: teacher.ID})
	require.NoError(t, err)

	na := academics.NewAssignment{Title: "Graphs worksheet", DueDate: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)}

	// only the owning teacher or an HOD
	otherTeacher := user.User{ID: "t-2", Role: user.RoleTeacher}
	_, err = svc.AddAssignment(ctx, otherTeacher, subj.ID, na)
	assert.Equal(t, academics.ErrPermissionDenied, errors.Cause(err))

	got, err := svc.AddAssignment(ctx, teacher, subj.ID, na)
	require.NoError(t, err)
	require.Len(t, got.Assignments, 1)
	assert.Equal(t, "Graphs worksheet", got.Assignments[0].Title)

	got, err = svc.AddAssignment(ctx, hod, subj.ID, academics.NewAssignment{Title: "Trees", DueDate: na.DueDate})
	require.NoError(t, err)
	assert.Len(t, got.Assignments, 2)

	_, err = svc.AddAssignment(ctx, teacher, "nope", na)
	assert.Equal(t, academics.ErrSubjectNotFound, errors.Cause(err))
}

func Test_Service_RecordMark(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	subj, err := svc.AddSubject(ctx, teacher, academics.NewSubject{Name: "Algorithms", Code: "cs201", TeacherID: teacher.ID})
	require.NoError(t, err)

	nm := academics.NewMark{SubjectID: subj.ID, StudentID: student.ID, MarksObtained: 42, TotalMarks: 50, ExamType: "midterm"}

	_, err = svc.RecordMark(ctx, student, nm)
	assert.Equal(t, academics.ErrPermissionDenied, errors.Cause(err))

	// the subject must exist
	bad := nm
	bad.SubjectID = "nope"
	_, err = svc.RecordMark(ctx, teacher, bad)
	assert.Equal(t, academics.ErrSubjectNotFound, errors.Cause(err))

	mark, err := svc.RecordMark(ctx, teacher, nm)
	require.NoError(t, err)
	assert.NotEmpty(t, mark.ID)

	_, err = svc.RecordMark(ctx, hod, academics.NewMark{SubjectID: subj.ID, StudentID: "s-2", MarksObtained: 30, TotalMarks: 50, ExamType: "midterm"})
	require.NoError(t, err)

	marks, err := svc.MarksForStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, 42, marks[0].MarksObtained)
}
