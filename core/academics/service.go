package academics

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/user"
)

var (
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrPermissionDenied = errors.New("permission denied")
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, s Subject) (Subject, error)
		QueryAllSubjects(ctx context.Context) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		AppendAssignment(ctx context.Context, subjectID string, a Assignment) (Subject, error)
		CreateMark(ctx context.Context, m Mark) (Mark, error)
		FilterMarksByStudent(ctx context.Context, studentID string) ([]Mark, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddSubject creates a curriculum entry; teachers and HODs only.
func (svc *Service) AddSubject(ctx context.Context, actor user.User, ns NewSubject) (Subject, error) {
	if !actor.IsTeacher() && !actor.IsHOD() {
		return Subject{}, errors.Wrapf(ErrPermissionDenied, "%s cannot add subjects", actor.Role)
	}
	s := Subject{
		ID:          uuid.New().String(),
		Name:        ns.Name,
		Code:        ns.Code,
		TeacherID:   ns.TeacherID,
		Assignments: []Assignment{},
	}
	return svc.repo.CreateSubject(ctx, s)
}

func (svc *Service) ListSubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QueryAllSubjects(ctx)
}

// AddAssignment appends an assignment to a subject; only the owning teacher
// or an HOD may do so.
func (svc *Service) AddAssignment(ctx context.Context, actor user.User, subjectID string, na NewAssignment) (Subject, error) {
	subj, err := svc.repo.GetSubjectByID(ctx, subjectID)
	if err != nil {
		return Subject{}, err
	}
	if subj.TeacherID != actor.ID && !actor.IsHOD() {
		return Subject{}, ErrPermissionDenied
	}
	a := Assignment{
		ID:          uuid.New().String(),
		Title:       na.Title,
		DueDate:     na.DueDate,
		Description: na.Description,
	}
	return svc.repo.AppendAssignment(ctx, subjectID, a)
}

// RecordMark stores an exam result; teachers and HODs only.
func (svc *Service) RecordMark(ctx context.Context, actor user.User, nm NewMark) (Mark, error) {
	if !actor.IsTeacher() && !actor.IsHOD() {
		return Mark{}, errors.Wrapf(ErrPermissionDenied, "%s cannot record marks", actor.Role)
	}
	if _, err := svc.repo.GetSubjectByID(ctx, nm.SubjectID); err != nil {
		return Mark{}, err
	}
	m := Mark{
		ID:            uuid.New().String(),
		SubjectID:     nm.SubjectID,
		StudentID:     nm.StudentID,
		MarksObtained: nm.MarksObtained,
		TotalMarks:    nm.TotalMarks,
		ExamType:      nm.ExamType,
	}
	return svc.repo.CreateMark(ctx, m)
}

// MarksForStudent lists a student's recorded marks.
func (svc *Service) MarksForStudent(ctx context.Context, studentID string) ([]Mark, error) {
	return svc.repo.FilterMarksByStudent(ctx, studentID)
}
