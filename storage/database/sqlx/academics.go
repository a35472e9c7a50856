package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/academics"
)

type subjectRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Code      string `db:"code"`
	TeacherID string `db:"teacher_id"`
}

type assignmentRow struct {
	ID          string    `db:"id"`
	SubjectID   string    `db:"subject_id"`
	Title       string    `db:"title"`
	DueDate     time.Time `db:"due_date"`
	Description string    `db:"description"`
	Position    int       `db:"position"`
}

type markRow struct {
	ID            string `db:"id"`
	SubjectID     string `db:"subject_id"`
	StudentID     string `db:"student_id"`
	MarksObtained int    `db:"marks_obtained"`
	TotalMarks    int    `db:"total_marks"`
	ExamType      string `db:"exam_type"`
}

func (r subjectRow) toSubject(assignments []academics.Assignment) academics.Subject {
	if assignments == nil {
		assignments = []academics.Assignment{}
	}
	return academics.Subject{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		TeacherID:   r.TeacherID,
		Assignments: assignments,
	}
}

func (r assignmentRow) toAssignment() academics.Assignment {
	return academics.Assignment{
		ID:          r.ID,
		Title:       r.Title,
		DueDate:     r.DueDate,
		Description: r.Description,
	}
}

func (r markRow) toMark() academics.Mark {
	return academics.Mark{
		ID:            r.ID,
		SubjectID:     r.SubjectID,
		StudentID:     r.StudentID,
		MarksObtained: r.MarksObtained,
		TotalMarks:    r.TotalMarks,
		ExamType:      r.ExamType,
	}
}

type academicsRepository struct {
	db *sqlx.DB
}

func NewAcademicsRepository(db *sqlx.DB) academics.Repository {
	return &academicsRepository{db: db}
}

func (repo *academicsRepository) CreateSubject(ctx context.Context, s academics.Subject) (academics.Subject, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO subjects (id, name, code, teacher_id)
		VALUES ($1, $2, $3, $4)
	`, s.ID, s.Name, s.Code, s.TeacherID)
	if err != nil {
		return academics.Subject{}, errors.Wrap(err, "inserting subject")
	}
	if s.Assignments == nil {
		s.Assignments = []academics.Assignment{}
	}
	return s, nil
}

func (repo *academicsRepository) QueryAllSubjects(ctx context.Context) ([]academics.Subject, error) {
	var rows []subjectRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM subjects ORDER BY code`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}

	var assignments []assignmentRow
	if err := repo.db.SelectContext(ctx, &assignments,
		`SELECT * FROM assignments ORDER BY subject_id, position`); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	bySubject := make(map[string][]academics.Assignment, len(rows))
	for _, a := range assignments {
		bySubject[a.SubjectID] = append(bySubject[a.SubjectID], a.toAssignment())
	}

	subjects := make([]academics.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.toSubject(bySubject[r.ID]))
	}
	return subjects, nil
}

func (repo *academicsRepository) GetSubjectByID(ctx context.Context, id string) (academics.Subject, error) {
	var row subjectRow
	if err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM subjects WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return academics.Subject{}, academics.ErrSubjectNotFound
		}
		return academics.Subject{}, errors.Wrap(err, "getting subject")
	}

	var assignments []assignmentRow
	if err := repo.db.SelectContext(ctx, &assignments,
		`SELECT * FROM assignments WHERE subject_id = $1 ORDER BY position`, id); err != nil {
		return academics.Subject{}, errors.Wrap(err, "querying assignments")
	}
	res := make([]academics.Assignment, 0, len(assignments))
	for _, a := range assignments {
		res = append(res, a.toAssignment())
	}
	return row.toSubject(res), nil
}

func (repo *academicsRepository) AppendAssignment(ctx context.Context, subjectID string, a academics.Assignment) (academics.Subject, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO assignments (id, subject_id, title, due_date, description, position)
		VALUES ($1, $2, $3, $4, $5,
		        (SELECT COUNT(*) FROM assignments WHERE subject_id = $2))
	`, a.ID, subjectID, a.Title, a.DueDate, a.Description)
	if err != nil {
		return academics.Subject{}, errors.Wrap(err, "inserting assignment")
	}
	return repo.GetSubjectByID(ctx, subjectID)
}

func (repo *academicsRepository) CreateMark(ctx context.Context, m academics.Mark) (academics.Mark, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO marks (id, subject_id, student_id, marks_obtained, total_marks, exam_type)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.SubjectID, m.StudentID, m.MarksObtained, m.TotalMarks, m.ExamType)
	if err != nil {
		return academics.Mark{}, errors.Wrap(err, "inserting mark")
	}
	return m, nil
}

func (repo *academicsRepository) FilterMarksByStudent(ctx context.Context, studentID string) ([]academics.Mark, error) {
	var rows []markRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM marks WHERE student_id = $1`, studentID); err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}
	marks := make([]academics.Mark, 0, len(rows))
	for _, r := range rows {
		marks = append(marks, r.toMark())
	}
	return marks, nil
}
