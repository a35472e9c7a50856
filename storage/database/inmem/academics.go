package inmemdb

import (
	"context"

	"github.com/trezcool/chuo/core/academics"
)

type academicsRepository struct {
	db *academicsTable
}

func NewAcademicsRepository(db *DB) academics.Repository {
	return &academicsRepository{db: db.academics}
}

func (t *academicsTable) persistSubjects() error {
	if t.snap == nil {
		return nil
	}
	return t.snap.SaveSubjects(t.subjects)
}

func (t *academicsTable) persistMarks() error {
	if t.snap == nil {
		return nil
	}
	return t.snap.SaveMarks(t.marks)
}

func (repo *academicsRepository) CreateSubject(_ context.Context, s academics.Subject) (academics.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.subjects = append(repo.db.subjects, s)
	if err := repo.db.persistSubjects(); err != nil {
		return academics.Subject{}, err
	}
	return s, nil
}

func (repo *academicsRepository) QueryAllSubjects(_ context.Context) ([]academics.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]academics.Subject(nil), repo.db.subjects...), nil
}

func (repo *academicsRepository) GetSubjectByID(_ context.Context, id string) (academics.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.subjects {
		if s.ID == id {
			return s, nil
		}
	}
	return academics.Subject{}, academics.ErrSubjectNotFound
}

func (repo *academicsRepository) AppendAssignment(_ context.Context, subjectID string, a academics.Assignment) (academics.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range repo.db.subjects {
		s := &repo.db.subjects[i]
		if s.ID != subjectID {
			continue
		}
		s.Assignments = append(s.Assignments, a)
		if err := repo.db.persistSubjects(); err != nil {
			return academics.Subject{}, err
		}
		return *s, nil
	}
	return academics.Subject{}, academics.ErrSubjectNotFound
}

func (repo *academicsRepository) CreateMark(_ context.Context, m academics.Mark) (academics.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.marks = append(repo.db.marks, m)
	if err := repo.db.persistMarks(); err != nil {
		return academics.Mark{}, err
	}
	return m, nil
}

func (repo *academicsRepository) FilterMarksByStudent(_ context.Context, studentID string) ([]academics.Mark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var res []academics.Mark
	for _, m := range repo.db.marks {
		if m.StudentID == studentID {
			res = append(res, m)
		}
	}
	return res, nil
}
