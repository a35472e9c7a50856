package inmemdb

import (
	"context"

	"github.com/trezcool/chuo/core/attendance"
)

type sessionRepository struct {
	db *sessionTable
}

func NewSessionRepository(db *DB) attendance.Repository {
	return &sessionRepository{db: db.sessions}
}

func (t *sessionTable) persist() error {
	if t.snap == nil {
		return nil
	}
	return t.snap.SaveSessions(t.rows)
}

// CreateSession appends a session after verifying, under the write lock, that
// no other active session carries the same code.
func (repo *sessionRepository) CreateSession(_ context.Context, s attendance.Session) (attendance.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.rows {
		if existing.IsActive && existing.Code == s.Code {
			return attendance.Session{}, attendance.ErrCodeTaken
		}
	}
	repo.db.rows = append(repo.db.rows, s)
	if err := repo.db.persist(); err != nil {
		return attendance.Session{}, err
	}
	return s, nil
}

func (repo *sessionRepository) QueryAllSessions(_ context.Context) ([]attendance.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]attendance.Session(nil), repo.db.rows...), nil
}

func (repo *sessionRepository) GetSessionByID(_ context.Context, id string) (attendance.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
}

// AppendAttendee is the join critical section: code resolution, duplicate
// check and append happen under one write lock so concurrent joins by the
// same student cannot both pass the check.
func (repo *sessionRepository) AppendAttendee(_ context.Context, code string, rec attendance.Record) (attendance.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range repo.db.rows {
		s := &repo.db.rows[i]
		if !s.IsActive || s.Code != code {
			continue
		}
		if s.HasAttendee(rec.StudentID) {
			return attendance.Session{}, attendance.ErrAlreadyJoined
		}
		s.Attendees = append(s.Attendees, rec)
		if err := repo.db.persist(); err != nil {
			return attendance.Session{}, err
		}
		return *s, nil
	}
	return attendance.Session{}, attendance.ErrInvalidCode
}

func (repo *sessionRepository) CloseSession(_ context.Context, id string) (attendance.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range repo.db.rows {
		s := &repo.db.rows[i]
		if s.ID != id {
			continue
		}
		if s.IsActive {
			s.IsActive = false
			if err := repo.db.persist(); err != nil {
				return attendance.Session{}, err
			}
		}
		return *s, nil
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
}
