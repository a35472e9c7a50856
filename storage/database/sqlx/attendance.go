package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/attendance"
)

type sessionRow struct {
	ID        string    `db:"id"`
	Code      string    `db:"code"`
	CreatorID string    `db:"creator_id"`
	Subject   string    `db:"subject"`
	Division  string    `db:"division"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

type recordRow struct {
	SessionID    string    `db:"session_id"`
	StudentID    string    `db:"student_id"`
	StudentName  string    `db:"student_name"`
	EnrollmentNo string    `db:"enrollment_no"`
	JoinedAt     time.Time `db:"joined_at"`
	Lat          float64   `db:"lat"`
	Lng          float64   `db:"lng"`
	Position     int       `db:"position"`
}

func (r recordRow) toRecord() attendance.Record {
	return attendance.Record{
		StudentID:    r.StudentID,
		StudentName:  r.StudentName,
		EnrollmentNo: r.EnrollmentNo,
		Timestamp:    r.JoinedAt,
		Location:     attendance.Location{Lat: r.Lat, Lng: r.Lng},
	}
}

func (r sessionRow) toSession(recs []attendance.Record) attendance.Session {
	if recs == nil {
		recs = []attendance.Record{}
	}
	return attendance.Session{
		ID:        r.ID,
		Code:      r.Code,
		CreatorID: r.CreatorID,
		Subject:   r.Subject,
		Division:  r.Division,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		Attendees: recs,
	}
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) attendance.Repository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) CreateSession(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO attendance_sessions (id, code, creator_id, subject, division, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.Code, s.CreatorID, s.Subject, s.Division, s.IsActive, s.CreatedAt)
	if err != nil {
		// the partial unique index on active codes turns a collision into ErrCodeTaken
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
			return attendance.Session{}, attendance.ErrCodeTaken
		}
		return attendance.Session{}, errors.Wrap(err, "inserting session")
	}
	if s.Attendees == nil {
		s.Attendees = []attendance.Record{}
	}
	return s, nil
}

func (repo *sessionRepository) QueryAllSessions(ctx context.Context) ([]attendance.Session, error) {
	var rows []sessionRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM attendance_sessions ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}

	var recs []recordRow
	if err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM attendance_records ORDER BY session_id, position`); err != nil {
		return nil, errors.Wrap(err, "querying records")
	}
	bySession := make(map[string][]attendance.Record, len(rows))
	for _, r := range recs {
		bySession[r.SessionID] = append(bySession[r.SessionID], r.toRecord())
	}

	sessions := make([]attendance.Session, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, r.toSession(bySession[r.ID]))
	}
	return sessions, nil
}

func (repo *sessionRepository) GetSessionByID(ctx context.Context, id string) (attendance.Session, error) {
	var row sessionRow
	if err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM attendance_sessions WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, errors.Wrap(err, "getting session")
	}

	var recs []recordRow
	if err := repo.db.SelectContext(ctx, &recs,
		`SELECT * FROM attendance_records WHERE session_id = $1 ORDER BY position`, id); err != nil {
		return attendance.Session{}, errors.Wrap(err, "querying records")
	}
	records := make([]attendance.Record, 0, len(recs))
	for _, r := range recs {
		records = append(records, r.toRecord())
	}
	return row.toSession(records), nil
}

// AppendAttendee runs the whole join as one transaction: the session row is
// locked while the record is inserted, and the composite primary key turns a
// racing duplicate into ErrAlreadyJoined.
func (repo *sessionRepository) AppendAttendee(ctx context.Context, code string, rec attendance.Record) (attendance.Session, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return attendance.Session{}, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	var row sessionRow
	err = tx.GetContext(ctx, &row, `
		SELECT * FROM attendance_sessions
		WHERE code = $1 AND is_active
		FOR UPDATE
	`, code)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return attendance.Session{}, attendance.ErrInvalidCode
		}
		return attendance.Session{}, errors.Wrap(err, "resolving session by code")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO attendance_records (session_id, student_id, student_name, enrollment_no, joined_at, lat, lng, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
		        (SELECT COUNT(*) FROM attendance_records WHERE session_id = $1))
	`, row.ID, rec.StudentID, rec.StudentName, rec.EnrollmentNo, rec.Timestamp, rec.Location.Lat, rec.Location.Lng)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
			return attendance.Session{}, attendance.ErrAlreadyJoined
		}
		return attendance.Session{}, errors.Wrap(err, "inserting record")
	}

	if err = tx.Commit(); err != nil {
		return attendance.Session{}, errors.Wrap(err, "committing join")
	}
	return repo.GetSessionByID(ctx, row.ID)
}

func (repo *sessionRepository) CloseSession(ctx context.Context, id string) (attendance.Session, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE attendance_sessions SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return attendance.Session{}, errors.Wrap(err, "closing session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish missing from already closed
		if _, err := repo.GetSessionByID(ctx, id); err != nil {
			return attendance.Session{}, err
		}
	}
	return repo.GetSessionByID(ctx, id)
}
