package attendance

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/user"
)

var (
	// errors
	ErrInvalidCode      = errors.New("invalid or expired session code")
	ErrAlreadyJoined    = errors.New("attendance already marked for this session")
	ErrSessionNotFound  = errors.New("session not found")
	ErrPermissionDenied = errors.New("permission denied")

	// ErrCodeTaken is returned by repositories when a new session's code collides
	// with another currently-active session. The service retries generation.
	ErrCodeTaken = errors.New("join code already in use")

	NowFunc  = time.Now   // mockable
	CodeFunc = randomCode // mockable
)

// maxCodeAttempts bounds code-collision retries; with 10^6 codes this only
// trips when virtually all codes are held by active sessions.
const maxCodeAttempts = 25

type (
	Repository interface {
		// CreateSession persists a new session. It checks, within the same
		// critical section, that the code is unique among active sessions and
		// returns ErrCodeTaken otherwise.
		CreateSession(ctx context.Context, s Session) (Session, error)
		QueryAllSessions(ctx context.Context) ([]Session, error) // creation order
		GetSessionByID(ctx context.Context, id string) (Session, error)
		// AppendAttendee resolves the active session carrying code, checks that
		// the student has no record yet and appends one — all as a single
		// critical section. It returns ErrInvalidCode when no active session
		// carries the code and ErrAlreadyJoined on a duplicate.
		AppendAttendee(ctx context.Context, code string, rec Record) (Session, error)
		// CloseSession flips the session inactive. Closed is terminal.
		CloseSession(ctx context.Context, id string) (Session, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateSession opens a new active session with a fresh join code.
// Only teachers, class representatives and HODs may open sessions.
func (svc *Service) CreateSession(ctx context.Context, creator user.User, ns NewSession) (Session, error) {
	if !creator.Role.CanCreateSessions() {
		return Session{}, errors.Wrapf(ErrPermissionDenied, "%s cannot open sessions", creator.Role)
	}

	s := Session{
		ID:        uuid.New().String(),
		CreatorID: creator.ID,
		Subject:   ns.Subject,
		Division:  ns.Division,
		CreatedAt: NowFunc().UTC(),
		IsActive:  true,
		Attendees: []Record{},
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		s.Code = CodeFunc()
		created, err := svc.repo.CreateSession(ctx, s)
		if err == nil {
			return created, nil
		}
		if errors.Cause(err) != ErrCodeTaken {
			return Session{}, err
		}
	}
	return Session{}, errors.Errorf("no free join code after %d attempts", maxCodeAttempts)
}

// ListSessions returns all known sessions in creation order.
func (svc *Service) ListSessions(ctx context.Context) ([]Session, error) {
	return svc.repo.QueryAllSessions(ctx)
}

func (svc *Service) GetSession(ctx context.Context, id string) (Session, error) {
	return svc.repo.GetSessionByID(ctx, id)
}

// CloseSession ends a session. Only its creator or an HOD may close it.
func (svc *Service) CloseSession(ctx context.Context, id string, actor user.User) (Session, error) {
	s, err := svc.repo.GetSessionByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if s.CreatorID != actor.ID && !actor.IsHOD() {
		return Session{}, ErrPermissionDenied
	}
	return svc.repo.CloseSession(ctx, id)
}

// Join checks a student into the active session carrying code, snapshotting
// their identity and the supplied location. A closed or unknown code surfaces
// identically as ErrInvalidCode; a repeat join fails with ErrAlreadyJoined and
// leaves the attendee list untouched.
func (svc *Service) Join(ctx context.Context, code string, student user.User, loc Location) (Record, error) {
	rec := Record{
		StudentID:    student.ID,
		StudentName:  student.Name,
		EnrollmentNo: student.EnrollmentNo,
		Timestamp:    NowFunc().UTC(),
		Location:     loc,
	}
	if _, err := svc.repo.AppendAttendee(ctx, code, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

var (
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
	rngMu sync.Mutex
)

// randomCode draws a uniform 6-digit zero-padded code over [0, 999999].
func randomCode() string {
	rngMu.Lock()
	n := rng.Intn(1000000)
	rngMu.Unlock()
	return fmt.Sprintf("%06d", n)
}
