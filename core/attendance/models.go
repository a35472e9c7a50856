package attendance

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
)

// Location is a geographic position captured at check-in time.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ErrLocationUnavailable is returned by a Locator that could not resolve a position.
var ErrLocationUnavailable = errors.New("location unavailable")

// Locator resolves the current position of the caller. The join contract takes
// an already-resolved location; a Locator is only consulted by the API layer
// when the client did not supply one.
type Locator interface {
	CurrentPosition(ctx context.Context) (Location, error)
}

// Record is the durable snapshot of one student's check-in to one session.
// Name and enrollment number are copied at join time so later identity edits
// do not rewrite history.
type Record struct {
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	EnrollmentNo string    `json:"enrollment_no"`
	Timestamp    time.Time `json:"timestamp"` // UTC
	Location     Location  `json:"location"`
}

// Session is one attendance session. Attendees only ever grows while the
// session is active; Closed is terminal.
type Session struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"` // 6-digit, unique among active sessions
	CreatorID string    `json:"creator_id"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"` // UTC
	IsActive  bool      `json:"is_active"`
	Division  string    `json:"division"`
	Attendees []Record  `json:"attendees"` // join order
}

// HasAttendee reports whether the student already checked in.
func (s Session) HasAttendee(studentID string) bool {
	for _, rec := range s.Attendees {
		if rec.StudentID == studentID {
			return true
		}
	}
	return false
}

// NewSession contains information needed to open a session.
type NewSession struct {
	Subject  string `json:"subject" validate:"required"`
	Division string `json:"division" validate:"required"`
}

func (ns *NewSession) Validate(validate *validator.Validate, _ ut.Translator) error {
	ns.Subject = core.CleanString(ns.Subject)
	ns.Division = core.CleanString(ns.Division, true /* lower */)
	return validate.Struct(ns)
}

// JoinRequest is a student's attempt to check in with a session code.
// Location is optional; the API falls back to its Locator when absent.
type JoinRequest struct {
	Code     string    `json:"code" validate:"required,len=6,numeric"`
	Location *Location `json:"location"`
}

func (jr *JoinRequest) Validate(validate *validator.Validate, _ ut.Translator) error {
	jr.Code = core.CleanString(jr.Code)
	return validate.Struct(jr)
}
