// Package snapshot defines the whole-collection persistence collaborator used
// by the in-memory database: collections are loaded once at startup and
// replaced wholesale after each mutation. The store serializes its own
// read-modify-write cycles; implementations only need durable load/save.
package snapshot

import (
	"github.com/trezcool/chuo/core/academics"
	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
)

type Snapshotter interface {
	LoadUsers() ([]user.User, error)
	SaveUsers(users []user.User) error

	LoadSessions() ([]attendance.Session, error)
	SaveSessions(sessions []attendance.Session) error

	LoadNotices() ([]notice.Notice, error)
	SaveNotices(notices []notice.Notice) error

	LoadSubjects() ([]academics.Subject, error)
	SaveSubjects(subjects []academics.Subject) error

	LoadMarks() ([]academics.Mark, error)
	SaveMarks(marks []academics.Mark) error
}

// persistedUser carries the password hash that user.User deliberately keeps
// out of its JSON form.
type persistedUser struct {
	user.User
	PasswordHash []byte `json:"password_hash,omitempty"`
}

func wrapUsers(users []user.User) []persistedUser {
	out := make([]persistedUser, 0, len(users))
	for _, u := range users {
		out = append(out, persistedUser{User: u, PasswordHash: u.PasswordHash})
	}
	return out
}

func unwrapUsers(persisted []persistedUser) []user.User {
	out := make([]user.User, 0, len(persisted))
	for _, p := range persisted {
		u := p.User
		u.PasswordHash = p.PasswordHash
		out = append(out, u)
	}
	return out
}
