package snapshot

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/academics"
	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
)

// File persists each collection as a JSON file under a data directory.
type File struct {
	dir string
}

var _ Snapshotter = (*File)(nil)

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating data dir %s", dir)
	}
	return &File{dir: dir}, nil
}

func (f *File) load(name string, dst interface{}) error {
	path := filepath.Join(f.dir, name+".json")
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // empty collection
		}
		return errors.Wrapf(err, "reading %s", path)
	}
	return errors.Wrapf(json.Unmarshal(data, dst), "decoding %s", path)
}

func (f *File) save(name string, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", name)
	}
	path := filepath.Join(f.dir, name+".json")
	tmp := path + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	return errors.Wrapf(os.Rename(tmp, path), "replacing %s", path)
}

func (f *File) LoadUsers() ([]user.User, error) {
	var persisted []persistedUser
	if err := f.load("users", &persisted); err != nil {
		return nil, err
	}
	return unwrapUsers(persisted), nil
}

func (f *File) SaveUsers(users []user.User) error {
	return f.save("users", wrapUsers(users))
}

func (f *File) LoadSessions() ([]attendance.Session, error) {
	var sessions []attendance.Session
	err := f.load("sessions", &sessions)
	return sessions, err
}

func (f *File) SaveSessions(sessions []attendance.Session) error {
	return f.save("sessions", sessions)
}

func (f *File) LoadNotices() ([]notice.Notice, error) {
	var notices []notice.Notice
	err := f.load("notices", &notices)
	return notices, err
}

func (f *File) SaveNotices(notices []notice.Notice) error {
	return f.save("notices", notices)
}

func (f *File) LoadSubjects() ([]academics.Subject, error) {
	var subjects []academics.Subject
	err := f.load("subjects", &subjects)
	return subjects, err
}

func (f *File) SaveSubjects(subjects []academics.Subject) error {
	return f.save("subjects", subjects)
}

func (f *File) LoadMarks() ([]academics.Mark, error) {
	var marks []academics.Mark
	err := f.load("marks", &marks)
	return marks, err
}

func (f *File) SaveMarks(marks []academics.Mark) error {
	return f.save("marks", marks)
}
