package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/chuo/core/academics"
	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
)

// Redis persists each collection as one JSON blob under <prefix>:<collection>.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ Snapshotter = (*Redis)(nil)

func NewRedis(addr, prefix string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if prefix == "" {
		prefix = "chuo"
	}
	return &Redis{client: client, prefix: prefix}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *Redis) Close() error { return r.client.Close() }

func (r *Redis) key(collection string) string { return r.prefix + ":" + collection }

func (r *Redis) load(collection string, dst interface{}) error {
	data, err := r.client.Get(context.Background(), r.key(collection)).Bytes()
	if err != nil {
		if errors.Cause(err) == redis.Nil {
			return nil // empty collection
		}
		return errors.Wrapf(err, "loading %s", collection)
	}
	return errors.Wrapf(json.Unmarshal(data, dst), "decoding %s", collection)
}

func (r *Redis) save(collection string, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", collection)
	}
	return errors.Wrapf(
		r.client.Set(context.Background(), r.key(collection), data, 0).Err(),
		"saving %s", collection,
	)
}

func (r *Redis) LoadUsers() ([]user.User, error) {
	var persisted []persistedUser
	if err := r.load("users", &persisted); err != nil {
		return nil, err
	}
	return unwrapUsers(persisted), nil
}

func (r *Redis) SaveUsers(users []user.User) error {
	return r.save("users", wrapUsers(users))
}

func (r *Redis) LoadSessions() ([]attendance.Session, error) {
	var sessions []attendance.Session
	err := r.load("sessions", &sessions)
	return sessions, err
}

func (r *Redis) SaveSessions(sessions []attendance.Session) error {
	return r.save("sessions", sessions)
}

func (r *Redis) LoadNotices() ([]notice.Notice, error) {
	var notices []notice.Notice
	err := r.load("notices", &notices)
	return notices, err
}

func (r *Redis) SaveNotices(notices []notice.Notice) error {
	return r.save("notices", notices)
}

func (r *Redis) LoadSubjects() ([]academics.Subject, error) {
	var subjects []academics.Subject
	err := r.load("subjects", &subjects)
	return subjects, err
}

func (r *Redis) SaveSubjects(subjects []academics.Subject) error {
	return r.save("subjects", subjects)
}

func (r *Redis) LoadMarks() ([]academics.Mark, error) {
	var marks []academics.Mark
	err := r.load("marks", &marks)
	return marks, err
}

func (r *Redis) SaveMarks(marks []academics.Mark) error {
	return r.save("marks", marks)
}
