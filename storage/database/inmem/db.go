// Package inmemdb is the demo-scale store: collections live in memory behind
// per-table locks and are mirrored wholesale through an optional snapshotter
// after every mutation. All read-modify-write cycles happen under one table
// lock, which is what makes the duplicate-join check and the active-code check
// single critical sections.
package inmemdb

import (
	"sync"

	"github.com/trezcool/chuo/core/academics"
	"github.com/trezcool/chuo/core/attendance"
	"github.com/trezcool/chuo/core/notice"
	"github.com/trezcool/chuo/core/user"
	"github.com/trezcool/chuo/storage/snapshot"
)

type (
	DB struct {
		users     *userTable
		sessions  *sessionTable
		notices   *noticeTable
		academics *academicsTable
	}

	userTable struct {
		rows  []user.User
		snap  snapshot.Snapshotter
		mutex sync.RWMutex
	}

	sessionTable struct {
		rows  []attendance.Session // creation order
		snap  snapshot.Snapshotter
		mutex sync.RWMutex
	}

	noticeTable struct {
		rows  []notice.Notice // newest first
		snap  snapshot.Snapshotter
		mutex sync.RWMutex
	}

	academicsTable struct {
		subjects []academics.Subject
		marks    []academics.Mark
		snap     snapshot.Snapshotter
		mutex    sync.RWMutex
	}
)

// Open builds the store, hydrating collections from snap when provided.
// A nil snapshotter keeps everything memory-only (tests).
func Open(snap snapshot.Snapshotter) (*DB, error) {
	db := &DB{
		users:     &userTable{snap: snap},
		sessions:  &sessionTable{snap: snap},
		notices:   &noticeTable{snap: snap},
		academics: &academicsTable{snap: snap},
	}
	if snap == nil {
		return db, nil
	}

	var err error
	if db.users.rows, err = snap.LoadUsers(); err != nil {
		return nil, err
	}
	if db.sessions.rows, err = snap.LoadSessions(); err != nil {
		return nil, err
	}
	if db.notices.rows, err = snap.LoadNotices(); err != nil {
		return nil, err
	}
	if db.academics.subjects, err = snap.LoadSubjects(); err != nil {
		return nil, err
	}
	if db.academics.marks, err = snap.LoadMarks(); err != nil {
		return nil, err
	}
	return db, nil
}
