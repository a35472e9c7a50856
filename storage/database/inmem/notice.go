package inmemdb

import (
	"context"

	"github.com/trezcool/chuo/core/notice"
)

type noticeRepository struct {
	db *noticeTable
}

func NewNoticeRepository(db *DB) notice.Repository {
	return &noticeRepository{db: db.notices}
}

func (t *noticeTable) persist() error {
	if t.snap == nil {
		return nil
	}
	return t.snap.SaveNotices(t.rows)
}

// CreateNotice inserts at the front: the board reads newest first.
func (repo *noticeRepository) CreateNotice(_ context.Context, n notice.Notice) (notice.Notice, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.rows = append([]notice.Notice{n}, repo.db.rows...)
	if err := repo.db.persist(); err != nil {
		return notice.Notice{}, err
	}
	return n, nil
}

func (repo *noticeRepository) QueryAllNotices(_ context.Context) ([]notice.Notice, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]notice.Notice(nil), repo.db.rows...), nil
}

func (repo *noticeRepository) GetNoticeByID(_ context.Context, id string) (notice.Notice, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, n := range repo.db.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return notice.Notice{}, notice.ErrNotFound
}
