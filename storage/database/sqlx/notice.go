package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/notice"
)

type noticeRow struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	AuthorID   string    `db:"author_id"`
	AuthorName string    `db:"author_name"`
	Audience   string    `db:"audience"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r noticeRow) toNotice() notice.Notice {
	return notice.Notice{
		ID:         r.ID,
		Title:      r.Title,
		Content:    r.Content,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		Audience:   notice.Audience(r.Audience),
		CreatedAt:  r.CreatedAt,
	}
}

type noticeRepository struct {
	db *sqlx.DB
}

func NewNoticeRepository(db *sqlx.DB) notice.Repository {
	return &noticeRepository{db: db}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO notices (id, title, content, author_id, author_name, audience, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.Title, n.Content, n.AuthorID, n.AuthorName, string(n.Audience), n.CreatedAt)
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "inserting notice")
	}
	return n, nil
}

func (repo *noticeRepository) QueryAllNotices(ctx context.Context) ([]notice.Notice, error) {
	var rows []noticeRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM notices ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying notices")
	}
	notices := make([]notice.Notice, 0, len(rows))
	for _, r := range rows {
		notices = append(notices, r.toNotice())
	}
	return notices, nil
}

func (repo *noticeRepository) GetNoticeByID(ctx context.Context, id string) (notice.Notice, error) {
	var row noticeRow
	if err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM notices WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return notice.Notice{}, notice.ErrNotFound
		}
		return notice.Notice{}, errors.Wrap(err, "getting notice")
	}
	return row.toNotice(), nil
}
