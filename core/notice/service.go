package notice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core/user"
)

var (
	ErrNotFound         = errors.New("notice not found")
	ErrPermissionDenied = errors.New("permission denied")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		// CreateNotice appends a notice. Reads return newest first.
		CreateNotice(ctx context.Context, n Notice) (Notice, error)
		QueryAllNotices(ctx context.Context) ([]Notice, error) // newest first
		GetNoticeByID(ctx context.Context, id string) (Notice, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Post publishes a notice on behalf of author. Students may not post.
func (svc *Service) Post(ctx context.Context, author user.User, nn NewNotice) (Notice, error) {
	if !author.Role.CanPostNotices() {
		return Notice{}, errors.Wrapf(ErrPermissionDenied, "%s cannot post notices", author.Role)
	}
	n := Notice{
		ID:         uuid.New().String(),
		Title:      nn.Title,
		Content:    nn.Content,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  NowFunc().UTC(),
		Audience:   nn.Audience,
	}
	return svc.repo.CreateNotice(ctx, n)
}

// List returns all notices, newest first.
func (svc *Service) List(ctx context.Context) ([]Notice, error) {
	return svc.repo.QueryAllNotices(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Notice, error) {
	return svc.repo.GetNoticeByID(ctx, id)
}
