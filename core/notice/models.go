package notice

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/chuo/core"
)

// Audience tags who a notice targets.
type Audience string

const (
	AudienceAll      Audience = "ALL"
	AudienceClass    Audience = "CLASS"
	AudienceDivision Audience = "DIVISION"
)

// Notice is one announcement. The board is append-only; the author name is
// denormalized so renames do not rewrite old posts.
type Notice struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	Audience   Audience  `json:"target_audience"`
}

// NewNotice contains information needed to publish a notice.
type NewNotice struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Audience Audience `json:"target_audience" validate:"omitempty,oneof=ALL CLASS DIVISION"`
}

func (nn *NewNotice) Validate(validate *validator.Validate, _ ut.Translator) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Content = core.CleanString(nn.Content)
	if nn.Audience == "" {
		nn.Audience = AudienceAll
	}
	return validate.Struct(nn)
}
