package application

import (
	"context"
	"encoding/json"
	"io"

	repo "github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
)

const ExportPageSize = 100

// ExportUsers streams every user as newline-delimited JSON.
type ExportUsers struct {
	list *ListUsers
}

func NewExportUsers(r repo.UserRepository) *ExportUsers {
	return &ExportUsers{list: NewListUsers(r)}
}

// Execute writes one projection per line, newest first, and returns how many
// were written. Users created while paging may shift pages.
func (uc *ExportUsers) Execute(ctx context.Context, w io.Writer) (int, error) {
	enc := json.NewEncoder(w)
	written := 0
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		users, err := uc.list.Execute(ctx, page, ExportPageSize)
		if err != nil {
			return written, err
		}
		for _, u := range users {
			if err := enc.Encode(u); err != nil {
				return written, err
			}
			written++
		}
		if len(users) < ExportPageSize {
			return written, nil
		}
	}
}
