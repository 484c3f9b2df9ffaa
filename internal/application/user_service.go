package application

import (
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
)

// Service groups the user use cases so adapters hold a single handle.
type Service struct {
	Create *CreateUser
	Get    *GetUser
	Update *UpdateUser
	Delete *DeleteUser
	List   *ListUsers
	Search *SearchUsers
	Export *ExportUsers
}

// NewService builds every use case around the same repository. events and
// searcher are optional.
func NewService(r repo.UserRepository, events EventPublisher, searcher UserSearcher, logger *logrus.Logger) *Service {
	return &Service{
		Create: NewCreateUser(r, events, logger),
		Get:    NewGetUser(r),
		Update: NewUpdateUser(r, events, logger),
		Delete: NewDeleteUser(r, events, logger),
		List:   NewListUsers(r),
		Search: NewSearchUsers(r, searcher),
		Export: NewExportUsers(r),
	}
}
