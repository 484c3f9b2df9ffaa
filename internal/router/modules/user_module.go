package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-user-registry/internal/interface/http"
)

// UserModule wires the user registry routes:
// POST /users, GET /users, GET /users/search,
// GET /users/:id, PUT /users/:id, DELETE /users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Limits  Limits
}

func NewUserModule(h *handlers.UserHandler, limits Limits) *UserModule {
	return &UserModule{Handler: h, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	read := m.Limits.read()
	write := m.Limits.write()

	users := rg.Group("/users")
	{
		users.POST("", write, m.Handler.Create)
		users.GET("", read, m.Handler.List)
		users.GET("/search", read, m.Handler.Search)
		users.GET("/:id", read, m.Handler.Get)
		users.PUT("/:id", write, m.Handler.Update)
		users.DELETE("/:id", write, m.Handler.Delete)
	}
}
