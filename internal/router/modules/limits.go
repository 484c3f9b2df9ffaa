package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/internal/interface/middleware"
)

// Limits carries per-minute request budgets; a nil Redis disables limiting.
type Limits struct {
	Redis       redis.Cmdable
	WritePerMin int
	ReadPerMin  int
	Allow       middleware.AllowFunc
	Logger      *logrus.Logger
}

func (l Limits) read() gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, l.ReadPerMin, time.Minute, middleware.KeyByIP("read"), l.Allow, l.Logger)
}

// write limits per route so a burst of deletes does not starve creates.
func (l Limits) write() gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, l.WritePerMin, time.Minute, middleware.KeyByIPAndPath(), l.Allow, l.Logger)
}
