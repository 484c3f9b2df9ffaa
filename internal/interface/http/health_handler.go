package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-registry/pkg/response"
)

// Pinger is implemented by every storage adapter.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store   Pinger
	Driver  string
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewHealthHandler(store Pinger, driver string, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Store: store, Driver: driver, Logger: logger, Timeout: 2 * time.Second}
}

type healthStatus struct {
	Status string `json:"status"`
	Driver string `json:"driver,omitempty"`
}

func (h *HealthHandler) Live(c *gin.Context) {
	response.Success(c, http.StatusOK, healthStatus{Status: "ok"}, "service healthy", nil)
}

func (h *HealthHandler) Database(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		helpers.LogError(h.Logger, "store ping failed", err, logrus.Fields{"driver": h.Driver})
		response.Error[any](c, http.StatusServiceUnavailable, "database unavailable", response.ErrorBody{Code: "unavailable"})
		return
	}
	response.Success(c, http.StatusOK, healthStatus{Status: "ok", Driver: h.Driver}, "database healthy", nil)
}
