package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/pkg/apperrors"
	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-registry/pkg/response"
)

// writeError maps application errors onto status codes. Anything unknown is
// logged and hidden behind a 500.
func (h *UserHandler) writeError(c *gin.Context, err error) {
	var ve *apperrors.ValidationError
	switch {
	case apperrors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, ve.Error(), response.ErrorBody{
			Code:    "validation_error",
			Details: map[string]string{ve.Field: ve.Message},
		})
	case apperrors.Is(err, apperrors.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), response.ErrorBody{Code: "not_found"})
	case apperrors.Is(err, apperrors.ErrConflict):
		response.Error[any](c, http.StatusConflict, err.Error(), response.ErrorBody{Code: "conflict"})
	default:
		helpers.LogError(h.Logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", response.ErrorBody{Code: "internal_error"})
	}
}
