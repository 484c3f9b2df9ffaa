package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-ddd-user-registry/internal/application"
	"github.com/oksasatya/go-ddd-user-registry/pkg/response"
	"github.com/oksasatya/go-ddd-user-registry/pkg/validation"
)

const maxPageLimit = 100

type UserHandler struct {
	Svc     *userapp.Service
	Logger  *logrus.Logger
	Metrics *UserMetrics
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, metrics *UserMetrics) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Metrics: metrics}
}

// Binding only checks presence; field rules live in the value objects and run
// after the uniqueness checks inside the use case.
type createUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	TypeDoc   string `json:"type_doc" binding:"required"`
	NumberDoc string `json:"number_doc" binding:"required"`
}

type updateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	TypeDoc   *string `json:"type_doc"`
	NumberDoc *string `json:"number_doc"`
}

type listUsersQuery struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}

type searchUsersQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	out, err := h.Svc.Create.Execute(c.Request.Context(), userapp.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		TypeDoc:   req.TypeDoc,
		NumberDoc: req.NumberDoc,
	})
	h.Metrics.observe("create", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out, "user created", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	out, err := h.Svc.Get.Execute(c.Request.Context(), c.Param("id"))
	h.Metrics.observe("get", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "user retrieved", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	out, err := h.Svc.Update.Execute(c.Request.Context(), c.Param("id"), userapp.UpdateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		TypeDoc:   req.TypeDoc,
		NumberDoc: req.NumberDoc,
	})
	h.Metrics.observe("update", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	deleted, err := h.Svc.Delete.Execute(c.Request.Context(), c.Param("id"))
	h.Metrics.observe("delete", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !deleted {
		response.Error[any](c, http.StatusNotFound, "user not found", response.ErrorBody{Code: "not_found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// List clamps page to at least 1 and limit to [1, 100].
func (h *UserHandler) List(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	q.Page = max(q.Page, 1)
	q.Limit = min(max(q.Limit, 1), maxPageLimit)

	out, err := h.Svc.List.Execute(c.Request.Context(), q.Page, q.Limit)
	h.Metrics.observe("list", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "users retrieved", response.PageMeta{
		Pagination: response.Pagination{Page: q.Page, Limit: q.Limit, Count: len(out)},
	})
}

func (h *UserHandler) Search(c *gin.Context) {
	var q searchUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	out, err := h.Svc.Search.Execute(c.Request.Context(), q.Q, q.Size)
	h.Metrics.observe("search", err)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "users found", nil)
}

func writeBindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", response.ErrorBody{
		Code:    "validation_error",
		Details: validation.ToDetails(err),
	})
}
