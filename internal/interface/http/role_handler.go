package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/application"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/interface/middleware"
	"github.com/mustafa-mbari/wmsv1-sub001/pkg/validation"
)

type RoleHandler struct {
	Roles  *application.RoleUseCases
	Logger *logrus.Logger
}

func NewRoleHandler(roles *application.RoleUseCases, logger *logrus.Logger) *RoleHandler {
	return &RoleHandler{Roles: roles, Logger: logger}
}

type createRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Roles.Create(c.Request.Context(), application.CreateRoleRequest{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CreatedBy:   c.GetString(middleware.CtxUserIDKey),
	})
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusCreated, roleJSON(res.Value()), res.Message(), nil)
}

func (h *RoleHandler) GetRole(c *gin.Context) {
	res := h.Roles.GetByID(c.Request.Context(), c.Param("id"))
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, roleJSON(res.Value()), "role", nil)
}

func (h *RoleHandler) ListRoles(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))
	res := h.Roles.List(c.Request.Context(), includeInactive)
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, rolesJSON(res.Value()), "roles", gin.H{"count": len(res.Value())})
}

type updateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *RoleHandler) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Roles.Update(c.Request.Context(), application.UpdateRoleRequest{
		RoleID:      c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		UpdatedBy:   c.GetString(middleware.CtxUserIDKey),
	})
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, roleJSON(res.Value()), res.Message(), nil)
}

func (h *RoleHandler) DeactivateRole(c *gin.Context) {
	res := h.Roles.Deactivate(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey))
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, roleJSON(res.Value()), res.Message(), nil)
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	res := h.Roles.Delete(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey))
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok[any](c, http.StatusOK, gin.H{"deleted": res.Value()}, res.Message(), nil)
}

type assignRoleRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

func (h *RoleHandler) AssignRole(c *gin.Context) {
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Roles.AssignToUser(c.Request.Context(), application.AssignRoleRequest{
		UserID: req.UserID,
		RoleID: c.Param("id"),
	})
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, roleJSON(res.Value()), res.Message(), nil)
}

func (h *RoleHandler) RevokeRole(c *gin.Context) {
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Roles.RevokeFromUser(c.Request.Context(), application.AssignRoleRequest{
		UserID: req.UserID,
		RoleID: c.Param("id"),
	})
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, roleJSON(res.Value()), res.Message(), nil)
}
