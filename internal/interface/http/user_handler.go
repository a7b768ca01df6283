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

type UserHandler struct {
	Create    *application.CreateUserUseCase
	Get       *application.GetUserByIDUseCase
	Update    *application.UpdateUserUseCase
	List      *application.GetUsersWithPaginationUseCase
	Lifecycle *application.UserLifecycleUseCase
	Auth      *application.AuthService
	Logger    *logrus.Logger
}

func NewUserHandler(create *application.CreateUserUseCase, get *application.GetUserByIDUseCase, update *application.UpdateUserUseCase, list *application.GetUsersWithPaginationUseCase, lifecycle *application.UserLifecycleUseCase, auth *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Create: create, Get: get, Update: update, List: list, Lifecycle: lifecycle, Auth: auth, Logger: logger}
}

type createUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`

	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	Gender    *string `json:"gender"`
	AvatarURL *string `json:"avatar_url"`
	Language  *string `json:"language"`
	TimeZone  *string `json:"time_zone"`
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	birthDate, err := parseDate(strValue(req.BirthDate))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", gin.H{"birth_date": "must be a date in YYYY-MM-DD form"})
		return
	}

	res := h.Create.Execute(c.Request.Context(), application.CreateUserRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		BirthDate: birthDate,
		Gender:    req.Gender,
		AvatarURL: req.AvatarURL,
		Language:  req.Language,
		TimeZone:  req.TimeZone,
		CreatedBy: c.GetString(middleware.CtxUserIDKey),
	})
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusCreated, userJSON(res.Value()), res.Message(), nil)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	res := h.Get.Execute(c.Request.Context(), c.Param("id"))
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, userJSON(res.Value()), "user", nil)
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	BirthDate *string `json:"birth_date"`
	Gender    *string `json:"gender"`
	AvatarURL *string `json:"avatar_url"`
	Language  *string `json:"language"`
	TimeZone  *string `json:"time_zone"`
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	birthDate, err := parseDate(strValue(req.BirthDate))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", gin.H{"birth_date": "must be a date in YYYY-MM-DD form"})
		return
	}

	res := h.Update.Execute(c.Request.Context(), application.UpdateUserRequest{
		UserID:    c.Param("id"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		BirthDate: birthDate,
		Gender:    req.Gender,
		AvatarURL: req.AvatarURL,
		Language:  req.Language,
		TimeZone:  req.TimeZone,
		UpdatedBy: c.GetString(middleware.CtxUserIDKey),
	})
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, userJSON(res.Value()), res.Message(), nil)
}

// ListUsers translates query parameters into the listing use case.
// Supported: page, limit, search, is_active, is_email_verified, role,
// created_after, created_before, include_deleted, sort_by, sort_dir.
func (h *UserHandler) ListUsers(c *gin.Context) {
	req := application.ListUsersRequest{
		Search:        c.Query("search"),
		RoleSlug:      c.Query("role"),
		SortBy:        c.Query("sort_by"),
		SortDirection: c.Query("sort_dir"),
	}
	var parseErrs = gin.H{}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			parseErrs["page"] = "must be an integer"
		}
		req.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			parseErrs["limit"] = "must be an integer"
		}
		req.Limit = n
	}
	if v := c.Query("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			parseErrs["is_active"] = "must be a boolean"
		}
		req.IsActive = &b
	}
	if v := c.Query("is_email_verified"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			parseErrs["is_email_verified"] = "must be a boolean"
		}
		req.IsEmailVerified = &b
	}
	if v := c.Query("include_deleted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			parseErrs["include_deleted"] = "must be a boolean"
		}
		req.IncludeDeleted = b
	}
	if t, err := parseDate(c.Query("created_after")); err != nil {
		parseErrs["created_after"] = "must be a date in YYYY-MM-DD form"
	} else {
		req.CreatedAfter = t
	}
	if t, err := parseDate(c.Query("created_before")); err != nil {
		parseErrs["created_before"] = "must be a date in YYYY-MM-DD form"
	} else {
		req.CreatedBefore = t
	}
	if len(parseErrs) > 0 {
		fail(c, http.StatusBadRequest, "invalid query", parseErrs)
		return
	}

	res := h.List.Execute(c.Request.Context(), req)
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	page := res.Value()
	ok(c, http.StatusOK, usersJSON(page.Data), "users", paginationMeta(page))
}

func (h *UserHandler) ActivateUser(c *gin.Context) {
	res := h.Lifecycle.Activate(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey))
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, userJSON(res.Value()), res.Message(), nil)
}

func (h *UserHandler) DeactivateUser(c *gin.Context) {
	res := h.Lifecycle.Deactivate(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey))
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, userJSON(res.Value()), res.Message(), nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Lifecycle.ChangePassword(c.Request.Context(), application.ChangePasswordRequest{
		UserID:          c.Param("id"),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ActedBy:         c.GetString(middleware.CtxUserIDKey),
	})
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok[any](c, http.StatusOK, gin.H{"changed": true}, res.Message(), nil)
}

type idsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func (h *UserHandler) DeleteUsers(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Lifecycle.SoftDelete(c.Request.Context(), req.IDs, c.GetString(middleware.CtxUserIDKey))
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok[any](c, http.StatusOK, gin.H{"deleted": res.Value()}, res.Message(), nil)
}

func (h *UserHandler) RestoreUsers(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Lifecycle.Restore(c.Request.Context(), req.IDs, c.GetString(middleware.CtxUserIDKey))
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok[any](c, http.StatusOK, gin.H{"restored": res.Value()}, res.Message(), nil)
}

func (h *UserHandler) PurgeUsers(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Lifecycle.PermanentlyDelete(c.Request.Context(), req.IDs)
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok[any](c, http.StatusOK, gin.H{"purged": res.Value()}, res.Message(), nil)
}

// SearchUsers hits the Elasticsearch mirror rather than Postgres.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		fail(c, http.StatusBadRequest, "invalid query", gin.H{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Auth.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		fail(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	ok(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// GetMe returns the caller's own record.
func (h *UserHandler) GetMe(c *gin.Context) {
	res := h.Get.Execute(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if res.IsFailure() {
		failResult(c, res.Failure())
		return
	}
	ok(c, http.StatusOK, userJSON(res.Value()), "profile", nil)
}

// UploadAvatar accepts a multipart file and stores it in object storage.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", gin.H{"avatar": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid payload", gin.H{"avatar": "file could not be read"})
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.Auth.UploadAvatar(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), f, fileHeader.Filename, contentType)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("avatar upload failed")
		}
		fail(c, http.StatusInternalServerError, "avatar upload failed", nil)
		return
	}
	ok[any](c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
