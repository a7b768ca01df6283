package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/application"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/pkg/response"
)

// statusOf maps a failure kind to its HTTP status. This is the only place the
// translation happens; use cases never know about HTTP.
func statusOf(k application.ErrorKind) int {
	switch k {
	case application.KindValidation:
		return http.StatusBadRequest
	case application.KindUnauthorized:
		return http.StatusUnauthorized
	case application.KindForbidden:
		return http.StatusForbidden
	case application.KindNotFound:
		return http.StatusNotFound
	case application.KindConflict:
		return http.StatusConflict
	case application.KindBusinessRule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func ok[T any](c *gin.Context, status int, data T, message string, meta interface{}) {
	resp := response.Success(c, status, data, message, meta)
	c.JSON(resp.Status, resp)
}

func fail(c *gin.Context, status int, message string, err interface{}) {
	resp := response.Error[any](c, status, message, err)
	c.JSON(resp.Status, resp)
}

func failResult(c *gin.Context, f *application.Failure) {
	fail(c, statusOf(f.Kind), f.Message, gin.H{"kind": string(f.Kind)})
}

func userJSON(u *entity.User) gin.H {
	p := u.Profile()
	out := gin.H{
		"id":                u.ID().String(),
		"username":          u.Username().String(),
		"email":             u.Email().String(),
		"first_name":        p.FirstName(),
		"last_name":         p.LastName(),
		"full_name":         p.FullName(),
		"phone":             p.Phone(),
		"address":           p.Address(),
		"gender":            p.Gender(),
		"avatar_url":        p.AvatarURL(),
		"language":          p.Language(),
		"time_zone":         p.TimeZone(),
		"is_active":         u.IsActive(),
		"is_email_verified": u.IsEmailVerified(),
		"created_at":        u.CreatedAt(),
		"updated_at":        u.UpdatedAt(),
	}
	if bd := p.BirthDate(); bd != nil {
		out["birth_date"] = bd.Format("2006-01-02")
	}
	if t := u.LastLoginAt(); t != nil {
		out["last_login_at"] = t
	}
	if t := u.DeletedAt(); t != nil {
		out["deleted_at"] = t
	}
	return out
}

func roleJSON(r *entity.Role) gin.H {
	return gin.H{
		"id":             r.ID().String(),
		"name":           r.Name().String(),
		"slug":           r.Slug().String(),
		"description":    r.Description(),
		"is_active":      r.IsActive(),
		"is_system_role": r.IsSystemRole(),
		"created_at":     r.CreatedAt(),
		"updated_at":     r.UpdatedAt(),
	}
}

func usersJSON(users []*entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	return out
}

func rolesJSON(roles []*entity.Role) []gin.H {
	out := make([]gin.H, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleJSON(r))
	}
	return out
}

func paginationMeta[T any](p *repository.PaginatedResult[T]) response.PaginationMeta {
	return response.PaginationMeta{
		Page:        p.Page,
		Limit:       p.Limit,
		Total:       int64(p.Total),
		TotalPages:  p.TotalPages,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
	}
}

// parseDate accepts a plain date in ISO form; empty input returns nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
