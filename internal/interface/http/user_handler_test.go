package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/application"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	repo "github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

// fakeUserRepo backs the handler tests with an in-memory store.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) add(u *entity.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID().String()] = u
}

func (f *fakeUserRepo) FindByID(_ context.Context, id valueobject.EntityID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id.String()], nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username().String() == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email().String() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username().String() == username || u.Email().String() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := f.FindByUsername(ctx, username)
	return u != nil, err
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := f.FindByEmail(ctx, email)
	return u != nil, err
}

func (f *fakeUserRepo) FindWithPagination(_ context.Context, criteria repo.UserCriteria, page repo.Pagination, _ repo.Sort) (*repo.PaginatedResult[*entity.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*entity.User
	for _, u := range f.users {
		if u.IsDeleted() && !criteria.IncludeDeleted {
			continue
		}
		matched = append(matched, u)
	}
	return repo.NewPaginatedResult(matched, len(matched), page), nil
}

func (f *fakeUserRepo) FindByRole(_ context.Context, _ valueobject.EntityID) ([]*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) FindByRoles(_ context.Context, _ []valueobject.EntityID) ([]*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Save(_ context.Context, u *entity.User) error {
	f.add(u)
	return nil
}

func (f *fakeUserRepo) SoftDelete(_ context.Context, ids []valueobject.EntityID, deletedBy valueobject.EntityID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if u, ok := f.users[id.String()]; ok {
			u.MarkDeleted(&deletedBy)
		}
	}
	return nil
}

func (f *fakeUserRepo) Restore(_ context.Context, ids []valueobject.EntityID, restoredBy valueobject.EntityID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if u, ok := f.users[id.String()]; ok {
			u.Unmark(&restoredBy)
		}
	}
	return nil
}

func (f *fakeUserRepo) PermanentlyDelete(_ context.Context, ids []valueobject.EntityID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.users, id.String())
	}
	return nil
}

func seedUser(t *testing.T, users *fakeUserRepo, username, email string) *entity.User {
	t.Helper()
	un, err := valueobject.NewUsername(username)
	require.NoError(t, err)
	em, err := valueobject.NewEmail(email)
	require.NoError(t, err)
	profile, err := valueobject.NewUserProfile("Jane", "Doe", valueobject.ProfileChanges{})
	require.NoError(t, err)
	password, err := valueobject.NewPassword("Str0ng!pass")
	require.NoError(t, err)
	u, err := entity.NewUser(un, em, profile, password, nil)
	require.NoError(t, err)
	u.ClearEvents()
	users.add(u)
	return u
}

func newUserRouter(t *testing.T) (*gin.Engine, *fakeUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newFakeUserRepo()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := NewUserHandler(
		application.NewCreateUserUseCase(users, nil, nil, logger),
		application.NewGetUserByIDUseCase(users),
		application.NewUpdateUserUseCase(users, nil, nil, logger),
		application.NewGetUsersWithPaginationUseCase(users),
		application.NewUserLifecycleUseCase(users, nil, nil, logger),
		nil,
		logger,
	)

	r := gin.New()
	r.POST("/users", h.CreateUser)
	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)
	r.PUT("/users/:id", h.UpdateUser)
	r.POST("/users/:id/password", h.ChangePassword)
	r.POST("/users/delete", h.DeleteUsers)
	return r, users
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   map[string]any  `json:"error"`
}

func do(r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestCreateUserHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		r, _ := newUserRouter(t)
		w, env := do(r, http.MethodPost, "/users", gin.H{
			"username":   "jdoe",
			"email":      "jdoe@wms.local",
			"password":   "Str0ng!pass",
			"first_name": "Jane",
			"last_name":  "Doe",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)
		assert.Equal(t, "User created successfully", env.Message)

		var data map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "jdoe", data["username"])
		assert.Equal(t, "Jane Doe", data["full_name"])
		assert.NotContains(t, data, "password", "password must never appear in responses")
		assert.NotContains(t, data, "password_hash")
	})

	t.Run("binding failure", func(t *testing.T) {
		r, _ := newUserRouter(t)
		w, env := do(r, http.MethodPost, "/users", gin.H{"username": "jdoe"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		r, users := newUserRouter(t)
		seedUser(t, users, "existing", "jdoe@wms.local")

		w, env := do(r, http.MethodPost, "/users", gin.H{
			"username":   "jdoe",
			"email":      "jdoe@wms.local",
			"password":   "Str0ng!pass",
			"first_name": "Jane",
			"last_name":  "Doe",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "conflict", env.Error["kind"])
	})

	t.Run("bad birth date", func(t *testing.T) {
		r, _ := newUserRouter(t)
		w, _ := do(r, http.MethodPost, "/users", gin.H{
			"username":   "jdoe",
			"email":      "jdoe@wms.local",
			"password":   "Str0ng!pass",
			"first_name": "Jane",
			"last_name":  "Doe",
			"birth_date": "12/04/1990",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetUserHandler(t *testing.T) {
	r, users := newUserRouter(t)
	u := seedUser(t, users, "jdoe", "jdoe@wms.local")

	t.Run("found", func(t *testing.T) {
		w, env := do(r, http.MethodGet, "/users/"+u.ID().String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
	})

	t.Run("malformed id", func(t *testing.T) {
		w, env := do(r, http.MethodGet, "/users/nope", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation", env.Error["kind"])
	})

	t.Run("unknown id", func(t *testing.T) {
		w, env := do(r, http.MethodGet, "/users/"+valueobject.NewEntityID().String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", env.Error["kind"])
	})
}

func TestListUsersHandler(t *testing.T) {
	r, users := newUserRouter(t)
	seedUser(t, users, "alice", "alice@wms.local")

	t.Run("ok with pagination meta", func(t *testing.T) {
		w, env := do(r, http.MethodGet, "/users?page=1&limit=10", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.Contains(t, w.Body.String(), `"total":1`)
	})

	t.Run("bad query values", func(t *testing.T) {
		w, env := do(r, http.MethodGet, "/users?page=abc&is_active=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, "page")
		assert.Contains(t, env.Error, "is_active")
	})

	t.Run("sort allow-list enforced", func(t *testing.T) {
		w, _ := do(r, http.MethodGet, "/users?sort_by=password_hash", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChangePasswordHandler(t *testing.T) {
	r, users := newUserRouter(t)
	u := seedUser(t, users, "jdoe", "jdoe@wms.local")

	t.Run("wrong current password", func(t *testing.T) {
		w, env := do(r, http.MethodPost, "/users/"+u.ID().String()+"/password", gin.H{
			"current_password": "wrong",
			"new_password":     "An0ther!pass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", env.Error["kind"])
	})

	t.Run("success", func(t *testing.T) {
		w, env := do(r, http.MethodPost, "/users/"+u.ID().String()+"/password", gin.H{
			"current_password": "Str0ng!pass",
			"new_password":     "An0ther!pass",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.True(t, u.Password().Compare("An0ther!pass"))
	})
}

func TestDeleteUsersHandler(t *testing.T) {
	t.Run("requires authenticated actor", func(t *testing.T) {
		r, users := newUserRouter(t)
		u := seedUser(t, users, "jdoe", "jdoe@wms.local")

		// No auth middleware on the test router, so no acting user id is set.
		w, env := do(r, http.MethodPost, "/users/delete", gin.H{"ids": []string{u.ID().String()}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation", env.Error["kind"])
	})

	t.Run("empty batch rejected by binding", func(t *testing.T) {
		r, _ := newUserRouter(t)
		w, _ := do(r, http.MethodPost, "/users/delete", gin.H{"ids": []string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
