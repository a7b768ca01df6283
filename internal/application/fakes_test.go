package application

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	repo "github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

// memUserRepo is an in-memory UserRepository for use-case tests. Error fields
// force the next matching call to fail.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User

	findErr error
	saveErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (m *memUserRepo) add(u *entity.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID().String()] = u
}

func (m *memUserRepo) FindByID(_ context.Context, id valueobject.EntityID) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id.String()], nil
}

func (m *memUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username().String() == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email().String() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username().String() == username || u.Email().String() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := m.FindByUsername(ctx, username)
	return u != nil, err
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := m.FindByEmail(ctx, email)
	return u != nil, err
}

func (m *memUserRepo) FindWithPagination(_ context.Context, criteria repo.UserCriteria, page repo.Pagination, _ repo.Sort) (*repo.PaginatedResult[*entity.User], error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*entity.User
	for _, u := range m.users {
		if u.IsDeleted() && !criteria.IncludeDeleted {
			continue
		}
		if criteria.IsActive != nil && u.IsActive() != *criteria.IsActive {
			continue
		}
		if criteria.Search != "" &&
			!strings.Contains(u.Username().String(), criteria.Search) &&
			!strings.Contains(u.Email().String(), criteria.Search) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Username().String() < matched[j].Username().String()
	})

	total := len(matched)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return repo.NewPaginatedResult(matched[start:end], total, page), nil
}

func (m *memUserRepo) FindByRole(_ context.Context, _ valueobject.EntityID) ([]*entity.User, error) {
	return nil, nil
}

func (m *memUserRepo) FindByRoles(_ context.Context, _ []valueobject.EntityID) ([]*entity.User, error) {
	return nil, nil
}

func (m *memUserRepo) Save(_ context.Context, u *entity.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.add(u)
	return nil
}

func (m *memUserRepo) SoftDelete(_ context.Context, ids []valueobject.EntityID, deletedBy valueobject.EntityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if u, ok := m.users[id.String()]; ok {
			u.MarkDeleted(&deletedBy)
		}
	}
	return nil
}

func (m *memUserRepo) Restore(_ context.Context, ids []valueobject.EntityID, restoredBy valueobject.EntityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if u, ok := m.users[id.String()]; ok {
			u.Unmark(&restoredBy)
		}
	}
	return nil
}

func (m *memUserRepo) PermanentlyDelete(_ context.Context, ids []valueobject.EntityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.users, id.String())
	}
	return nil
}

// memRoleRepo mirrors memUserRepo for roles, including the user_roles join.
type memRoleRepo struct {
	mu    sync.Mutex
	roles map[string]*entity.Role
	// joins maps userID -> set of roleIDs.
	joins map[string]map[string]struct{}

	findErr error
	saveErr error
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{
		roles: map[string]*entity.Role{},
		joins: map[string]map[string]struct{}{},
	}
}

func (m *memRoleRepo) add(r *entity.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[r.ID().String()] = r
}

func (m *memRoleRepo) FindByID(_ context.Context, id valueobject.EntityID) (*entity.Role, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roles[id.String()], nil
}

func (m *memRoleRepo) FindBySlug(_ context.Context, slug string) (*entity.Role, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Slug().String() == slug {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memRoleRepo) FindAll(_ context.Context, includeInactive bool) ([]*entity.Role, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Role
	for _, r := range m.roles {
		if r.IsDeleted() {
			continue
		}
		if !includeInactive && !r.IsActive() {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name().String() < out[j].Name().String() })
	return out, nil
}

func (m *memRoleRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	r, err := m.FindBySlug(ctx, slug)
	return r != nil, err
}

func (m *memRoleRepo) Save(_ context.Context, r *entity.Role) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.add(r)
	return nil
}

func (m *memRoleRepo) SoftDelete(_ context.Context, ids []valueobject.EntityID, deletedBy valueobject.EntityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if r, ok := m.roles[id.String()]; ok {
			r.MarkDeleted(&deletedBy)
		}
	}
	return nil
}

func (m *memRoleRepo) Restore(_ context.Context, ids []valueobject.EntityID, restoredBy valueobject.EntityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if r, ok := m.roles[id.String()]; ok {
			r.Unmark(&restoredBy)
		}
	}
	return nil
}

func (m *memRoleRepo) PermanentlyDelete(_ context.Context, ids []valueobject.EntityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.roles, id.String())
	}
	return nil
}

func (m *memRoleRepo) AssignToUser(_ context.Context, userID, roleID valueobject.EntityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.joins[userID.String()]
	if !ok {
		set = map[string]struct{}{}
		m.joins[userID.String()] = set
	}
	set[roleID.String()] = struct{}{}
	return nil
}

func (m *memRoleRepo) RemoveFromUser(_ context.Context, userID, roleID valueobject.EntityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.joins[userID.String()], roleID.String())
	return nil
}

func (m *memRoleRepo) FindForUser(_ context.Context, userID valueobject.EntityID) ([]*entity.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Role
	for roleID := range m.joins[userID.String()] {
		if r, ok := m.roles[roleID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// recordingDispatcher captures dispatched events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, events []event.DomainEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, events...)
}

func (d *recordingDispatcher) names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.EventName())
	}
	return out
}

// recordingIndexer captures index/remove calls.
type recordingIndexer struct {
	mu      sync.Mutex
	indexed []string
	removed []string
}

func (i *recordingIndexer) Index(_ context.Context, u *entity.User) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexed = append(i.indexed, u.ID().String())
}

func (i *recordingIndexer) Remove(_ context.Context, ids []string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.removed = append(i.removed, ids...)
}

func (i *recordingIndexer) Search(_ context.Context, _ string, _ int) ([]map[string]any, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func mustUser(t *testing.T, username, email string) *entity.User {
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
	return u
}

func mustRole(t *testing.T, name, slug string, system bool) *entity.Role {
	t.Helper()
	n, err := valueobject.NewRoleName(name)
	require.NoError(t, err)
	s, err := valueobject.NewRoleSlug(slug)
	require.NoError(t, err)
	r, err := entity.NewRole(n, s, "", system, nil)
	require.NoError(t, err)
	r.ClearEvents()
	return r
}
