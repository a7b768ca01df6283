package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

const roleColumns = `
	id, name, slug, description, is_active, is_system_role,
	created_at, updated_at, deleted_at, created_by, updated_by, deleted_by`

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) FindByID(ctx context.Context, id valueobject.EntityID) (*entity.Role, error) {
	return r.findOne(ctx, `WHERE id = $1`, id.String())
}

func (r *RoleRepository) FindBySlug(ctx context.Context, slug string) (*entity.Role, error) {
	return r.findOne(ctx, `WHERE slug = $1 AND deleted_at IS NULL`, slug)
}

func (r *RoleRepository) findOne(ctx context.Context, where string, args ...any) (*entity.Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles `+where, args...)
	role, err := scanRole(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *RoleRepository) FindAll(ctx context.Context, includeInactive bool) ([]*entity.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE deleted_at IS NULL`
	if !includeInactive {
		query += ` AND is_active`
	}
	query += ` ORDER BY name ASC`
	return r.queryRoles(ctx, query)
}

func (r *RoleRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles WHERE slug = $1 AND deleted_at IS NULL)`, slug).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RoleRepository) Save(ctx context.Context, role *entity.Role) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO roles (
			id, name, slug, description, is_active, is_system_role,
			created_at, updated_at, deleted_at, created_by, updated_by, deleted_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at,
			updated_by = EXCLUDED.updated_by,
			deleted_by = EXCLUDED.deleted_by
	`,
		role.ID().String(), role.Name().String(), role.Slug().String(), role.Description(),
		role.IsActive(), role.IsSystemRole(),
		role.CreatedAt(), role.UpdatedAt(), role.DeletedAt(),
		actorString(role.CreatedBy()), actorString(role.UpdatedBy()), actorString(role.DeletedBy()),
	)
	return err
}

func (r *RoleRepository) SoftDelete(ctx context.Context, ids []valueobject.EntityID, deletedBy valueobject.EntityID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE roles SET deleted_at = NOW(), deleted_by = $2
		WHERE id = ANY($1) AND deleted_at IS NULL AND NOT is_system_role
	`, idStrings(ids), deletedBy.String())
	return err
}

func (r *RoleRepository) Restore(ctx context.Context, ids []valueobject.EntityID, restoredBy valueobject.EntityID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE roles SET deleted_at = NULL, deleted_by = NULL, updated_at = NOW(), updated_by = $2
		WHERE id = ANY($1) AND deleted_at IS NOT NULL
	`, idStrings(ids), restoredBy.String())
	return err
}

func (r *RoleRepository) PermanentlyDelete(ctx context.Context, ids []valueobject.EntityID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = ANY($1) AND NOT is_system_role`, idStrings(ids))
	return err
}

// AssignToUser is idempotent: assigning an already-held role is a no-op.
func (r *RoleRepository) AssignToUser(ctx context.Context, userID, roleID valueobject.EntityID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id, assigned_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID.String(), roleID.String())
	return err
}

func (r *RoleRepository) RemoveFromUser(ctx context.Context, userID, roleID valueobject.EntityID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`,
		userID.String(), roleID.String())
	return err
}

func (r *RoleRepository) FindForUser(ctx context.Context, userID valueobject.EntityID) ([]*entity.Role, error) {
	query := `SELECT ` + prefixColumns(roleColumns, "r") + `
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1 AND r.deleted_at IS NULL
		ORDER BY r.name ASC`
	return r.queryRoles(ctx, query, userID.String())
}

func (r *RoleRepository) queryRoles(ctx context.Context, query string, args ...any) ([]*entity.Role, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func scanRole(row pgx.Row) (*entity.Role, error) {
	var (
		id, name, slug, description     string
		isActive, isSystemRole          bool
		createdAt, updatedAt            time.Time
		deletedAt                       *time.Time
		createdBy, updatedBy, deletedBy *string
	)
	if err := row.Scan(
		&id, &name, &slug, &description, &isActive, &isSystemRole,
		&createdAt, &updatedAt, &deletedAt, &createdBy, &updatedBy, &deletedBy,
	); err != nil {
		return nil, err
	}

	audit, err := buildAudit(id, createdAt, updatedAt, deletedAt, createdBy, updatedBy, deletedBy)
	if err != nil {
		return nil, err
	}
	return entity.ReconstituteRole(entity.RoleRecord{
		Audit:        audit,
		Name:         valueobject.RehydrateRoleName(name),
		Slug:         valueobject.RehydrateRoleSlug(slug),
		Description:  description,
		IsActive:     isActive,
		IsSystemRole: isSystemRole,
	}), nil
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
