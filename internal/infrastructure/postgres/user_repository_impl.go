package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

const userColumns = `
	id, username, email, password_hash,
	first_name, last_name, phone, address, birth_date, gender, avatar_url, language, time_zone,
	is_active, is_email_verified, email_verified_at, last_login_at,
	reset_token, reset_token_expires_at,
	created_at, updated_at, deleted_at, created_by, updated_by, deleted_by`

// sortColumns maps API sort fields onto users columns. The use-case layer
// validates the field; this map is the single source for the translation.
var sortColumns = map[string]string{
	"username":    "username",
	"email":       "email",
	"firstName":   "first_name",
	"lastName":    "last_name",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"lastLoginAt": "last_login_at",
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id valueobject.EntityID) (*entity.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id.String())
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE username = $1 AND deleted_at IS NULL`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE email = $1 AND deleted_at IS NULL`, strings.ToLower(email))
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error) {
	return r.findOne(ctx, `WHERE (username = $1 OR email = $2) AND deleted_at IS NULL`, username, strings.ToLower(email))
}

func (r *UserRepository) findOne(ctx context.Context, where string, args ...any) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, args...)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND deleted_at IS NULL)`, username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`, strings.ToLower(email))
}

func (r *UserRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *UserRepository) FindWithPagination(ctx context.Context, criteria repository.UserCriteria, page repository.Pagination, sort repository.Sort) (*repository.PaginatedResult[*entity.User], error) {
	where, args := buildUserFilter(criteria)

	var total int
	countQuery := `SELECT COUNT(*) FROM users u ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	col, ok := sortColumns[sort.Field]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if strings.EqualFold(sort.Direction, "desc") {
		dir = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM users u %s ORDER BY u.%s %s, u.id %s LIMIT $%d OFFSET $%d`,
		prefixColumns(userColumns, "u"), where, col, dir, dir, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	users, err := r.queryUsers(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return repository.NewPaginatedResult(users, total, page), nil
}

func (r *UserRepository) FindByRole(ctx context.Context, roleID valueobject.EntityID) ([]*entity.User, error) {
	return r.FindByRoles(ctx, []valueobject.EntityID{roleID})
}

func (r *UserRepository) FindByRoles(ctx context.Context, roleIDs []valueobject.EntityID) ([]*entity.User, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	query := `SELECT DISTINCT ` + prefixColumns(userColumns, "u") + `
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		WHERE ur.role_id = ANY($1) AND u.deleted_at IS NULL
		ORDER BY u.username ASC`
	return r.queryUsers(ctx, query, idStrings(roleIDs))
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Save upserts on id, so insert and update share one path.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	p := u.Profile()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (
			id, username, email, password_hash,
			first_name, last_name, phone, address, birth_date, gender, avatar_url, language, time_zone,
			is_active, is_email_verified, email_verified_at, last_login_at,
			reset_token, reset_token_expires_at,
			created_at, updated_at, deleted_at, created_by, updated_by, deleted_by
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17,
			$18, $19,
			$20, $21, $22, $23, $24, $25
		)
		ON CONFLICT (id) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			birth_date = EXCLUDED.birth_date,
			gender = EXCLUDED.gender,
			avatar_url = EXCLUDED.avatar_url,
			language = EXCLUDED.language,
			time_zone = EXCLUDED.time_zone,
			is_active = EXCLUDED.is_active,
			is_email_verified = EXCLUDED.is_email_verified,
			email_verified_at = EXCLUDED.email_verified_at,
			last_login_at = EXCLUDED.last_login_at,
			reset_token = EXCLUDED.reset_token,
			reset_token_expires_at = EXCLUDED.reset_token_expires_at,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at,
			updated_by = EXCLUDED.updated_by,
			deleted_by = EXCLUDED.deleted_by
	`,
		u.ID().String(), u.Username().String(), u.Email().String(), u.Password().Hash(),
		p.FirstName(), p.LastName(), p.Phone(), p.Address(), p.BirthDate(), p.Gender(), p.AvatarURL(), p.Language(), p.TimeZone(),
		u.IsActive(), u.IsEmailVerified(), u.EmailVerifiedAt(), u.LastLoginAt(),
		u.ResetToken(), u.ResetTokenExpiresAt(),
		u.CreatedAt(), u.UpdatedAt(), u.DeletedAt(), actorString(u.CreatedBy()), actorString(u.UpdatedBy()), actorString(u.DeletedBy()),
	)
	return err
}

func (r *UserRepository) SoftDelete(ctx context.Context, ids []valueobject.EntityID, deletedBy valueobject.EntityID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET deleted_at = NOW(), deleted_by = $2
		WHERE id = ANY($1) AND deleted_at IS NULL
	`, idStrings(ids), deletedBy.String())
	return err
}

func (r *UserRepository) Restore(ctx context.Context, ids []valueobject.EntityID, restoredBy valueobject.EntityID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET deleted_at = NULL, deleted_by = NULL, updated_at = NOW(), updated_by = $2
		WHERE id = ANY($1) AND deleted_at IS NOT NULL
	`, idStrings(ids), restoredBy.String())
	return err
}

func (r *UserRepository) PermanentlyDelete(ctx context.Context, ids []valueobject.EntityID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = ANY($1)`, idStrings(ids))
	return err
}

func buildUserFilter(c repository.UserCriteria) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if !c.IncludeDeleted {
		conds = append(conds, "u.deleted_at IS NULL")
	}
	if s := strings.TrimSpace(c.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(u.username ILIKE $%d OR u.email ILIKE $%d OR u.first_name ILIKE $%d OR u.last_name ILIKE $%d)", n, n, n, n))
	}
	if c.IsActive != nil {
		args = append(args, *c.IsActive)
		conds = append(conds, fmt.Sprintf("u.is_active = $%d", len(args)))
	}
	if c.IsEmailVerified != nil {
		args = append(args, *c.IsEmailVerified)
		conds = append(conds, fmt.Sprintf("u.is_email_verified = $%d", len(args)))
	}
	if c.RoleSlug != "" {
		args = append(args, c.RoleSlug)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM user_roles ur JOIN roles ro ON ro.id = ur.role_id WHERE ur.user_id = u.id AND ro.slug = $%d)", len(args)))
	}
	if c.CreatedAfter != nil {
		args = append(args, *c.CreatedAfter)
		conds = append(conds, fmt.Sprintf("u.created_at >= $%d", len(args)))
	}
	if c.CreatedBefore != nil {
		args = append(args, *c.CreatedBefore)
		conds = append(conds, fmt.Sprintf("u.created_at <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		id, username, email, hash                         string
		firstName, lastName, phone, address               string
		gender, avatarURL, language, timeZone             string
		birthDate, emailVerifiedAt, lastLoginAt           *time.Time
		isActive, isEmailVerified                         bool
		resetToken                                        string
		resetExpiresAt, deletedAt                         *time.Time
		createdAt, updatedAt                              time.Time
		createdBy, updatedBy, deletedBy                   *string
	)
	if err := row.Scan(
		&id, &username, &email, &hash,
		&firstName, &lastName, &phone, &address, &birthDate, &gender, &avatarURL, &language, &timeZone,
		&isActive, &isEmailVerified, &emailVerifiedAt, &lastLoginAt,
		&resetToken, &resetExpiresAt,
		&createdAt, &updatedAt, &deletedAt, &createdBy, &updatedBy, &deletedBy,
	); err != nil {
		return nil, err
	}

	audit, err := buildAudit(id, createdAt, updatedAt, deletedAt, createdBy, updatedBy, deletedBy)
	if err != nil {
		return nil, err
	}
	pw, err := valueobject.PasswordFromHash(hash)
	if err != nil {
		return nil, err
	}

	return entity.ReconstituteUser(entity.UserRecord{
		Audit:    audit,
		Username: valueobject.RehydrateUsername(username),
		Email:    valueobject.RehydrateEmail(email),
		Profile: valueobject.RehydrateUserProfile(valueobject.ProfileRecord{
			FirstName: firstName,
			LastName:  lastName,
			Phone:     phone,
			Address:   address,
			BirthDate: birthDate,
			Gender:    gender,
			AvatarURL: avatarURL,
			Language:  language,
			TimeZone:  timeZone,
		}),
		Password:            pw,
		IsActive:            isActive,
		IsEmailVerified:     isEmailVerified,
		EmailVerifiedAt:     emailVerifiedAt,
		LastLoginAt:         lastLoginAt,
		ResetToken:          resetToken,
		ResetTokenExpiresAt: resetExpiresAt,
	}), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
