package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/bunx"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
)

// BunRoleRepository implements RoleRepository using Bun ORM
type BunRoleRepository struct {
	db bun.IDB
}

// NewBunRoleRepository creates a role repository on a DB or transaction.
func NewBunRoleRepository(db bun.IDB) *BunRoleRepository {
	return &BunRoleRepository{db: db}
}

// Create inserts a new role. A taken name yields ErrConflict.
func (r *BunRoleRepository) Create(ctx context.Context, role *models.Role) error {
	stampNewRole(role)
	_, err := r.db.NewInsert().
		Model(role).
		Exec(ctx)
	return translate(err, "create role")
}

// GetByID retrieves a role by ID
func (r *BunRoleRepository) GetByID(ctx context.Context, id string) (*models.Role, error) {
	role := new(models.Role)
	err := r.db.NewSelect().
		Model(role).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("get role %s", id))
	}
	return role, nil
}

// GetByName retrieves a role by name
func (r *BunRoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	role := new(models.Role)
	err := r.db.NewSelect().
		Model(role).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("get role %q", name))
	}
	return role, nil
}

func (r *BunRoleRepository) EnsureByName(ctx context.Context, name, description string) (*models.Role, bool, error) {
	candidate := &models.Role{Name: name, Description: description}
	stampNewRole(candidate)

	res, err := r.db.NewInsert().
		Model(candidate).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, false, translate(err, fmt.Sprintf("ensure role %q", name))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("ensure role %q: get rows affected: %w", name, err)
	}

	role, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return role, n > 0, nil
}

// UpdateDescription changes the description of the named role.
func (r *BunRoleRepository) UpdateDescription(ctx context.Context, name, description string) (*models.Role, error) {
	op := fmt.Sprintf("update role %q", name)
	res, err := r.db.NewUpdate().
		Model((*models.Role)(nil)).
		Set("description = ?", description).
		Set("updated_at = ?", time.Now().UTC()).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return nil, translate(err, op)
	}
	if err := requireAffected(res, op); err != nil {
		return nil, err
	}
	return r.GetByName(ctx, name)
}

// DeleteByName removes a role. Assignments cascade.
func (r *BunRoleRepository) DeleteByName(ctx context.Context, name string) error {
	op := fmt.Sprintf("delete role %q", name)
	res, err := r.db.NewDelete().
		Model((*models.Role)(nil)).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return translate(err, op)
	}
	return requireAffected(res, op)
}

// List returns one page of roles ordered by name and the total row count.
func (r *BunRoleRepository) List(ctx context.Context, page Page) ([]models.Role, int, error) {
	var roles []models.Role
	total, err := r.db.NewSelect().
		Model(&roles).
		Order("name ASC").
		Limit(page.Size).
		Offset(page.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, translate(err, "list roles")
	}
	return roles, total, nil
}

func (r *BunRoleRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.NewSelect().
		Model((*models.Role)(nil)).
		Column("name").
		Scan(ctx, &names)
	if err != nil {
		return nil, translate(err, "list role names")
	}
	return names, nil
}

func stampNewRole(role *models.Role) {
	now := time.Now().UTC()
	if role.ID == "" {
		role.ID = bunx.NewUUIDv7()
	}
	if role.CreatedAt.IsZero() {
		role.CreatedAt = now
	}
	role.UpdatedAt = now
}
