package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/bunx"
	"github.com/luisolivares/api-rest-security-jwt/cmd/authapi/internal/db/models"
)

// BunUserRepository implements UserRepository using Bun ORM
type BunUserRepository struct {
	db bun.IDB
}

// NewBunUserRepository creates a user repository on a DB or transaction.
func NewBunUserRepository(db bun.IDB) *BunUserRepository {
	return &BunUserRepository{db: db}
}

// Create inserts the user row. Roles are attached separately with AssignRoles.
// A taken email or document number yields ErrConflict.
func (r *BunUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = bunx.NewUUIDv7()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(user).
		Exec(ctx)
	return translate(err, "create user")
}

// AssignRoles links roles to a user. Existing links are kept.
func (r *BunUserRepository) AssignRoles(ctx context.Context, userID string, roleIDs ...string) error {
	if len(roleIDs) == 0 {
		return nil
	}

	links := make([]models.UserRole, 0, len(roleIDs))
	for _, id := range roleIDs {
		links = append(links, models.UserRole{UserID: userID, RoleID: id})
	}

	_, err := r.db.NewInsert().
		Model(&links).
		On("CONFLICT (user_id, role_id) DO NOTHING").
		Exec(ctx)
	return translate(err, "assign roles")
}

// GetByID retrieves a user by their ID
func (r *BunUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, fmt.Sprintf("get user %s", id), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("u.id = ?", id)
	})
}

// GetByEmail retrieves a user by their email
func (r *BunUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "get user by email", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("u.email = ?", email)
	})
}

// GetByDocument retrieves a user by identity document
func (r *BunUserRepository) GetByDocument(ctx context.Context, documentType, documentNumber string) (*models.User, error) {
	return r.getOne(ctx, "get user by document", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("u.document_type = ?", documentType).Where("u.document_number = ?", documentNumber)
	})
}

func (r *BunUserRepository) getOne(ctx context.Context, op string, where func(*bun.SelectQuery) *bun.SelectQuery) (*models.User, error) {
	user := new(models.User)
	q := r.db.NewSelect().
		Model(user).
		Relation("Roles", orderRolesByName)
	if err := where(q).Scan(ctx); err != nil {
		return nil, translate(err, op)
	}
	return user, nil
}

func (r *BunUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.db.NewUpdate().
		Model(user).
		Column("first_name", "last_name", "gender", "document_type", "document_number", "phone", "password_hash", "updated_at").
		Where("email = ?", user.Email).
		Exec(ctx)
	if err != nil {
		return translate(err, "update user")
	}
	return requireAffected(res, "update user")
}

// Delete removes a user. Role links cascade.
func (r *BunUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.NewDelete().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return translate(err, "delete user")
	}
	return requireAffected(res, "delete user")
}

// List returns one page of users with their roles, ordered by email.
func (r *BunUserRepository) List(ctx context.Context, page Page) ([]models.User, int, error) {
	var users []models.User
	total, err := r.db.NewSelect().
		Model(&users).
		Relation("Roles", orderRolesByName).
		Order("u.email ASC").
		Limit(page.Size).
		Offset(page.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, translate(err, "list users")
	}
	return users, total, nil
}

func orderRolesByName(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("r.name ASC")
}
