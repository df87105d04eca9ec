package repository

import (
	"context"

	"github.com/uptrace/bun"
)

// BunTransactor implements Transactor with bun.DB.RunInTx.
type BunTransactor struct {
	db *bun.DB
}

func NewBunTransactor(db *bun.DB) *BunTransactor {
	return &BunTransactor{db: db}
}

// WithinTx runs fn in a transaction. Every statement fn issues
// must go through the repositories it receives: SQLite runs on a single
// connection, so touching the outer DB inside fn blocks forever.
func (t *BunTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, users UserRepository, roles RoleRepository) error) error {
	return t.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, NewBunUserRepository(tx), NewBunRoleRepository(tx))
	})
}
