package uow

import (
	"context"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

// AfterCommit is a function that runs after a successful commit.
type AfterCommit func(ctx context.Context)

// UoW wraps a store's transactional scope and defers side effects (cache
// invalidation, notifications) until the write is durable.
type UoW struct {
	store repository.Store
}

func NewUoW(store repository.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside the store's transaction. After a successful commit,
// it executes all after-commit hooks.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	err := u.store.RunTx(ctx, func(ctx context.Context) error {
		return fn(ctx, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
