package ingest

import (
	"context"

	"github.com/tickerpulse/backend/internal/posts"
)

// postsStore adapts the concrete posts repository to the pipeline's
// Store interface. The repository's transaction type satisfies Tx
// directly; only Begin's return type needs bridging.
type postsStore struct {
	repo *posts.Repository
}

// NewPostsStore wraps a posts repository as a pipeline Store
func NewPostsStore(repo *posts.Repository) Store {
	return postsStore{repo: repo}
}

func (s postsStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}
