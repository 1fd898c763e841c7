package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/georgemunganga/shopswift/internal/storage"
)

// KeyPrefix namespaces session user records in the store.
const KeyPrefix = "shopswift-user:"

type storageRepository struct {
	store storage.Store
}

// NewStorageRepository keeps each session's user as a JSON record.
func NewStorageRepository(store storage.Store) Repository {
	return &storageRepository{store: store}
}

func (r *storageRepository) Get(ctx context.Context, sessionID string) (*User, error) {
	raw, err := r.store.Get(ctx, KeyPrefix+sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, err
	}
	u := &User{}
	if err := json.Unmarshal(raw, u); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	return u, nil
}

func (r *storageRepository) Save(ctx context.Context, sessionID string, u *User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, KeyPrefix+sessionID, raw)
}

func (r *storageRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, KeyPrefix+sessionID)
}
