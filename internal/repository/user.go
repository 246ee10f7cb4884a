package repository

import (
	"context"
	"encoding/json"

	"storefront-service/internal/entity"
	"storefront-service/internal/store"
)

type UserRepository struct {
	kv store.KeyValue
}

func NewUserRepository(kv store.KeyValue) *UserRepository {
	return &UserRepository{kv}
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]*entity.User, error) {
	records, err := r.kv.ReadAll(ctx, store.CollectionUsers)
	if err != nil {
		return nil, err
	}

	var users []*entity.User
	for _, rec := range records {
		var user entity.User
		if err := json.Unmarshal(rec.Data, &user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	return users, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	rec, err := r.kv.ReadByID(ctx, store.CollectionUsers, id)
	if err != nil {
		return nil, err
	}

	var user entity.User
	if err := json.Unmarshal(rec.Data, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByEmail scans the collection; the users collection is small and has
// no secondary index.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	users, err := r.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, store.ErrNotFound
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	if err := r.kv.Append(ctx, store.CollectionUsers, store.Record{ID: user.ID, Data: data}); err != nil {
		return nil, err
	}

	return user, nil
}
