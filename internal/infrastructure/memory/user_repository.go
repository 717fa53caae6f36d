// Package memory is a process-local UserRepository for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/vaccine-accounts/internal/domain/entity"
	"github.com/oksasatya/vaccine-accounts/internal/domain/repository"
)

type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]entity.User
	now    func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]entity.User), now: time.Now}
}

func (r *UserRepository) FindOne(ctx context.Context, f repository.Filter) (*entity.User, error) {
	all, err := r.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, repository.ErrNotFound
	}
	return &all[0], nil
}

func (r *UserRepository) FindAll(_ context.Context, f repository.Filter) ([]entity.User, error) {
	if err := checkColumns(f, repository.FilterColumns); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.User
	for _, u := range r.users {
		if u.DeletedAt == nil && matches(&u, f) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.FindOne(ctx, repository.Filter{"id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.FindOne(ctx, repository.Filter{"email": email})
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.DeletedAt == nil && existing.Email == u.Email {
			return fmt.Errorf("%w: email %q", repository.ErrDuplicate, u.Email)
		}
	}
	r.nextID++
	now := r.now()
	u.ID = r.nextID
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) Update(_ context.Context, f repository.Filter, ch repository.Changes) (int64, error) {
	if len(f) == 0 {
		return 0, repository.ErrEmptyFilter
	}
	if len(ch) == 0 {
		return 0, nil
	}
	if err := checkColumns(f, repository.FilterColumns); err != nil {
		return 0, err
	}
	if err := checkColumns(ch, repository.UpdatableColumns); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var targets []int64
	for id, u := range r.users {
		if u.DeletedAt == nil && matches(&u, f) {
			targets = append(targets, id)
		}
	}
	if email, ok := ch["email"].(string); ok {
		for id, u := range r.users {
			if u.DeletedAt == nil && u.Email == email && !contains(targets, id) {
				return 0, fmt.Errorf("%w: email %q", repository.ErrDuplicate, email)
			}
		}
	}
	for _, id := range targets {
		u := r.users[id]
		if err := apply(&u, ch); err != nil {
			return 0, err
		}
		u.UpdatedAt = r.now()
		r.users[id] = u
	}
	return int64(len(targets)), nil
}

func (r *UserRepository) SoftDelete(_ context.Context, f repository.Filter) (int64, error) {
	if len(f) == 0 {
		return 0, repository.ErrEmptyFilter
	}
	if err := checkColumns(f, repository.FilterColumns); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, u := range r.users {
		if u.DeletedAt == nil && matches(&u, f) {
			now := r.now()
			u.DeletedAt = &now
			u.UpdatedAt = now
			r.users[id] = u
			n++
		}
	}
	return n, nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func checkColumns[M ~map[string]any](m M, allowed map[string]struct{}) error {
	for col := range m {
		if _, ok := allowed[col]; !ok {
			return fmt.Errorf("%w: %q", repository.ErrUnknownColumn, col)
		}
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
