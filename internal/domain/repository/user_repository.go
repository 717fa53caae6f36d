package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/vaccine-accounts/internal/domain/entity"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrUnknownColumn = errors.New("unknown column")
	ErrEmptyFilter   = errors.New("refusing to modify rows without a filter")
)

// Filter is an equality conjunction over user columns, e.g. {"account_type": "admin"}.
// An empty Filter matches every live row.
type Filter map[string]any

// Changes maps user columns to their new values.
type Changes map[string]any

// UserRepository defines the interface for user-related database operations.
// Soft-deleted rows are never returned or modified.
type UserRepository interface {
	FindOne(ctx context.Context, f Filter) (*entity.User, error)
	FindAll(ctx context.Context, f Filter) ([]entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, f Filter, ch Changes) (int64, error)
	SoftDelete(ctx context.Context, f Filter) (int64, error)
}

// Columns that may appear in a Filter.
var FilterColumns = map[string]struct{}{
	"id":                  {},
	"email":               {},
	"name":                {},
	"gender":              {},
	"age":                 {},
	"phone_number":        {},
	"account_type":        {},
	"vaccine_name":        {},
	"first_doze_taken":    {},
	"first_doze_date":     {},
	"second_doze_taken":   {},
	"second_doze_date":    {},
	"is_fully_vaccinated": {},
}

// Columns that may appear in Changes.
var UpdatableColumns = map[string]struct{}{
	"email":               {},
	"password":            {},
	"name":                {},
	"gender":              {},
	"age":                 {},
	"phone_number":        {},
	"account_type":        {},
	"vaccine_name":        {},
	"first_doze_taken":    {},
	"first_doze_date":     {},
	"second_doze_taken":   {},
	"second_doze_date":    {},
	"is_fully_vaccinated": {},
}
