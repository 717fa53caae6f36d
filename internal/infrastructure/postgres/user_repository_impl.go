package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/vaccine-accounts/internal/domain/entity"
	"github.com/oksasatya/vaccine-accounts/internal/domain/repository"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const userColumns = "id, email, password, name, gender, age, phone_number, account_type, vaccine_name, first_doze_taken, first_doze_date, second_doze_taken, second_doze_date, is_fully_vaccinated, created_at, updated_at, deleted_at"

// DBTX is the subset of database/sql used by the repository.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*entity.User, error) {
	var (
		u           entity.User
		name        sql.Null[string]
		gender      sql.Null[string]
		age         sql.Null[int64]
		phone       sql.Null[string]
		accountType sql.Null[string]
		vaccineName sql.Null[string]
		firstTaken  sql.Null[bool]
		firstDate   sql.Null[time.Time]
		secondTaken sql.Null[bool]
		secondDate  sql.Null[time.Time]
		fully       sql.Null[bool]
		deletedAt   sql.Null[time.Time]
	)
	err := row.Scan(&u.ID, &u.Email, &u.Password, &name, &gender, &age, &phone, &accountType,
		&vaccineName, &firstTaken, &firstDate, &secondTaken, &secondDate, &fully,
		&u.CreatedAt, &u.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	u.Name = name.V
	u.Gender = gender.V
	u.Age = int(age.V)
	u.PhoneNumber = phone.V
	u.AccountType = accountType.V
	u.VaccineName = ptr(vaccineName)
	u.FirstDozeTaken = ptr(firstTaken)
	u.FirstDozeDate = ptr(firstDate)
	u.SecondDozeTaken = ptr(secondTaken)
	u.SecondDozeDate = ptr(secondDate)
	u.IsFullyVaccinated = ptr(fully)
	u.DeletedAt = ptr(deletedAt)
	return &u, nil
}

func ptr[T any](n sql.Null[T]) *T {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func wrap(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, name, gender, age, phone_number, account_type,
			vaccine_name, first_doze_taken, first_doze_date, second_doze_taken, second_doze_date, is_fully_vaccinated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.Gender, u.Age, u.PhoneNumber, u.AccountType,
		u.VaccineName, u.FirstDozeTaken, u.FirstDozeDate, u.SecondDozeTaken, u.SecondDozeDate, u.IsFullyVaccinated)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return wrap(err)
	}
	return nil
}

func (r *UserRepository) FindOne(ctx context.Context, f repository.Filter) (*entity.User, error) {
	where, args, err := buildWhere(f, 1)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where+" ORDER BY id LIMIT 1", args...)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, wrap(err)
	}
	return u, nil
}

func (r *UserRepository) FindAll(ctx context.Context, f repository.Filter) ([]entity.User, error) {
	where, args, err := buildWhere(f, 1)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, wrap(err)
	}
	defer func() { _ = rows.Close() }()

	var out []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrap(err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.FindOne(ctx, repository.Filter{"id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.FindOne(ctx, repository.Filter{"email": email})
}

func (r *UserRepository) Update(ctx context.Context, f repository.Filter, ch repository.Changes) (int64, error) {
	if len(f) == 0 {
		return 0, repository.ErrEmptyFilter
	}
	if len(ch) == 0 {
		return 0, nil
	}
	set, args, err := buildSet(ch)
	if err != nil {
		return 0, err
	}
	where, wargs, err := buildWhere(f, len(args)+1)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, "UPDATE users SET "+set+" WHERE "+where, append(args, wargs...)...)
	if err != nil {
		return 0, wrap(err)
	}
	return res.RowsAffected()
}

func (r *UserRepository) SoftDelete(ctx context.Context, f repository.Filter) (int64, error) {
	if len(f) == 0 {
		return 0, repository.ErrEmptyFilter
	}
	where, args, err := buildWhere(f, 1)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, "UPDATE users SET deleted_at = now(), updated_at = now() WHERE "+where, args...)
	if err != nil {
		return 0, wrap(err)
	}
	return res.RowsAffected()
}

var _ repository.UserRepository = (*UserRepository)(nil)
