package memory

import (
	"fmt"
	"time"

	"github.com/oksasatya/vaccine-accounts/internal/domain/entity"
	"github.com/oksasatya/vaccine-accounts/internal/domain/repository"
)

// column returns the value stored in u for col, dereferencing optional fields
// so that nil means SQL NULL.
func column(u *entity.User, col string) any {
	switch col {
	case "id":
		return u.ID
	case "email":
		return u.Email
	case "password":
		return u.Password
	case "name":
		return u.Name
	case "gender":
		return u.Gender
	case "age":
		return int64(u.Age)
	case "phone_number":
		return u.PhoneNumber
	case "account_type":
		return u.AccountType
	case "vaccine_name":
		return deref(u.VaccineName)
	case "first_doze_taken":
		return deref(u.FirstDozeTaken)
	case "first_doze_date":
		return dateOf(u.FirstDozeDate)
	case "second_doze_taken":
		return deref(u.SecondDozeTaken)
	case "second_doze_date":
		return dateOf(u.SecondDozeDate)
	case "is_fully_vaccinated":
		return deref(u.IsFullyVaccinated)
	}
	return nil
}

func matches(u *entity.User, f repository.Filter) bool {
	for col, want := range f {
		if !equal(column(u, col), normalize(want)) {
			return false
		}
	}
	return true
}

func equal(got, want any) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	if gt, ok := got.(time.Time); ok {
		wt, ok := want.(time.Time)
		return ok && gt.Equal(wt)
	}
	return got == want
}

// normalize brings filter values to the representation used by column.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case *string:
		return deref(x)
	case *bool:
		return deref(x)
	case time.Time:
		return truncateDay(x)
	case *time.Time:
		return dateOf(x)
	}
	return v
}

func apply(u *entity.User, ch repository.Changes) error {
	for col, v := range ch {
		v = normalize(v)
		var err error
		switch col {
		case "email":
			err = assign(&u.Email, v)
		case "password":
			err = assign(&u.Password, v)
		case "name":
			err = assign(&u.Name, v)
		case "gender":
			err = assign(&u.Gender, v)
		case "phone_number":
			err = assign(&u.PhoneNumber, v)
		case "account_type":
			err = assign(&u.AccountType, v)
		case "age":
			var n int64
			if err = assign(&n, v); err == nil {
				u.Age = int(n)
			}
		case "vaccine_name":
			u.VaccineName, err = optional[string](v)
		case "first_doze_taken":
			u.FirstDozeTaken, err = optional[bool](v)
		case "second_doze_taken":
			u.SecondDozeTaken, err = optional[bool](v)
		case "is_fully_vaccinated":
			u.IsFullyVaccinated, err = optional[bool](v)
		case "first_doze_date":
			u.FirstDozeDate, err = optional[time.Time](v)
		case "second_doze_date":
			u.SecondDozeDate, err = optional[time.Time](v)
		default:
			err = fmt.Errorf("%w: %q", repository.ErrUnknownColumn, col)
		}
		if err != nil {
			return fmt.Errorf("column %s: %w", col, err)
		}
	}
	return nil
}

func assign[T any](dst *T, v any) error {
	x, ok := v.(T)
	if !ok {
		return fmt.Errorf("unexpected value type %T", v)
	}
	*dst = x
	return nil
}

func optional[T any](v any) (*T, error) {
	if v == nil {
		return nil, nil
	}
	x, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("unexpected value type %T", v)
	}
	return &x, nil
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func dateOf(t *time.Time) any {
	if t == nil {
		return nil
	}
	return truncateDay(*t)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
